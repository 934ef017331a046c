package engine

import (
	"sort"

	"resumerefiner/internal/taxonomy"
	"resumerefiner/internal/types"
)

// GapAnalyzer diffs job-required skills against resume skills and
// classifies each missing skill's criticality by its frequency rank in the
// job text. Output ordering is stable and deterministic: categories in
// taxonomy-declared order, critical before recommended within a category,
// each group alphabetical.
type GapAnalyzer struct {
	tax  *taxonomy.Taxonomy
	topN int
}

// NewGapAnalyzer creates a gap analyzer. topN is the configured number of
// top-frequency job skills considered critical; 0 derives it from the job
// text length at analysis time.
func NewGapAnalyzer(tax *taxonomy.Taxonomy, topN int) *GapAnalyzer {
	return &GapAnalyzer{tax: tax, topN: topN}
}

// Gaps returns the per-category missing skills with criticality.
// jobCounts are the job document's per-skill mention counts and
// jobTokenCount its token length, both produced during extraction.
func (g *GapAnalyzer) Gaps(resume, job SkillSet, jobCounts map[string]int, jobTokenCount int) []types.CategoryGap {
	critical := g.criticalSkills(jobCounts, jobTokenCount)

	var gaps []types.CategoryGap
	for _, category := range g.tax.Categories() {
		var criticalMissing, recommendedMissing []string
		for skill := range job[category] {
			if resume.Has(category, skill) {
				continue
			}
			if _, ok := critical[skill]; ok {
				criticalMissing = append(criticalMissing, skill)
			} else {
				recommendedMissing = append(recommendedMissing, skill)
			}
		}

		if len(criticalMissing) == 0 && len(recommendedMissing) == 0 {
			continue
		}

		sort.Strings(criticalMissing)
		sort.Strings(recommendedMissing)

		missing := make([]types.MissingSkill, 0, len(criticalMissing)+len(recommendedMissing))
		for _, skill := range criticalMissing {
			missing = append(missing, types.MissingSkill{Skill: skill, Criticality: types.CriticalityCritical})
		}
		for _, skill := range recommendedMissing {
			missing = append(missing, types.MissingSkill{Skill: skill, Criticality: types.CriticalityRecommended})
		}

		gaps = append(gaps, types.CategoryGap{Category: category, Missing: missing})
	}

	return gaps
}

// Matched returns the intersection of job and resume skills per category
func (g *GapAnalyzer) Matched(resume, job SkillSet) SkillSet {
	matched := NewSkillSet()
	for category, skills := range job {
		for skill := range skills {
			if resume.Has(category, skill) {
				matched.Add(category, skill)
			}
		}
	}
	return matched
}

// criticalSkills returns the job's top-N most frequently mentioned skills.
// Ties break alphabetically so the ranking is deterministic.
func (g *GapAnalyzer) criticalSkills(jobCounts map[string]int, jobTokenCount int) map[string]struct{} {
	n := g.topN
	if n <= 0 {
		n = deriveTopN(jobTokenCount)
	}

	ranked := make([]string, 0, len(jobCounts))
	for skill := range jobCounts {
		ranked = append(ranked, skill)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if jobCounts[ranked[i]] != jobCounts[ranked[j]] {
			return jobCounts[ranked[i]] > jobCounts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	critical := make(map[string]struct{}, len(ranked))
	for _, skill := range ranked {
		critical[skill] = struct{}{}
	}
	return critical
}

// deriveTopN scales the critical cutoff with job text length: roughly one
// critical slot per 50 tokens, between 3 and 10.
func deriveTopN(jobTokenCount int) int {
	n := jobTokenCount / 50
	if n < 3 {
		n = 3
	}
	if n > 10 {
		n = 10
	}
	return n
}
