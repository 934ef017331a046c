package engine

import (
	"fmt"
	"strings"

	"resumerefiner/internal/types"
)

// buildRecommendations turns the scores and the skill gap into tiered
// guidance: strengths, weaknesses and concrete action items.
func buildRecommendations(atsScore float64, matched []types.CategorySkills, gaps []types.CategoryGap) types.Recommendations {
	rec := types.Recommendations{}

	switch {
	case atsScore >= 80:
		rec.Strengths = append(rec.Strengths, "Strong ATS compatibility")
	case atsScore >= 60:
		rec.Strengths = append(rec.Strengths, "Good basic ATS formatting")
		rec.ActionItems = append(rec.ActionItems,
			"Add more industry-specific keywords",
			"Enhance section headers for better visibility")
	default:
		rec.Weaknesses = append(rec.Weaknesses, "Needs ATS optimization")
		rec.ActionItems = append(rec.ActionItems,
			"Add relevant keywords from the job description",
			"Improve section headers (Experience, Education, Skills)",
			"Use bullet points for better readability",
			"Include contact information and professional links")
	}

	matchedCount := 0
	for _, cat := range matched {
		matchedCount += len(cat.Skills)
	}
	if matchedCount > 0 {
		rec.Strengths = append(rec.Strengths,
			fmt.Sprintf("Strong match in %d key skills", matchedCount))
	}

	missingCount := 0
	for _, gap := range gaps {
		missingCount += len(gap.Missing)
	}
	if missingCount > 0 {
		rec.Weaknesses = append(rec.Weaknesses,
			fmt.Sprintf("Missing %d relevant skills", missingCount))
		rec.ActionItems = appendUnique(rec.ActionItems, skillSuggestions(gaps, 5)...)
	}

	if atsScore < 80 {
		rec.ActionItems = appendUnique(rec.ActionItems,
			"Use consistent date formats",
			"Add quantifiable achievements")
	}

	return rec
}

// skillSuggestions produces up to max prioritized learning suggestions from
// the gap report. Critical skills come first, in report order, so the
// output is deterministic.
func skillSuggestions(gaps []types.CategoryGap, max int) []string {
	var suggestions []string

	for _, crit := range []types.Criticality{types.CriticalityCritical, types.CriticalityRecommended} {
		for _, gap := range gaps {
			for _, missing := range gap.Missing {
				if missing.Criticality != crit || len(suggestions) >= max {
					continue
				}
				category := strings.ReplaceAll(gap.Category, "_", " ")
				if crit == types.CriticalityCritical {
					suggestions = append(suggestions,
						fmt.Sprintf("Consider developing %s to strengthen your %s skills", missing.Skill, category))
				} else {
					suggestions = append(suggestions,
						fmt.Sprintf("Consider adding %s to your skillset", missing.Skill))
				}
			}
		}
	}

	return suggestions
}

// appendUnique appends items not already present, compared
// case-insensitively by substring as duplicate suggestions often only
// differ in phrasing
func appendUnique(items []string, additions ...string) []string {
	for _, add := range additions {
		duplicate := false
		for _, existing := range items {
			if strings.Contains(strings.ToLower(existing), strings.ToLower(add)) ||
				strings.Contains(strings.ToLower(add), strings.ToLower(existing)) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			items = append(items, add)
		}
	}
	return items
}
