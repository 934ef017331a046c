package engine

import (
	"sort"

	"resumerefiner/internal/taxonomy"
	"resumerefiner/internal/types"
)

// SkillSet maps taxonomy categories to the canonical skills found in a
// document. It stores presence, not counts; mention counts are computed
// alongside during extraction when needed. A SkillSet is derived from a
// document via extraction and never hand-edited.
type SkillSet map[string]map[string]struct{}

// NewSkillSet creates an empty skill set
func NewSkillSet() SkillSet {
	return make(SkillSet)
}

// Add records a canonical skill under its category
func (s SkillSet) Add(category, skill string) {
	if s[category] == nil {
		s[category] = make(map[string]struct{})
	}
	s[category][skill] = struct{}{}
}

// Has reports whether the skill is present in the category
func (s SkillSet) Has(category, skill string) bool {
	_, ok := s[category][skill]
	return ok
}

// Total returns the number of distinct skills across all categories
func (s SkillSet) Total() int {
	n := 0
	for _, skills := range s {
		n += len(skills)
	}
	return n
}

// All returns every skill across categories, sorted for determinism
func (s SkillSet) All() []string {
	out := make([]string, 0, s.Total())
	for _, skills := range s {
		for skill := range skills {
			out = append(out, skill)
		}
	}
	sort.Strings(out)
	return out
}

// ByCategory converts the set to the serializable form: categories in
// taxonomy-declared order, skills alphabetical within each category.
// Categories with no skills are omitted.
func (s SkillSet) ByCategory(tax *taxonomy.Taxonomy) []types.CategorySkills {
	out := make([]types.CategorySkills, 0, len(s))
	for _, category := range tax.Categories() {
		skills := s[category]
		if len(skills) == 0 {
			continue
		}
		names := make([]string, 0, len(skills))
		for skill := range skills {
			names = append(names, skill)
		}
		sort.Strings(names)
		out = append(out, types.CategorySkills{Category: category, Skills: names})
	}
	return out
}
