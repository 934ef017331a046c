package engine

import (
	"strings"
	"testing"

	"resumerefiner/internal/types"
)

func TestBuildRecommendationsATSTiers(t *testing.T) {
	tests := []struct {
		name          string
		atsScore      float64
		wantStrength  string
		wantWeakness  string
		minActionItem int
	}{
		{
			name:         "high score",
			atsScore:     85,
			wantStrength: "Strong ATS compatibility",
		},
		{
			name:          "mid score",
			atsScore:      65,
			wantStrength:  "Good basic ATS formatting",
			minActionItem: 2,
		},
		{
			name:          "low score",
			atsScore:      40,
			wantWeakness:  "Needs ATS optimization",
			minActionItem: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := buildRecommendations(tt.atsScore, nil, nil)

			if tt.wantStrength != "" && !containsString(rec.Strengths, tt.wantStrength) {
				t.Errorf("Strengths = %v, want to contain %q", rec.Strengths, tt.wantStrength)
			}
			if tt.wantWeakness != "" && !containsString(rec.Weaknesses, tt.wantWeakness) {
				t.Errorf("Weaknesses = %v, want to contain %q", rec.Weaknesses, tt.wantWeakness)
			}
			if len(rec.ActionItems) < tt.minActionItem {
				t.Errorf("ActionItems = %v, want at least %d items", rec.ActionItems, tt.minActionItem)
			}
		})
	}
}

func TestBuildRecommendationsSkillCounts(t *testing.T) {
	matched := []types.CategorySkills{
		{Category: "programming_languages", Skills: []string{"python", "sql"}},
		{Category: "cloud_devops", Skills: []string{"docker"}},
	}
	gaps := []types.CategoryGap{
		{Category: "cloud_devops", Missing: []types.MissingSkill{
			{Skill: "kubernetes", Criticality: types.CriticalityCritical},
		}},
	}

	rec := buildRecommendations(90, matched, gaps)

	if !containsString(rec.Strengths, "Strong match in 3 key skills") {
		t.Errorf("Strengths = %v, want matched-skill count", rec.Strengths)
	}
	if !containsString(rec.Weaknesses, "Missing 1 relevant skills") {
		t.Errorf("Weaknesses = %v, want missing-skill count", rec.Weaknesses)
	}
}

func TestSkillSuggestionsPrioritizesCritical(t *testing.T) {
	gaps := []types.CategoryGap{
		{Category: "programming_languages", Missing: []types.MissingSkill{
			{Skill: "java", Criticality: types.CriticalityRecommended},
		}},
		{Category: "cloud_devops", Missing: []types.MissingSkill{
			{Skill: "kubernetes", Criticality: types.CriticalityCritical},
			{Skill: "terraform", Criticality: types.CriticalityRecommended},
		}},
	}

	suggestions := skillSuggestions(gaps, 5)

	if len(suggestions) != 3 {
		t.Fatalf("Expected 3 suggestions, got %v", suggestions)
	}
	// Critical first, even though its category comes later in the report.
	if !strings.Contains(suggestions[0], "kubernetes") {
		t.Errorf("First suggestion should cover the critical skill, got %q", suggestions[0])
	}
	if !strings.Contains(suggestions[0], "cloud devops") {
		t.Errorf("Category name should be humanized, got %q", suggestions[0])
	}
}

func TestSkillSuggestionsRespectsMax(t *testing.T) {
	gaps := []types.CategoryGap{
		{Category: "programming_languages", Missing: []types.MissingSkill{
			{Skill: "java", Criticality: types.CriticalityCritical},
			{Skill: "go", Criticality: types.CriticalityCritical},
			{Skill: "rust", Criticality: types.CriticalityRecommended},
			{Skill: "scala", Criticality: types.CriticalityRecommended},
		}},
	}

	if got := skillSuggestions(gaps, 2); len(got) != 2 {
		t.Errorf("Expected max 2 suggestions, got %v", got)
	}
	if got := skillSuggestions(nil, 5); len(got) != 0 {
		t.Errorf("Expected no suggestions for empty gaps, got %v", got)
	}
}

func TestAppendUnique(t *testing.T) {
	tests := []struct {
		name      string
		items     []string
		additions []string
		expected  int
	}{
		{
			name:      "distinct items appended",
			items:     []string{"Add relevant keywords"},
			additions: []string{"Use consistent date formats"},
			expected:  2,
		},
		{
			name:      "exact duplicate dropped",
			items:     []string{"Use consistent date formats"},
			additions: []string{"Use consistent date formats"},
			expected:  1,
		},
		{
			name:      "case-insensitive substring dropped",
			items:     []string{"Add relevant keywords from the job description"},
			additions: []string{"add relevant keywords"},
			expected:  1,
		},
		{
			name:      "superset of existing dropped",
			items:     []string{"Add keywords"},
			additions: []string{"Add keywords from the job description"},
			expected:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := appendUnique(tt.items, tt.additions...)
			if len(got) != tt.expected {
				t.Errorf("appendUnique() = %v, want %d items", got, tt.expected)
			}
		})
	}
}

func containsString(items []string, want string) bool {
	for _, s := range items {
		if s == want {
			return true
		}
	}
	return false
}
