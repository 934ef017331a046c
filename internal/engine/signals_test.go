package engine

import (
	"math"
	"strings"
	"testing"
)

const sampleResume = `John Doe
john.doe@example.com

Summary
Backend engineer with 5 years of experience.

Experience
- Built services in Python and Go
- Deployed with Docker and Kubernetes
- Reduced latency by 40%

Education
BSc Computer Science

Skills
Python, Go, Docker, Kubernetes, SQL
`

func TestSectionScore(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{
			name:     "all sections plus contact",
			text:     sampleResume,
			expected: 1.0,
		},
		{
			name:     "no recognizable sections",
			text:     "just some words about things",
			expected: 0.0,
		},
		{
			name:     "email only",
			text:     "reach me at a@b.co",
			expected: 0.2,
		},
		{
			name:     "alias headers count",
			text:     "Employment history\nAcademic background\nCompetencies\nProfile",
			expected: 0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sectionScore(tt.text)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("sectionScore() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestKeywordScore(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		name      string
		resume    string
		jobCounts map[string]int
		expected  float64
	}{
		{
			name:      "full coverage",
			resume:    "python docker",
			jobCounts: map[string]int{"python": 1, "docker": 2},
			expected:  1.0,
		},
		{
			name:      "half coverage",
			resume:    "python only here",
			jobCounts: map[string]int{"python": 1, "docker": 1},
			expected:  0.5,
		},
		{
			name:      "no job skills",
			resume:    "python docker",
			jobCounts: map[string]int{},
			expected:  0.0,
		},
		{
			name:      "multi-word skill matched whole",
			resume:    "applied machine learning daily",
			jobCounts: map[string]int{"machine learning": 3},
			expected:  1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keywordScore(n.Tokens(tt.resume), tt.jobCounts)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("keywordScore() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{
			name:     "empty text",
			text:     "",
			expected: 0.0,
		},
		{
			name: "bullets numbers lines and sane lengths",
			text: sampleResume,
			// bullets + numbers + >=10 lines + no overlong lines
			expected: 1.0,
		},
		{
			name:     "single plain line",
			text:     "worked at a company doing stuff",
			expected: 0.25, // only the line-length check passes
		},
		{
			name:     "one very long line",
			text:     strings.Repeat("x", 300),
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatScore(tt.text)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("formatScore() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestContextScore(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		name      string
		resume    string
		jobCounts map[string]int
		expected  float64
	}{
		{
			name:      "no job skills",
			resume:    "python",
			jobCounts: map[string]int{},
			expected:  0.0,
		},
		{
			name:      "no matches",
			resume:    "java only",
			jobCounts: map[string]int{"python": 1},
			expected:  0.0,
		},
		{
			name:      "mentioned once",
			resume:    "python developer",
			jobCounts: map[string]int{"python": 1},
			expected:  0.5, // matched but never repeated
		},
		{
			name:      "mentioned repeatedly",
			resume:    "python projects in python using python",
			jobCounts: map[string]int{"python": 1},
			expected:  1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := contextScore(n.Tokens(tt.resume), tt.jobCounts)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("contextScore() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestComputeStructuralSignalsInRange(t *testing.T) {
	n := NewNormalizer(nil)
	tokens := n.Tokens(sampleResume)

	signals := ComputeStructuralSignals(sampleResume, tokens, map[string]int{"python": 2, "docker": 1})

	for name, v := range map[string]float64{
		"section": signals.Section,
		"keyword": signals.Keyword,
		"format":  signals.Format,
		"context": signals.Context,
	} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			t.Errorf("%s = %v, outside [0,1]", name, v)
		}
	}
}
