package engine

import (
	"regexp"
	"strings"

	"resumerefiner/internal/types"
)

// Structural signal heuristics. These are the straightforward pattern
// checks whose results feed the ATS aggregation; callers with their own
// signal pipeline can bypass them via AnalyzeWithSignals.

var (
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	bulletPattern = regexp.MustCompile(`(?m)^\s*[-*•]`)
	numberPattern = regexp.MustCompile(`\d`)
)

var sectionHeaders = [][]string{
	{"experience", "employment", "work history"},
	{"education", "academic"},
	{"skills", "technologies", "competencies"},
	{"summary", "objective", "profile"},
}

// ComputeStructuralSignals derives the four [0,1] ATS inputs from the raw
// resume text and the job's extracted skill mentions.
func ComputeStructuralSignals(resumeText string, resumeTokens []string, jobCounts map[string]int) types.StructuralSignals {
	return types.StructuralSignals{
		Section: sectionScore(resumeText),
		Keyword: keywordScore(resumeTokens, jobCounts),
		Format:  formatScore(resumeText),
		Context: contextScore(resumeTokens, jobCounts),
	}
}

// sectionScore is the fraction of expected resume sections present,
// counting contact information as its own section.
func sectionScore(resumeText string) float64 {
	lower := strings.ToLower(resumeText)

	found := 0
	for _, aliases := range sectionHeaders {
		for _, alias := range aliases {
			if strings.Contains(lower, alias) {
				found++
				break
			}
		}
	}
	if emailPattern.MatchString(resumeText) {
		found++
	}

	return float64(found) / float64(len(sectionHeaders)+1)
}

// keywordScore is the fraction of the job's extracted skills that also
// appear somewhere in the resume token stream.
func keywordScore(resumeTokens []string, jobCounts map[string]int) float64 {
	if len(jobCounts) == 0 {
		return 0
	}

	resumeText := " " + strings.Join(resumeTokens, " ") + " "
	found := 0
	for skill := range jobCounts {
		if strings.Contains(resumeText, " "+skill+" ") {
			found++
		}
	}
	return float64(found) / float64(len(jobCounts))
}

// formatScore checks machine-readability heuristics: bullet usage,
// quantified achievements, sane line lengths and enough content.
func formatScore(resumeText string) float64 {
	if strings.TrimSpace(resumeText) == "" {
		return 0
	}

	score := 0.0
	if bulletPattern.MatchString(resumeText) {
		score += 0.25
	}
	if numberPattern.MatchString(resumeText) {
		score += 0.25
	}

	lines := strings.Split(resumeText, "\n")
	if len(lines) >= 10 {
		score += 0.25
	}

	long := 0
	for _, line := range lines {
		if len(line) > 160 {
			long++
		}
	}
	if long*5 <= len(lines) { // at most 20% overlong lines
		score += 0.25
	}

	return score
}

// contextScore rewards job skills mentioned repeatedly in the resume, a
// proxy for skills backed by actual experience rather than a bare list.
func contextScore(resumeTokens []string, jobCounts map[string]int) float64 {
	if len(jobCounts) == 0 || len(resumeTokens) == 0 {
		return 0
	}

	resumeText := " " + strings.Join(resumeTokens, " ") + " "
	matched, repeated := 0, 0
	for skill := range jobCounts {
		occurrences := strings.Count(resumeText, " "+skill+" ")
		if occurrences > 0 {
			matched++
		}
		if occurrences > 1 {
			repeated++
		}
	}

	if matched == 0 {
		return 0
	}
	// Half for being mentioned at all, half for being mentioned in context
	// more than once.
	return 0.5*float64(matched)/float64(len(jobCounts)) + 0.5*float64(repeated)/float64(matched)
}
