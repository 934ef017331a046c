package engine

import (
	"strings"

	"resumerefiner/internal/taxonomy"
)

// Extractor maps normalized token streams to categorized skill sets using
// the injected taxonomy. Matching is longest-match-first so "machine
// learning" is preferred over matching "machine" and "learning" separately.
// Unknown vocabulary is dropped silently; extraction never fails.
type Extractor struct {
	tax *taxonomy.Taxonomy
}

// NewExtractor creates an extractor bound to an immutable taxonomy
func NewExtractor(tax *taxonomy.Taxonomy) *Extractor {
	return &Extractor{tax: tax}
}

// Extract returns the skill set found in the token stream. Running it twice
// on the same tokens yields the same result.
func (e *Extractor) Extract(tokens []string) SkillSet {
	set, _ := e.ExtractCounts(tokens)
	return set
}

// ExtractCounts returns the skill set plus per-skill mention counts. The
// counts feed the criticality frequency ranking and density metrics; the
// set itself stores presence only.
func (e *Extractor) ExtractCounts(tokens []string) (SkillSet, map[string]int) {
	set := NewSkillSet()
	counts := make(map[string]int)

	maxWords := e.tax.MaxPhraseWords()
	for i := 0; i < len(tokens); {
		matched := 0
		window := maxWords
		if rest := len(tokens) - i; window > rest {
			window = rest
		}

		// Longest match first: shrink the window until a taxonomy phrase
		// matches at this position.
		for n := window; n >= 1; n-- {
			phrase := strings.Join(tokens[i:i+n], " ")
			if category, canonical, ok := e.tax.Lookup(phrase); ok {
				set.Add(category, canonical)
				counts[canonical]++
				matched = n
				break
			}
		}

		if matched > 0 {
			i += matched
		} else {
			i++
		}
	}

	return set, counts
}
