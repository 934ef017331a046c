package engine

import "strings"

// Normalizer turns raw document text into canonical token streams. Two
// strengths exist: Tokens keeps every word so multi-word skill phrases
// survive for extraction, FilteredTokens additionally drops stop-words for
// the text-similarity path. Both are idempotent over their own output.
type Normalizer struct {
	stopwords map[string]struct{}
}

// NewNormalizer creates a normalizer. extraStopwords extend the built-in
// stop-word list for the text-similarity path.
func NewNormalizer(extraStopwords []string) *Normalizer {
	stopwords := make(map[string]struct{}, len(defaultStopwords)+len(extraStopwords))
	for _, w := range defaultStopwords {
		stopwords[w] = struct{}{}
	}
	for _, w := range extraStopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			stopwords[w] = struct{}{}
		}
	}
	return &Normalizer{stopwords: stopwords}
}

// Tokens lower-cases, strips non-semantic punctuation and collapses
// whitespace. Empty or whitespace-only input yields an empty slice, not an
// error. Characters meaningful inside skill names (+, #, internal dots and
// hyphens) are preserved so "c++", "c#" and "node.js" stay intact.
func (n *Normalizer) Tokens(raw string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == '+' || r == '#' || r == '.' || r == '-':
			return r
		default:
			return ' '
		}
	}, raw)

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		// Sentence punctuation clings to word edges; skill-internal dots and
		// hyphens are never leading or trailing.
		f = strings.Trim(f, ".-")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// FilteredTokens is Tokens with stop-words removed. Used only for the
// TF-IDF text similarity; skill extraction keeps the full stream.
func (n *Normalizer) FilteredTokens(raw string) []string {
	tokens := n.Tokens(raw)
	filtered := tokens[:0:0]
	for _, t := range tokens {
		if _, stop := n.stopwords[t]; !stop {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

var defaultStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "been", "but", "by", "for",
	"from", "had", "has", "have", "in", "is", "it", "its", "of", "on", "or",
	"our", "that", "the", "their", "them", "they", "this", "to", "was",
	"we", "were", "will", "with", "you", "your",
}
