package engine

import (
	"math"

	"resumerefiner/internal/taxonomy"
	"resumerefiner/internal/types"
)

// Comparer computes the independent similarity signals between two
// documents' skill sets and token streams.
//
// The TF-IDF corpus is exactly the two documents being compared (per-pair
// vectorization). A given pair therefore always produces the same
// textCosine regardless of what other documents the process has seen;
// scores are not comparable against a shared corpus vocabulary.
type Comparer struct {
	tax *taxonomy.Taxonomy
}

// NewComparer creates a comparer bound to an immutable taxonomy
func NewComparer(tax *taxonomy.Taxonomy) *Comparer {
	return &Comparer{tax: tax}
}

// Compare computes the similarity vector for a (resume, job) pair. All
// float signals are clamped to [0,1] at this boundary rather than assumed.
func (c *Comparer) Compare(resume, job SkillSet, resumeTokens, jobTokens []string) types.SimilarityVector {
	resumeCount := resume.Total()
	jobCount := job.Total()

	diff := resumeCount - jobCount
	if diff < 0 {
		diff = -diff
	}

	return types.SimilarityVector{
		Jaccard:     clamp01(jaccard(resume, job)),
		TextCosine:  clamp01(tfidfCosine(resumeTokens, jobTokens)),
		SkillCosine: clamp01(c.skillCosine(resume, job)),
		CountRatio:  clamp01(countRatio(resumeCount, jobCount)),
		CountDiff:   diff,
	}
}

// jaccard is |intersection| / |union| over all skills across categories,
// defined as 0 when the union is empty.
func jaccard(a, b SkillSet) float64 {
	union := make(map[string]struct{})
	intersection := 0

	for category, skills := range a {
		for skill := range skills {
			union[skill] = struct{}{}
			if b.Has(category, skill) {
				intersection++
			}
		}
	}
	for _, skills := range b {
		for skill := range skills {
			union[skill] = struct{}{}
		}
	}

	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}

// tfidfCosine builds TF-IDF vectors over the combined vocabulary of exactly
// the two token streams and returns their cosine similarity, 0 when either
// vector is all-zero.
func tfidfCosine(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	countsA := termCounts(a)
	countsB := termCounts(b)

	vocab := make(map[string]struct{}, len(countsA)+len(countsB))
	for term := range countsA {
		vocab[term] = struct{}{}
	}
	for term := range countsB {
		vocab[term] = struct{}{}
	}

	var dot, normA, normB float64
	for term := range vocab {
		df := 0
		if countsA[term] > 0 {
			df++
		}
		if countsB[term] > 0 {
			df++
		}
		// Smoothed IDF over the two-document corpus.
		idf := math.Log(3.0/float64(df+1)) + 1

		wa := float64(countsA[term]) / float64(len(a)) * idf
		wb := float64(countsB[term]) / float64(len(b)) * idf

		dot += wa * wb
		normA += wa * wa
		normB += wb * wb
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// skillCosine is the cosine similarity of the two binary presence vectors
// over the taxonomy's full ordered skill list. For binary vectors this is
// |intersection| / sqrt(|a|*|b|).
func (c *Comparer) skillCosine(a, b SkillSet) float64 {
	var dot, na, nb float64
	for _, category := range c.tax.Categories() {
		for _, skill := range c.tax.Skills(category) {
			inA := a.Has(category, skill)
			inB := b.Has(category, skill)
			if inA {
				na++
			}
			if inB {
				nb++
			}
			if inA && inB {
				dot++
			}
		}
	}

	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// countRatio is min/max of the two skill counts, 1.0 when both are empty
func countRatio(a, b int) float64 {
	if a == 0 && b == 0 {
		return 1.0
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi == 0 {
		return 0
	}
	return float64(lo) / float64(hi)
}

func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

func clamp01(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
