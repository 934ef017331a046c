package engine

import (
	"math"

	"resumerefiner/internal/config"
	"resumerefiner/internal/errors"
	"resumerefiner/internal/types"
)

// Aggregator combines the similarity signals and structural signals into
// the two headline scores using the validated weight sets from
// configuration. Aggregation never fails: missing or NaN structural signals
// are treated as 0 before weighting and logged as a degraded-input
// condition.
type Aggregator struct {
	match  config.MatchWeights
	ats    config.ATSWeights
	logger *errors.Logger
}

// NewAggregator creates an aggregator with load-time validated weights
func NewAggregator(match config.MatchWeights, ats config.ATSWeights, logger *errors.Logger) *Aggregator {
	return &Aggregator{match: match, ats: ats, logger: logger}
}

// Aggregate returns the ATS score, the job-match score, a per-term
// breakdown of weighted contributions on the 0-100 scale, and whether any
// structural input was degraded.
//
// The skill-match term blends skill cosine and count ratio as their plain
// average so the match weighting still sums to 1.0 exactly.
func (a *Aggregator) Aggregate(sim types.SimilarityVector, structural types.StructuralSignals) (ats, match float64, breakdown map[string]float64, degraded bool) {
	skillMatch := (clamp01(sim.SkillCosine) + clamp01(sim.CountRatio)) / 2

	breakdown = map[string]float64{
		"match.jaccard":     100 * a.match.Jaccard * clamp01(sim.Jaccard),
		"match.text_cosine": 100 * a.match.TextCosine * clamp01(sim.TextCosine),
		"match.skill_match": 100 * a.match.SkillMatch * skillMatch,
	}
	match = breakdown["match.jaccard"] + breakdown["match.text_cosine"] + breakdown["match.skill_match"]

	section, d1 := a.sanitize("section", structural.Section)
	keyword, d2 := a.sanitize("keyword", structural.Keyword)
	format, d3 := a.sanitize("format", structural.Format)
	context, d4 := a.sanitize("context", structural.Context)
	degraded = d1 || d2 || d3 || d4

	breakdown["ats.section"] = 100 * a.ats.Section * section
	breakdown["ats.keyword"] = 100 * a.ats.Keyword * keyword
	breakdown["ats.format"] = 100 * a.ats.Format * format
	breakdown["ats.context"] = 100 * a.ats.Context * context
	ats = breakdown["ats.section"] + breakdown["ats.keyword"] + breakdown["ats.format"] + breakdown["ats.context"]

	return clamp100(ats), clamp100(match), breakdown, degraded
}

// sanitize replaces NaN or out-of-range structural signals with safe values
// and reports whether the input was degraded
func (a *Aggregator) sanitize(name string, v float64) (float64, bool) {
	if math.IsNaN(v) {
		if a.logger != nil {
			a.logger.Warn("Structural signal is NaN, treating as 0", "signal", name)
		}
		return 0, true
	}
	if v < 0 || v > 1 {
		if a.logger != nil {
			a.logger.Warn("Structural signal out of range, clamping", "signal", name, "value", v)
		}
		return clamp01(v), true
	}
	return v, false
}

func clamp100(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f < 0:
		return 0
	case f > 100:
		return 100
	default:
		return f
	}
}
