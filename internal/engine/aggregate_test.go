package engine

import (
	"math"
	"testing"

	"resumerefiner/internal/config"
	"resumerefiner/internal/types"
)

func defaultMatchWeights() config.MatchWeights {
	return config.MatchWeights{Jaccard: 0.4, TextCosine: 0.35, SkillMatch: 0.25}
}

func defaultATSWeights() config.ATSWeights {
	return config.ATSWeights{Section: 0.25, Keyword: 0.35, Format: 0.20, Context: 0.20}
}

func TestAggregateScoreBounds(t *testing.T) {
	a := NewAggregator(defaultMatchWeights(), defaultATSWeights(), nil)

	tests := []struct {
		name       string
		sim        types.SimilarityVector
		structural types.StructuralSignals
		wantATS    float64
		wantMatch  float64
	}{
		{
			name:       "all zeros",
			sim:        types.SimilarityVector{},
			structural: types.StructuralSignals{},
			wantATS:    0,
			wantMatch:  0,
		},
		{
			name: "all ones",
			sim: types.SimilarityVector{
				Jaccard: 1, TextCosine: 1, SkillCosine: 1, CountRatio: 1,
			},
			structural: types.StructuralSignals{Section: 1, Keyword: 1, Format: 1, Context: 1},
			wantATS:    100,
			wantMatch:  100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ats, match, _, degraded := a.Aggregate(tt.sim, tt.structural)
			if math.Abs(ats-tt.wantATS) > 1e-9 {
				t.Errorf("ATS = %v, want %v", ats, tt.wantATS)
			}
			if math.Abs(match-tt.wantMatch) > 1e-9 {
				t.Errorf("Match = %v, want %v", match, tt.wantMatch)
			}
			if degraded {
				t.Error("Valid inputs should not be marked degraded")
			}
		})
	}
}

func TestAggregateBreakdownSumsToScores(t *testing.T) {
	a := NewAggregator(defaultMatchWeights(), defaultATSWeights(), nil)

	sim := types.SimilarityVector{
		Jaccard: 0.5, TextCosine: 0.3, SkillCosine: 0.6, CountRatio: 0.8,
	}
	structural := types.StructuralSignals{Section: 0.8, Keyword: 0.4, Format: 0.75, Context: 0.2}

	ats, match, breakdown, _ := a.Aggregate(sim, structural)

	matchSum := breakdown["match.jaccard"] + breakdown["match.text_cosine"] + breakdown["match.skill_match"]
	if math.Abs(matchSum-match) > 1e-9 {
		t.Errorf("Match breakdown sums to %v, score is %v", matchSum, match)
	}

	atsSum := breakdown["ats.section"] + breakdown["ats.keyword"] + breakdown["ats.format"] + breakdown["ats.context"]
	if math.Abs(atsSum-ats) > 1e-9 {
		t.Errorf("ATS breakdown sums to %v, score is %v", atsSum, ats)
	}

	// Spot-check the skill-match blend: (0.6 + 0.8) / 2 weighted at 0.25.
	wantSkillMatch := 100 * 0.25 * (0.6 + 0.8) / 2
	if math.Abs(breakdown["match.skill_match"]-wantSkillMatch) > 1e-9 {
		t.Errorf("match.skill_match = %v, want %v", breakdown["match.skill_match"], wantSkillMatch)
	}
}

func TestAggregateNaNStructuralSignalDegrades(t *testing.T) {
	a := NewAggregator(defaultMatchWeights(), defaultATSWeights(), nil)

	structural := types.StructuralSignals{
		Section: math.NaN(),
		Keyword: 0.5,
		Format:  0.5,
		Context: 0.5,
	}

	ats, _, breakdown, degraded := a.Aggregate(types.SimilarityVector{}, structural)

	if !degraded {
		t.Error("NaN structural signal should mark the result degraded")
	}
	if breakdown["ats.section"] != 0 {
		t.Errorf("NaN signal should contribute 0, got %v", breakdown["ats.section"])
	}
	if math.IsNaN(ats) {
		t.Error("ATS score should never be NaN")
	}
}

func TestAggregateOutOfRangeStructuralSignalClamped(t *testing.T) {
	a := NewAggregator(defaultMatchWeights(), defaultATSWeights(), nil)

	structural := types.StructuralSignals{Section: 1.7, Keyword: -0.3, Format: 1, Context: 1}

	ats, _, breakdown, degraded := a.Aggregate(types.SimilarityVector{}, structural)

	if !degraded {
		t.Error("Out-of-range structural signals should mark the result degraded")
	}
	if math.Abs(breakdown["ats.section"]-100*0.25) > 1e-9 {
		t.Errorf("Overrange section should clamp to 1.0, got contribution %v", breakdown["ats.section"])
	}
	if breakdown["ats.keyword"] != 0 {
		t.Errorf("Negative keyword should clamp to 0, got contribution %v", breakdown["ats.keyword"])
	}
	if ats < 0 || ats > 100 {
		t.Errorf("ATS = %v, outside [0,100]", ats)
	}
}
