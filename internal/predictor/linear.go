package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"resumerefiner/internal/errors"
)

// linearArtifact is the serialized logistic-regression model format. Unknown
// coefficient names are rejected so a stale artifact fails at startup rather
// than silently scoring with missing terms.
type linearArtifact struct {
	Bias         float64            `json:"bias"`
	Coefficients map[string]float64 `json:"coefficients"`
}

var knownFeatures = map[string]struct{}{
	"jaccard":          {},
	"textCosine":       {},
	"skillCosine":      {},
	"countRatio":       {},
	"countDiff":        {},
	"section":          {},
	"keyword":          {},
	"format":           {},
	"context":          {},
	"resumeSkillCount": {},
	"jobSkillCount":    {},
}

// LinearPredictor scores features with a logistic regression loaded from a
// JSON artifact at startup
type LinearPredictor struct {
	artifact linearArtifact
	path     string
}

var _ Predictor = (*LinearPredictor)(nil)

// NewLinearPredictor loads and validates the model artifact. A missing or
// malformed artifact is a startup error, not a per-request one.
func NewLinearPredictor(path string) (*LinearPredictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewPredictorError(errors.ErrCodePredictorArtifact,
			"Failed to read predictor artifact", err).WithContext("path", path)
	}

	var artifact linearArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, errors.NewPredictorError(errors.ErrCodePredictorArtifact,
			"Failed to parse predictor artifact", err).WithContext("path", path)
	}

	if len(artifact.Coefficients) == 0 {
		return nil, errors.NewPredictorError(errors.ErrCodePredictorArtifact,
			"Predictor artifact has no coefficients", nil).WithContext("path", path)
	}
	for name := range artifact.Coefficients {
		if _, ok := knownFeatures[name]; !ok {
			return nil, errors.NewPredictorError(errors.ErrCodePredictorArtifact,
				fmt.Sprintf("Predictor artifact references unknown feature %q", name), nil).
				WithContext("path", path)
		}
	}

	return &LinearPredictor{artifact: artifact, path: path}, nil
}

// Predict applies the regression and squashes through a sigmoid
func (p *LinearPredictor) Predict(_ context.Context, f Features) (float64, error) {
	values := map[string]float64{
		"jaccard":          f.Jaccard,
		"textCosine":       f.TextCosine,
		"skillCosine":      f.SkillCosine,
		"countRatio":       f.CountRatio,
		"countDiff":        float64(f.CountDiff),
		"section":          f.Section,
		"keyword":          f.Keyword,
		"format":           f.Format,
		"context":          f.Context,
		"resumeSkillCount": float64(f.ResumeSkillCount),
		"jobSkillCount":    float64(f.JobSkillCount),
	}

	z := p.artifact.Bias
	for name, coef := range p.artifact.Coefficients {
		z += coef * values[name]
	}

	return 1 / (1 + math.Exp(-z)), nil
}

func (p *LinearPredictor) Name() string {
	return "linear"
}

func (p *LinearPredictor) Close() error {
	return nil
}
