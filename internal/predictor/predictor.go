package predictor

import (
	"context"
	"fmt"

	"resumerefiner/internal/config"
	"resumerefiner/internal/errors"
)

// Features is the numeric input vector handed to a compatibility predictor.
// All similarity and structural fields are in [0,1].
type Features struct {
	Jaccard     float64 `json:"jaccard"`
	TextCosine  float64 `json:"textCosine"`
	SkillCosine float64 `json:"skillCosine"`
	CountRatio  float64 `json:"countRatio"`
	CountDiff   int     `json:"countDiff"`

	Section float64 `json:"section"`
	Keyword float64 `json:"keyword"`
	Format  float64 `json:"format"`
	Context float64 `json:"context"`

	ResumeSkillCount int `json:"resumeSkillCount"`
	JobSkillCount    int `json:"jobSkillCount"`
}

// Predictor estimates a compatibility probability in [0,1] from the computed
// features. Implementations must be safe for concurrent use.
type Predictor interface {
	// Predict returns the compatibility probability for the feature vector.
	Predict(ctx context.Context, features Features) (float64, error)

	// Name identifies the provider for logging and stats.
	Name() string

	// Close releases provider resources.
	Close() error
}

// New creates the configured predictor, wrapped in a circuit breaker when
// enabled. A "none" provider returns (nil, nil); callers treat a nil
// predictor as rule-based scoring only.
func New(cfg config.PredictorConfig, logger *errors.Logger) (Predictor, error) {
	var (
		p   Predictor
		err error
	)

	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "linear":
		p, err = NewLinearPredictor(cfg.ArtifactPath)
	case "gemini":
		p, err = NewGeminiPredictor(cfg, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unsupported predictor provider: %s", cfg.Provider), nil)
	}
	if err != nil {
		return nil, err
	}

	if cfg.CircuitBreaker.Enabled {
		p = WithBreaker(p, cfg.CircuitBreaker, logger)
	}

	return p, nil
}
