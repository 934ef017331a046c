package predictor

import (
	"context"

	"resumerefiner/internal/config"
	"resumerefiner/internal/errors"

	"github.com/sony/gobreaker/v2"
)

// breakerPredictor decorates a Predictor with circuit breaker protection so
// a failing external provider sheds load quickly instead of timing out every
// request.
type breakerPredictor struct {
	inner Predictor
	cb    *gobreaker.CircuitBreaker[float64]
}

var _ Predictor = (*breakerPredictor)(nil)

// WithBreaker wraps p in a circuit breaker built from cfg
func WithBreaker(p Predictor, cfg config.CircuitBreakerConfig, logger *errors.Logger) Predictor {
	settings := gobreaker.Settings{
		Name:        "Predictor-" + p.Name(),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Info("Circuit breaker state changed",
					"name", name,
					"from", from.String(),
					"to", to.String(),
					"failure_threshold", cfg.FailureThreshold)
			}
		},
	}

	return &breakerPredictor{
		inner: p,
		cb:    gobreaker.NewCircuitBreaker[float64](settings),
	}
}

func (b *breakerPredictor) Predict(ctx context.Context, features Features) (float64, error) {
	return b.cb.Execute(func() (float64, error) {
		return b.inner.Predict(ctx, features)
	})
}

func (b *breakerPredictor) Name() string {
	return b.inner.Name()
}

func (b *breakerPredictor) Close() error {
	return b.inner.Close()
}

// Stats reports the breaker state for the stats endpoint
func (b *breakerPredictor) Stats() map[string]any {
	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}

// StatsReporter is implemented by predictors that expose runtime statistics
type StatsReporter interface {
	Stats() map[string]any
}

// StatsFor returns predictor statistics, tolerating nil and plain predictors
func StatsFor(p Predictor) map[string]any {
	if p == nil {
		return map[string]any{"enabled": false}
	}
	if r, ok := p.(StatsReporter); ok {
		return r.Stats()
	}
	return map[string]any{"name": p.Name(), "enabled": true}
}
