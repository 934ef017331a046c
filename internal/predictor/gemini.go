package predictor

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"time"

	"resumerefiner/internal/config"
	"resumerefiner/internal/errors"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiPredictor asks a Gemini model for a compatibility probability given
// the computed feature vector. The model only sees derived numbers, never the
// resume or job text.
type GeminiPredictor struct {
	client *genai.Client
	cfg    config.PredictorConfig
	logger *errors.Logger
}

var _ Predictor = (*GeminiPredictor)(nil)

// NewGeminiPredictor creates a Gemini-backed predictor
func NewGeminiPredictor(cfg config.PredictorConfig, logger *errors.Logger) (*GeminiPredictor, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, errors.NewPredictorError(errors.ErrCodePredictorFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiPredictor{client: client, cfg: cfg, logger: logger}, nil
}

// compatibilityResponse is the structured response requested from the model
type compatibilityResponse struct {
	Compatibility float64 `json:"compatibility"`
}

// Predict sends the feature vector and parses the structured response.
// Retries with exponential backoff on transient failures.
func (g *GeminiPredictor) Predict(ctx context.Context, features Features) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	payload, err := json.Marshal(features)
	if err != nil {
		return 0, errors.NewInternalError(errors.ErrCodePredictorFailed,
			"Failed to encode predictor features", err)
	}

	prompt := fmt.Sprintf(
		"Given these resume/job similarity features as JSON, estimate the probability "+
			"(0.0 to 1.0) that the candidate is a good fit for the role:\n%s", payload)

	genaiConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"compatibility": {Type: genai.TypeNumber},
			},
			Required: []string{"compatibility"},
		},
	}

	result, err := g.generateWithRetry(ctx, func() (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), genaiConfig)
	})
	if err != nil {
		return 0, errors.NewPredictorError(errors.ErrCodePredictorFailed,
			"Gemini prediction failed", err)
	}

	var resp compatibilityResponse
	if err := json.Unmarshal([]byte(result.Text()), &resp); err != nil {
		return 0, errors.NewPredictorError(errors.ErrCodePredictorFailed,
			"Failed to parse Gemini prediction response", err)
	}

	if math.IsNaN(resp.Compatibility) || resp.Compatibility < 0 || resp.Compatibility > 1 {
		return 0, errors.NewPredictorError(errors.ErrCodePredictorFailed,
			fmt.Sprintf("Gemini returned out-of-range compatibility: %v", resp.Compatibility), nil)
	}

	return resp.Compatibility, nil
}

// generateWithRetry retries transient failures with exponential backoff,
// capped at 10 seconds per attempt.
func (g *GeminiPredictor) generateWithRetry(ctx context.Context, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying predictor request",
				"attempt", attempt,
				"max_retries", g.cfg.MaxRetries,
				"error", lastErr.Error())

			backoff := min(time.Duration(math.Pow(2, float64(attempt-1)))*time.Second, 10*time.Second)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryable(err) {
			break
		}
	}

	return nil, lastErr
}

// isRetryable reports whether the error is transient: network trouble or a
// retryable HTTP status from the API. Auth and invalid-input errors are not.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if goerrors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if goerrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

func (g *GeminiPredictor) Name() string {
	return "gemini"
}

func (g *GeminiPredictor) Close() error {
	// The genai client holds no resources needing explicit release in
	// single-shot usage.
	return nil
}
