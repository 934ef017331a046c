package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"resumerefiner/internal/observability"
	"resumerefiner/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createAnalyzeHandler wraps the full analysis with observability
func (s *Server) createAnalyzeHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumerefiner.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		var req AnalyzeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		if err := s.validateDocumentSizes(req.ResumeText, req.JobDescription); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Document too large", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "analyze"),
		)

		var result types.ScoreReport
		om.TrackAnalysis(ctx, "analyze", func(ctx context.Context) bool {
			result = s.Engine.Analyze(ctx, req.ResumeText, req.JobDescription)
			return result.DegradedPrediction || result.DegradedInput
		})

		metrics := om.GetMetrics()
		metrics.RecordScores(ctx, result.ATSScore, result.MatchScore)
		if name := s.Engine.PredictorName(); name != "" {
			metrics.RecordPredictor(ctx, name, result.DegradedPrediction)
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("ats.score", result.ATSScore),
			attribute.Float64("match.score", result.MatchScore),
			attribute.String("analysis.method", result.AnalysisMethod),
			attribute.Bool("degraded.prediction", result.DegradedPrediction),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createExtractHandler wraps standalone skill extraction with observability
func (s *Server) createExtractHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumerefiner.api")
		ctx, span := tracer.Start(ctx, "api.extract")
		defer span.End()

		var req ExtractRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Text) == "" {
			err := fmt.Errorf("missing text")
			span.RecordError(err)
			writeErrorResponse(w, "Missing text", "text field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.text_length", len(req.Text)),
			attribute.String("operation", "extract"),
		)

		var result types.ExtractOutput
		om.TrackAnalysis(ctx, "extract", func(context.Context) bool {
			result = s.Engine.ExtractSkills(req.Text)
			return false
		})

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("skills.total", result.TotalSkills),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createGapsHandler wraps the skill gap diff with observability
func (s *Server) createGapsHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumerefiner.api")
		ctx, span := tracer.Start(ctx, "api.gaps")
		defer span.End()

		var req GapsRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "gaps"),
		)

		var result types.GapReport
		om.TrackAnalysis(ctx, "gaps", func(context.Context) bool {
			result = s.Engine.SkillGap(req.ResumeText, req.JobDescription)
			return false
		})

		missingCount := 0
		for _, gap := range result.MissingSkills {
			missingCount += len(gap.Missing)
		}
		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("skills.missing", missingCount),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// validateDocumentSizes rejects documents that individually exceed half the
// request size limit
func (s *Server) validateDocumentSizes(resume, job string) error {
	if s.MaxRequestSize <= 0 {
		return nil
	}
	limit := int(s.MaxRequestSize / 2)
	if len(resume) > limit {
		return fmt.Errorf("resumeText exceeds recommended size limit of %d characters", limit)
	}
	if len(job) > limit {
		return fmt.Errorf("jobDescription exceeds recommended size limit of %d characters", limit)
	}
	return nil
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.Manager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limited responses.
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				om.GetMetrics().RecordRateLimitHit(r.Context(), getRateLimitKey(r))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
