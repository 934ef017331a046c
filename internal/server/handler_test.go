package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resumerefiner/internal/config"
	"resumerefiner/internal/engine"
	refinerErrors "resumerefiner/internal/errors"
	"resumerefiner/internal/observability"
	"resumerefiner/internal/taxonomy"
	"resumerefiner/internal/types"
)

func testServer(t *testing.T, mutate func(*ServerConfig)) *Server {
	t.Helper()

	appCfg := &config.Config{
		Engine: config.EngineConfig{
			MatchWeights: config.MatchWeights{Jaccard: 0.4, TextCosine: 0.35, SkillMatch: 0.25},
			ATSWeights:   config.ATSWeights{Section: 0.25, Keyword: 0.35, Format: 0.20, Context: 0.20},
		},
		Observability: config.ObservabilityConfig{Enabled: false},
	}

	logger := refinerErrors.NewLogger(slog.LevelError)
	eng := engine.New(appCfg.Engine, taxonomy.Default(nil), nil, logger)

	cfg := ServerConfig{
		Host:           "localhost",
		Port:           "0",
		Version:        "test",
		MaxRequestSize: 1024 * 1024,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	return NewServer(appCfg, cfg, eng, logger)
}

func testObservability(t *testing.T) *observability.Manager {
	t.Helper()
	om, err := observability.NewManager(config.ObservabilityConfig{Enabled: false})
	if err != nil {
		t.Fatalf("Failed to create observability manager: %v", err)
	}
	return om
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAnalyzeHandler(t *testing.T) {
	s := testServer(t, nil)
	handler := s.createAnalyzeHandler(testObservability(t))

	t.Run("valid request", func(t *testing.T) {
		rec := postJSON(t, handler, AnalyzeRequest{
			ResumeText:     "Python developer with Docker experience",
			JobDescription: "Looking for Python and Kubernetes skills",
		})

		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, want 200. Body: %s", rec.Code, rec.Body.String())
		}

		var report types.ScoreReport
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if report.AnalysisMethod != "rule_based" {
			t.Errorf("AnalysisMethod = %s, want rule_based", report.AnalysisMethod)
		}
		if report.MatchScore <= 0 {
			t.Errorf("MatchScore = %v, want positive for overlapping documents", report.MatchScore)
		}
	})

	t.Run("missing resume text", func(t *testing.T) {
		rec := postJSON(t, handler, AnalyzeRequest{JobDescription: "Python role"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing job description", func(t *testing.T) {
		rec := postJSON(t, handler, AnalyzeRequest{ResumeText: "Python developer"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want 400", rec.Code)
		}
	})

	t.Run("oversized document rejected", func(t *testing.T) {
		s := testServer(t, func(cfg *ServerConfig) { cfg.MaxRequestSize = 100 })
		handler := s.createAnalyzeHandler(testObservability(t))

		rec := postJSON(t, handler, AnalyzeRequest{
			ResumeText:     strings.Repeat("x", 80),
			JobDescription: "short",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want 400", rec.Code)
		}
	})
}

func TestExtractHandler(t *testing.T) {
	s := testServer(t, nil)
	handler := s.createExtractHandler(testObservability(t))

	t.Run("valid request", func(t *testing.T) {
		rec := postJSON(t, handler, ExtractRequest{Text: "Python, Docker and machine learning"})
		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, want 200. Body: %s", rec.Code, rec.Body.String())
		}

		var out types.ExtractOutput
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if out.TotalSkills != 3 {
			t.Errorf("TotalSkills = %d, want 3", out.TotalSkills)
		}
	})

	t.Run("missing text", func(t *testing.T) {
		rec := postJSON(t, handler, ExtractRequest{Text: "   "})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want 400", rec.Code)
		}
	})
}

func TestGapsHandler(t *testing.T) {
	s := testServer(t, nil)
	handler := s.createGapsHandler(testObservability(t))

	t.Run("valid request", func(t *testing.T) {
		rec := postJSON(t, handler, GapsRequest{
			ResumeText:     "Python developer",
			JobDescription: "Need Python, Docker and Kubernetes",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, want 200. Body: %s", rec.Code, rec.Body.String())
		}

		var gap types.GapReport
		if err := json.Unmarshal(rec.Body.Bytes(), &gap); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(gap.MissingSkills) == 0 {
			t.Error("Expected missing skills in the gap report")
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := postJSON(t, handler, GapsRequest{})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want 400", rec.Code)
		}
	})
}

func TestAuthMiddleware(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	tests := []struct {
		name       string
		apiKeys    []string
		header     map[string]string
		wantStatus int
	}{
		{
			name:       "no keys configured skips auth",
			apiKeys:    nil,
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid X-API-Key",
			apiKeys:    []string{"secret-key-123"},
			header:     map[string]string{"X-API-Key": "secret-key-123"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid bearer token",
			apiKeys:    []string{"secret-key-123"},
			header:     map[string]string{"Authorization": "Bearer secret-key-123"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing key",
			apiKeys:    []string{"secret-key-123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong key",
			apiKeys:    []string{"secret-key-123"},
			header:     map[string]string{"X-API-Key": "wrong"},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testServer(t, func(cfg *ServerConfig) { cfg.APIKeys = tt.apiKeys })
			handler := s.authMiddleware(ok)

			req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{"short key fully masked", "abc", "****"},
		{"eight chars fully masked", "12345678", "****"},
		{"long key shows prefix", "1234567890abcdef", "12345678****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maskAPIKey(tt.key); got != tt.expected {
				t.Errorf("maskAPIKey(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	s := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", body["status"])
	}
	if _, ok := body["predictor"]; !ok {
		t.Error("Health response should include predictor stats")
	}
}
