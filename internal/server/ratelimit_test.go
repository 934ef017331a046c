package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"resumerefiner/internal/config"
	refinerErrors "resumerefiner/internal/errors"
)

func TestRateLimiterAllow(t *testing.T) {
	logger := refinerErrors.NewLogger(slog.LevelError)
	rl := NewRateLimiter(60, 2, logger)
	defer rl.Close()

	// Burst capacity of 2 allows two immediate requests.
	if !rl.Allow("ip:1.2.3.4") {
		t.Error("First request should be allowed")
	}
	if !rl.Allow("ip:1.2.3.4") {
		t.Error("Second request within burst should be allowed")
	}
	if rl.Allow("ip:1.2.3.4") {
		t.Error("Third immediate request should exceed the burst")
	}

	// Separate keys get their own buckets.
	if !rl.Allow("ip:5.6.7.8") {
		t.Error("Different key should have an independent limiter")
	}
}

func TestRateLimiterStats(t *testing.T) {
	logger := refinerErrors.NewLogger(slog.LevelError)
	rl := NewRateLimiter(120, 5, logger)
	defer rl.Close()

	rl.Allow("a")
	rl.Allow("b")

	stats := rl.GetStats()
	if stats["active_limiters"] != 2 {
		t.Errorf("active_limiters = %v, want 2", stats["active_limiters"])
	}
	if stats["rate_per_minute"] != 120.0 {
		t.Errorf("rate_per_minute = %v, want 120", stats["rate_per_minute"])
	}
	if stats["burst_capacity"] != 5 {
		t.Errorf("burst_capacity = %v, want 5", stats["burst_capacity"])
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	s := testServer(t, func(cfg *ServerConfig) {
		cfg.RateLimit = &config.RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 60,
			BurstCapacity:  1,
		}
	})
	defer s.RateLimiter.Close()

	handler := s.rateLimitMiddleware()(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.RemoteAddr = "10.0.0.1:4321"

	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("First request status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("Second request status = %d, want 429", rec.Code)
	}
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	s := testServer(t, nil)

	handler := s.rateLimitMiddleware()(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// No limiter configured means every request passes.
	for range 20 {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodPost, "/analyze", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, want 200 with rate limiting disabled", rec.Code)
		}
	}
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*http.Request)
		expected string
	}{
		{
			name: "api key header",
			setup: func(r *http.Request) {
				r.Header.Set("X-API-Key", "key-1")
			},
			expected: "api:key-1",
		},
		{
			name: "bearer token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer key-2")
			},
			expected: "api:key-2",
		},
		{
			name: "falls back to remote addr",
			setup: func(r *http.Request) {
				r.RemoteAddr = "192.168.1.9:5000"
			},
			expected: "ip:192.168.1.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
			tt.setup(req)
			if got := getRateLimitKey(req); got != tt.expected {
				t.Errorf("getRateLimitKey() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*http.Request)
		expected string
	}{
		{
			name: "x-forwarded-for first valid ip",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
			},
			expected: "203.0.113.7",
		},
		{
			name: "x-forwarded-for skips garbage",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "not-an-ip, 203.0.113.7")
			},
			expected: "203.0.113.7",
		},
		{
			name: "x-real-ip",
			setup: func(r *http.Request) {
				r.Header.Set("X-Real-IP", "198.51.100.2")
			},
			expected: "198.51.100.2",
		},
		{
			name: "remote addr fallback",
			setup: func(r *http.Request) {
				r.RemoteAddr = "192.0.2.1:9999"
			},
			expected: "192.0.2.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			tt.setup(req)
			if got := getClientIP(req); got != tt.expected {
				t.Errorf("getClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}
