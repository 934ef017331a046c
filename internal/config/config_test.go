package config

import (
	"math"
	"strings"
	"testing"
	"time"
)

func validEngineConfig() EngineConfig {
	return EngineConfig{
		MatchWeights: MatchWeights{Jaccard: 0.4, TextCosine: 0.35, SkillMatch: 0.25},
		ATSWeights:   ATSWeights{Section: 0.25, Keyword: 0.35, Format: 0.20, Context: 0.20},
	}
}

func TestEngineConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*EngineConfig)
		expectError string
	}{
		{
			name:   "default weights valid",
			mutate: func(c *EngineConfig) {},
		},
		{
			name: "match weights not summing to one",
			mutate: func(c *EngineConfig) {
				c.MatchWeights.Jaccard = 0.5
			},
			expectError: "matchWeights must sum to 1.0",
		},
		{
			name: "ats weights not summing to one",
			mutate: func(c *EngineConfig) {
				c.ATSWeights.Context = 0.5
			},
			expectError: "atsWeights must sum to 1.0",
		},
		{
			name: "negative weight rejected",
			mutate: func(c *EngineConfig) {
				c.MatchWeights.Jaccard = -0.1
				c.MatchWeights.TextCosine = 0.85
			},
			expectError: "each weight must be in [0,1]",
		},
		{
			name: "NaN weight rejected",
			mutate: func(c *EngineConfig) {
				c.ATSWeights.Section = math.NaN()
			},
			expectError: "each weight must be in [0,1]",
		},
		{
			name: "tiny floating error tolerated",
			mutate: func(c *EngineConfig) {
				c.MatchWeights.Jaccard = 0.4 + 1e-12
			},
		},
		{
			name: "negative criticalTopN rejected",
			mutate: func(c *EngineConfig) {
				c.CriticalTopN = -1
			},
			expectError: "criticalTopN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validEngineConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.expectError == "" {
				if err != nil {
					t.Errorf("Expected valid config, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.expectError) {
				t.Errorf("Error %q does not mention %q", err.Error(), tt.expectError)
			}
		})
	}
}

func TestPredictorConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         PredictorConfig
		expectError bool
	}{
		{
			name: "none provider",
			cfg:  PredictorConfig{Provider: "none", Timeout: time.Second},
		},
		{
			name: "empty provider",
			cfg:  PredictorConfig{Timeout: time.Second},
		},
		{
			name: "linear with artifact",
			cfg:  PredictorConfig{Provider: "linear", ArtifactPath: "/models/m.json", Timeout: time.Second},
		},
		{
			name:        "linear without artifact",
			cfg:         PredictorConfig{Provider: "linear", Timeout: time.Second},
			expectError: true,
		},
		{
			name: "gemini with api key",
			cfg:  PredictorConfig{Provider: "gemini", APIKey: "key", Timeout: time.Second},
		},
		{
			name:        "gemini without api key",
			cfg:         PredictorConfig{Provider: "gemini", Timeout: time.Second},
			expectError: true,
		},
		{
			name:        "unknown provider",
			cfg:         PredictorConfig{Provider: "oracle", Timeout: time.Second},
			expectError: true,
		},
		{
			name:        "non-positive timeout",
			cfg:         PredictorConfig{Provider: "none"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.expectError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestTLSConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         TLSConfig
		expectError bool
	}{
		{
			name: "disabled mode needs nothing",
			cfg:  TLSConfig{Mode: "disabled"},
		},
		{
			name: "server mode with certs",
			cfg:  TLSConfig{Mode: "server", CertFile: "cert.pem", KeyFile: "key.pem"},
		},
		{
			name:        "server mode missing key",
			cfg:         TLSConfig{Mode: "server", CertFile: "cert.pem"},
			expectError: true,
		},
		{
			name: "mutual mode complete",
			cfg:  TLSConfig{Mode: "mutual", CertFile: "cert.pem", KeyFile: "key.pem", CAFile: "ca.pem"},
		},
		{
			name:        "mutual mode missing CA",
			cfg:         TLSConfig{Mode: "mutual", CertFile: "cert.pem", KeyFile: "key.pem"},
			expectError: true,
		},
		{
			name:        "invalid mode",
			cfg:         TLSConfig{Mode: "sometimes"},
			expectError: true,
		},
		{
			name:        "invalid min version",
			cfg:         TLSConfig{Mode: "server", CertFile: "c", KeyFile: "k", MinVersion: "1.1"},
			expectError: true,
		},
		{
			name: "valid min version 1.3",
			cfg:  TLSConfig{Mode: "server", CertFile: "c", KeyFile: "k", MinVersion: "1.3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.expectError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Engine:    validEngineConfig(),
			Predictor: PredictorConfig{Provider: "none", Timeout: time.Second},
			Server: ServerConfig{
				Port: "8080",
				TLS:  TLSConfig{Mode: "disabled"},
			},
			App: AppConfig{
				LogLevel:         "info",
				DefaultFormat:    "text",
				SupportedFormats: []string{"json", "text", "markdown"},
				MaxFileSize:      1024 * 1024,
			},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		cfg := valid()
		if err := cfg.Validate(); err != nil {
			t.Errorf("Expected valid config, got: %v", err)
		}
	})

	t.Run("missing port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = ""
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for missing port")
		}
	})

	t.Run("default format not in supported list", func(t *testing.T) {
		cfg := valid()
		cfg.App.DefaultFormat = "xml"
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for unsupported default format")
		}
	})
}
