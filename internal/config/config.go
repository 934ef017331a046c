package config

import (
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
// Value precedence order:
// 1. Config file values
// 2. Environment variables (RESUMEREFINER_ENGINE_CRITICALTOPN, etc.)
// 3. Default values
type Config struct {
	Engine        EngineConfig        `mapstructure:"engine"`
	Predictor     PredictorConfig     `mapstructure:"predictor"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// MatchWeights are the fixed weights for the job-match score. They must sum
// to 1.0; this is validated at load time, never per request.
type MatchWeights struct {
	Jaccard    float64 `mapstructure:"jaccard"`
	TextCosine float64 `mapstructure:"textCosine"`
	SkillMatch float64 `mapstructure:"skillMatch"`
}

// ATSWeights are the fixed weights for the ATS score over the four
// structural signals. They must sum to 1.0, validated at load time.
type ATSWeights struct {
	Section float64 `mapstructure:"section"`
	Keyword float64 `mapstructure:"keyword"`
	Format  float64 `mapstructure:"format"`
	Context float64 `mapstructure:"context"`
}

// EngineConfig holds scoring engine configuration
type EngineConfig struct {
	// TaxonomyPath points at the skill taxonomy YAML file. Empty means the
	// built-in default taxonomy.
	TaxonomyPath string `mapstructure:"taxonomyPath"`

	// ExtraStopwords are removed from the text-similarity token stream in
	// addition to the built-in stop-word list.
	ExtraStopwords []string `mapstructure:"extraStopwords"`

	// CriticalTopN is how many of the job description's most frequent
	// extracted skills count as critical when missing. 0 derives N from the
	// job text length.
	CriticalTopN int `mapstructure:"criticalTopN"`

	MatchWeights MatchWeights `mapstructure:"matchWeights"`
	ATSWeights   ATSWeights   `mapstructure:"atsWeights"`
}

// CircuitBreakerConfig represents circuit breaker configuration for the
// external predictor
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for open to half-open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// PredictorConfig holds configuration for the optional external
// compatibility predictor
type PredictorConfig struct {
	// Provider selects the predictor implementation: "none", "linear"
	// (serialized regression artifact) or "gemini".
	Provider string `mapstructure:"provider"`

	// ArtifactPath is the serialized model file for the linear provider.
	ArtifactPath string `mapstructure:"artifactPath"`

	// Model and APIKey configure the gemini provider.
	Model  string `mapstructure:"model"`
	APIKey string `mapstructure:"apiKey"`

	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"maxRetries"`

	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// TLSConfig holds TLS/mTLS configuration for the HTTP server
type TLSConfig struct {
	Mode     string `mapstructure:"mode"`     // TLS mode: "disabled", "server", "mutual"
	CertFile string `mapstructure:"certFile"` // Server certificate file (PEM)
	KeyFile  string `mapstructure:"keyFile"`  // Server private key file (PEM)
	CAFile   string `mapstructure:"caFile"`   // CA certificate for client cert verification (mutual mode)

	MinVersion       string `mapstructure:"minVersion"`       // Minimum TLS version: "1.2", "1.3"
	ClientAuthPolicy string `mapstructure:"clientAuthPolicy"` // Client auth policy for mutual mode: "require", "request", "verify"

	AutoReload AutoReloadConfig `mapstructure:"autoReload"`
}

// AutoReloadConfig holds configuration for automatic certificate reloading
type AutoReloadConfig struct {
	Enabled       bool          `mapstructure:"enabled"`       // Enable certificate file watching
	DebounceDelay time.Duration `mapstructure:"debounceDelay"` // Debounce delay for file change events
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int  `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int  `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	TLS TLSConfig `mapstructure:"tls"`

	// APIKeys are the valid keys for request authentication. Empty disables
	// authentication.
	APIKeys []string `mapstructure:"apiKeys"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// PrometheusConfig holds Prometheus exporter configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled            bool             `mapstructure:"enabled"`
	ServiceName        string           `mapstructure:"serviceName"`
	ServiceVersion     string           `mapstructure:"serviceVersion"`
	ConsoleOutput      bool             `mapstructure:"consoleOutput"`
	PrettyPrint        bool             `mapstructure:"prettyPrint"`
	SampleRate         float64          `mapstructure:"sampleRate"`
	MetricsInterval    time.Duration    `mapstructure:"metricsInterval"`
	HealthCheckTimeout time.Duration    `mapstructure:"healthCheckTimeout"`
	Prometheus         PrometheusConfig `mapstructure:"prometheus"`
	OTLP               OTLPConfig       `mapstructure:"otlp"`
}

// LoadConfig reads configuration from defaults, environment variables and an
// optional config file, then validates it. Invalid weight sets or predictor
// settings fail here, at startup, never per request.
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("RESUMEREFINER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumerefiner/")
	v.AddConfigPath("$HOME/.resumerefiner")
	v.AddConfigPath(".")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Engine defaults. The match weights follow the fixed formula
	// 0.4*jaccard + 0.35*textCosine + 0.25*skillMatch; the ATS weights
	// follow 0.25*section + 0.35*keyword + 0.20*format + 0.20*context.
	v.SetDefault("engine.taxonomyPath", "")
	v.SetDefault("engine.extraStopwords", []string{})
	v.SetDefault("engine.criticalTopN", 0)
	v.SetDefault("engine.matchWeights.jaccard", 0.4)
	v.SetDefault("engine.matchWeights.textCosine", 0.35)
	v.SetDefault("engine.matchWeights.skillMatch", 0.25)
	v.SetDefault("engine.atsWeights.section", 0.25)
	v.SetDefault("engine.atsWeights.keyword", 0.35)
	v.SetDefault("engine.atsWeights.format", 0.20)
	v.SetDefault("engine.atsWeights.context", 0.20)

	// Predictor defaults
	v.SetDefault("predictor.provider", "none")
	v.SetDefault("predictor.artifactPath", "")
	v.SetDefault("predictor.model", "gemini-2.0-flash")
	v.SetDefault("predictor.apiKey", "")
	v.SetDefault("predictor.timeout", 30*time.Second)
	v.SetDefault("predictor.maxRetries", 2)
	v.SetDefault("predictor.circuitBreaker.enabled", true)
	v.SetDefault("predictor.circuitBreaker.maxRequests", 3)
	v.SetDefault("predictor.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("predictor.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("predictor.circuitBreaker.minRequests", 3)
	v.SetDefault("predictor.circuitBreaker.failureThreshold", 0.6)

	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.tls.mode", "disabled")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.tls.clientAuthPolicy", "require")
	v.SetDefault("server.tls.autoReload.enabled", false)
	v.SetDefault("server.tls.autoReload.debounceDelay", 2*time.Second)
	v.SetDefault("server.rateLimit.enabled", true)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)

	// App defaults
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "text")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024)

	// Observability defaults
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumerefiner")
	v.SetDefault("observability.serviceVersion", "")
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.prettyPrint", false)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.metricsInterval", 30*time.Second)
	v.SetDefault("observability.healthCheckTimeout", 5*time.Second)
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
}

// weightSumTolerance is the floating tolerance for weight-set validation.
const weightSumTolerance = 1e-9

// Sum returns the total of the match weight set
func (w MatchWeights) Sum() float64 {
	return w.Jaccard + w.TextCosine + w.SkillMatch
}

// Sum returns the total of the ATS weight set
func (w ATSWeights) Sum() float64 {
	return w.Section + w.Keyword + w.Format + w.Context
}

// Validate checks the configuration for fatal misconfiguration
func (c *Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}

	if err := c.Predictor.Validate(); err != nil {
		return err
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if err := c.Server.TLS.Validate(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}

// Validate checks the engine weight sets. Weights not summing to 1.0 are a
// fatal load-time condition.
func (c *EngineConfig) Validate() error {
	for _, w := range []struct {
		name   string
		value  float64
		fields []float64
	}{
		{"matchWeights", c.MatchWeights.Sum(), []float64{c.MatchWeights.Jaccard, c.MatchWeights.TextCosine, c.MatchWeights.SkillMatch}},
		{"atsWeights", c.ATSWeights.Sum(), []float64{c.ATSWeights.Section, c.ATSWeights.Keyword, c.ATSWeights.Format, c.ATSWeights.Context}},
	} {
		for _, f := range w.fields {
			if f < 0 || f > 1 || math.IsNaN(f) {
				return fmt.Errorf("engine.%s: each weight must be in [0,1], got %v", w.name, w.fields)
			}
		}
		if math.Abs(w.value-1.0) > weightSumTolerance {
			return fmt.Errorf("engine.%s must sum to 1.0, got %v", w.name, w.value)
		}
	}

	if c.CriticalTopN < 0 {
		return fmt.Errorf("engine.criticalTopN must be >= 0, got %d", c.CriticalTopN)
	}

	return nil
}

// Validate checks the predictor configuration
func (c *PredictorConfig) Validate() error {
	switch c.Provider {
	case "", "none":
	case "linear":
		if c.ArtifactPath == "" {
			return fmt.Errorf("predictor.artifactPath is required for the linear provider")
		}
	case "gemini":
		if c.APIKey == "" {
			return fmt.Errorf("predictor.apiKey is required for the gemini provider (set RESUMEREFINER_PREDICTOR_APIKEY)")
		}
	default:
		return fmt.Errorf("unsupported predictor provider: %s", c.Provider)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("predictor.timeout must be positive")
	}

	return nil
}

// Validate checks the TLS configuration
func (c *TLSConfig) Validate() error {
	switch c.Mode {
	case "disabled":
		return nil
	case "server":
		if c.CertFile == "" || c.KeyFile == "" {
			return fmt.Errorf("certFile and keyFile are required for server TLS mode")
		}
	case "mutual":
		if c.CertFile == "" || c.KeyFile == "" {
			return fmt.Errorf("certFile and keyFile are required for mutual TLS mode")
		}
		if c.CAFile == "" {
			return fmt.Errorf("caFile is required for mutual TLS mode")
		}
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", c.Mode)
	}

	switch c.MinVersion {
	case "", "1.2", "1.3":
	default:
		return fmt.Errorf("invalid TLS minVersion: %s", c.MinVersion)
	}

	return nil
}
