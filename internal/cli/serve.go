package cli

import (
	"fmt"

	"resumerefiner/internal/config"
	"resumerefiner/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the scoring engine as a REST API.

Endpoints:
  POST /analyze - score a resume against a job description
  POST /extract - extract skills from a single document
  POST /gaps    - report the skill gap between two documents
  GET  /health  - health check
  GET  /stats   - runtime statistics

Supports TLS (server-only or mutual), API key authentication, rate
limiting and certificate auto-reload.`,
	RunE: runServe,
}

func init() {
	registerServeFlags(serveCmd.Flags())
}

func registerServeFlags(flags *pflag.FlagSet) {
	flags.StringP("port", "p", "", "Port to listen on")
	flags.String("host", "", "Host to bind to")
	flags.String("tls-mode", "", "TLS mode: disabled, server, or mutual")
	flags.String("cert-file", "", "Server certificate file (PEM)")
	flags.String("key-file", "", "Server private key file (PEM)")
	flags.String("ca-file", "", "CA certificate for client verification (mutual mode)")
}

// applyServeFlags copies explicitly set command flags over the loaded
// config. Configuration loads on its own viper instance, so flag
// overrides are applied here instead of through viper bindings.
func applyServeFlags(flags *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	set("port", &cfg.Server.Port)
	set("host", &cfg.Server.Host)
	set("tls-mode", &cfg.Server.TLS.Mode)
	set("cert-file", &cfg.Server.TLS.CertFile)
	set("key-file", &cfg.Server.TLS.KeyFile)
	set("ca-file", &cfg.Server.TLS.CAFile)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	applyServeFlags(cmd.Flags(), cfg)
	if err := cfg.Server.TLS.Validate(); err != nil {
		return fmt.Errorf("invalid TLS settings: %w", err)
	}

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build scoring engine: %w", err)
	}

	serverConfig := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxFileSize,
		RateLimit:      &cfg.Server.RateLimit,
	}

	srv := server.NewServer(cfg, serverConfig, eng, logger)
	return srv.Start()
}
