package cli

import (
	"context"

	"resumerefiner/internal/config"
	"resumerefiner/internal/engine"
	"resumerefiner/internal/errors"
	"resumerefiner/internal/predictor"
	"resumerefiner/internal/taxonomy"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "resumerefiner",
	Short: "A CLI tool for scoring resumes against job descriptions",
	Long: `Resumerefiner scores a resume against a job description: it extracts
skills from both documents, computes similarity and ATS compatibility scores,
and reports the skill gap with improvement suggestions.`,
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// buildEngine assembles the scoring engine from configuration: taxonomy,
// optional predictor, validated weights.
func buildEngine(cfg *config.Config, logger *errors.Logger) (*engine.Engine, error) {
	var tax *taxonomy.Taxonomy
	var err error

	if cfg.Engine.TaxonomyPath != "" {
		tax, err = taxonomy.Load(cfg.Engine.TaxonomyPath, logger)
		if err != nil {
			return nil, err
		}
	} else {
		tax = taxonomy.Default(logger)
	}

	pred, err := predictor.New(cfg.Predictor, logger)
	if err != nil {
		return nil, err
	}

	return engine.New(cfg.Engine, tax, pred, logger), nil
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(gapsCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
