package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resumerefiner/internal/cli"
	"resumerefiner/internal/config"
	"resumerefiner/internal/errors"
)

func main() {
	// Cancel the root context on SIGINT/SIGTERM so long-running commands
	// and the HTTP server shut down cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Starting resumerefiner",
		"version", cli.Version,
		"commit", cli.GitCommit,
		"log_level", cfg.App.LogLevel,
		"predictor", cfg.Predictor.Provider)

	if err := cli.Execute(ctx, cfg, logger); err != nil {
		logger.LogError(err, "Command failed")
		os.Exit(1)
	}
}
