package cli

import (
	"context"
	"fmt"

	"resumerefiner/internal/common"
	"resumerefiner/internal/types"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract known skills from a document",
	Long: `Extract the skills recognized by the taxonomy from a single document,
grouped by category. Works on resumes and job descriptions alike.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if extractConfig.OutputFormat == "" {
			extractConfig.OutputFormat = cfg.App.DefaultFormat
		}
		extractConfig.MaxFileSize = cfg.App.MaxFileSize
		return common.ValidateOutputFormat(extractConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runExtract,
}

var extractConfig common.CommandConfig

func init() {
	extractCmd.Flags().StringVarP(&extractConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().StringVar(&extractConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = extractCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build scoring engine: %w", err)
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Warn("Failed to close predictor", "error", err)
		}
	}()

	createInput := func(contents []string) (types.ExtractInput, error) {
		if len(contents) != 1 {
			return types.ExtractInput{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return types.ExtractInput{Text: contents[0]}, nil
	}

	logDetails := func(input types.ExtractInput, cfg common.CommandConfig) {
		logger.Info("Starting skill extraction",
			"document_chars", len(input.Text),
			"output_format", cfg.OutputFormat)
	}

	extractOperation := func(ctx context.Context, input types.ExtractInput) (types.ExtractOutput, error) {
		return eng.ExtractSkills(input.Text), nil
	}

	err = common.RunCommand(
		cmd.Context(),
		logger,
		extractConfig,
		args,
		createInput,
		extractOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to extract skills: %w", err)
	}
	logger.Info("Skill extraction completed successfully")
	return nil
}
