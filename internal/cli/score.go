package cli

import (
	"context"
	"fmt"

	"resumerefiner/internal/common"
	"resumerefiner/internal/types"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [resume-file] [job-description-file]",
	Short: "Score a resume against a job description",
	Long: `Score a resume against a job description and report ATS compatibility,
job match, the extracted skills on both sides and improvement recommendations.

The analysis includes:
- ATS compatibility score (sections, keywords, formatting, context)
- Job match score (skill overlap, text similarity, skill counts)
- Per-category skill extraction for both documents
- Missing skills with criticality and tiered recommendations`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if scoreConfig.OutputFormat == "" {
			scoreConfig.OutputFormat = cfg.App.DefaultFormat
		}
		scoreConfig.MaxFileSize = cfg.App.MaxFileSize
		return common.ValidateOutputFormat(scoreConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScore,
}

var scoreConfig common.CommandConfig

func init() {
	scoreCmd.Flags().StringVarP(&scoreConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = scoreCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runScore(cmd *cobra.Command, args []string) error {
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

	createInput := func(contents []string) (types.AnalyzeInput, error) {
		if len(contents) != 2 {
			return types.AnalyzeInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.AnalyzeInput{
			ResumeText:     contents[0],
			JobDescription: contents[1],
		}, nil
	}

	logDetails := func(input types.AnalyzeInput, cfg common.CommandConfig) {
		logger.Info("Starting resume scoring",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	scoreOperation := func(ctx context.Context, input types.AnalyzeInput) (types.ScoreReport, error) {
		return eng.Analyze(ctx, input.ResumeText, input.JobDescription), nil
	}

	err = common.RunCommand(
		cmd.Context(),
		logger,
		scoreConfig,
		args,
		createInput,
		scoreOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}
	logger.Info("Resume scoring completed successfully")
	return nil
}
