package cli

import (
	"context"
	"fmt"

	"resumerefiner/internal/common"
	"resumerefiner/internal/types"

	"github.com/spf13/cobra"
)

var gapsCmd = &cobra.Command{
	Use:   "gaps [resume-file] [job-description-file]",
	Short: "Report the skill gap between a resume and a job description",
	Long: `Compare the skills extracted from a resume against those in a job
description. Reports matched skills by category, missing skills with a
critical or recommended rating and concrete improvement suggestions.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if gapsConfig.OutputFormat == "" {
			gapsConfig.OutputFormat = cfg.App.DefaultFormat
		}
		gapsConfig.MaxFileSize = cfg.App.MaxFileSize
		return common.ValidateOutputFormat(gapsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runGaps,
}

var gapsConfig common.CommandConfig

func init() {
	gapsCmd.Flags().StringVarP(&gapsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	gapsCmd.Flags().StringVar(&gapsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = gapsCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runGaps(cmd *cobra.Command, args []string) error {
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
		logger.Info("Starting gap analysis",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	gapOperation := func(ctx context.Context, input types.AnalyzeInput) (types.GapReport, error) {
		return eng.SkillGap(input.ResumeText, input.JobDescription), nil
	}

	err = common.RunCommand(
		cmd.Context(),
		logger,
		gapsConfig,
		args,
		createInput,
		gapOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze skill gap: %w", err)
	}
	logger.Info("Gap analysis completed successfully")
	return nil
}
