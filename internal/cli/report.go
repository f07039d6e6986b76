package cli

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"fitcheck/internal/common"
	"fitcheck/internal/errors"
	"fitcheck/internal/formatters"
	"fitcheck/internal/insights"
	"fitcheck/internal/types"
)

func newReportCmd() *cobra.Command {
	var (
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "report [analysis-file]",
		Short: "Build an insight report from a saved analysis result",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return formatters.ValidateOutputFormat(outputFormat)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := getLoggerFromContext(ctx)

			return common.RunCommand(ctx, logger, common.CommandOptions[*types.AnalysisResult, *insights.Report]{
				CreateInput: func() (*types.AnalysisResult, error) {
					return loadAnalysisResult(args[0])
				},
				Execute: func(ctx context.Context, result *types.AnalysisResult) (*insights.Report, error) {
					report := insights.Build(*result)
					return &report, nil
				},
				LogDetails: func(logger *errors.Logger, report *insights.Report) {
					logger.Info("report built",
						"readiness", report.Readiness.Status,
						"confidence", report.Confidence.Level,
					)
				},
				OutputFormat: outputFormat,
				OutputFile:   outputFile,
			})
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: json, text or markdown")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write output to file instead of stdout")

	return cmd
}

func loadAnalysisResult(path string) (*types.AnalysisResult, error) {
	content, err := common.ReadTextFile(path)
	if err != nil {
		return nil, err
	}

	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"file is not a saved analysis result", err)
	}
	return &result, nil
}
