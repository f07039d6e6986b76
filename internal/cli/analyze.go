package cli

import (
	"context"

	"github.com/spf13/cobra"

	"fitcheck/internal/ai"
	"fitcheck/internal/common"
	"fitcheck/internal/engine"
	"fitcheck/internal/errors"
	"fitcheck/internal/formatters"
	"fitcheck/internal/types"
	"fitcheck/internal/utils"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		seniority    string
		fileName     string
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "analyze [resume-file] [job-file]",
		Short: "Score a resume against a job description",
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return formatters.ValidateOutputFormat(outputFormat)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := getConfigFromContext(ctx)
			logger := getLoggerFromContext(ctx)

			var augmenter *ai.Augmenter
			if cfg.AI.Enabled {
				provider, err := ai.NewProvider(ctx, cfg, logger)
				if err != nil {
					logger.LogError(err, "failed to create inference provider, continuing without augmentation")
				} else {
					defer provider.Close()
					augmenter = ai.NewAugmenter(provider, &ai.LineSegmenter{MaxRequirements: cfg.Engine.MaxRequirements}, logger)
				}
			}

			eng := engine.New(cfg, augmenter, logger)

			return common.RunCommand(ctx, logger, common.CommandOptions[types.AnalysisRequest, *types.AnalysisResult]{
				CreateInput: func() (types.AnalysisRequest, error) {
					return createAnalysisRequest(args[0], args[1], seniority, fileName)
				},
				Execute: func(ctx context.Context, req types.AnalysisRequest) (*types.AnalysisResult, error) {
					return eng.Analyze(ctx, req)
				},
				LogDetails: func(logger *errors.Logger, result *types.AnalysisResult) {
					logger.Info("analysis completed",
						"id", result.ID,
						"overall_score", result.OverallScore,
						"similarity_used", result.Augmentation.Similarity.Used,
					)
				},
				OutputFormat: outputFormat,
				OutputFile:   outputFile,
			})
		},
	}

	cmd.Flags().StringVar(&seniority, "seniority", "", "Target seniority: entry, mid, senior or lead")
	cmd.Flags().StringVar(&fileName, "file-name", "", "Original resume file name for format checks (defaults to the resume file argument)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json, text or markdown")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write output to file instead of stdout")

	return cmd
}

func createAnalysisRequest(resumePath, jobPath, seniority, fileName string) (types.AnalysisRequest, error) {
	resumeText, err := common.ReadTextFile(resumePath)
	if err != nil {
		return types.AnalysisRequest{}, err
	}
	jobText, err := common.ReadTextFile(jobPath)
	if err != nil {
		return types.AnalysisRequest{}, err
	}

	if fileName == "" {
		fileName = utils.BaseName(resumePath)
	}

	return types.AnalysisRequest{
		ResumeText:         resumeText,
		JobDescriptionText: jobText,
		Seniority:          seniority,
		FileName:           fileName,
	}, nil
}
