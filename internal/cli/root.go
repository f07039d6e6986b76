// Package cli wires the cobra commands: analyze, report, serve, version.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"fitcheck/internal/config"
	"fitcheck/internal/errors"
)

type configKeyType struct{}
type loggerKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

// Execute runs the root command with config and logger carried in the
// command context.
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	rootCmd := &cobra.Command{
		Use:   "fitcheck",
		Short: "Resume and job description compatibility scoring",
		Long: `fitcheck scores a resume against a job description and explains the
result: category scores, matched and missing skills and keywords, ATS
format findings, recommendations and insight views.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)

	return rootCmd.ExecuteContext(ctx)
}

// getConfigFromContext returns the config stored by Execute. Commands
// only run under Execute, so a missing value is a programming error.
func getConfigFromContext(ctx context.Context) *config.Config {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok {
		panic("config not found in command context")
	}
	return cfg
}

func getLoggerFromContext(ctx context.Context) *errors.Logger {
	logger, ok := ctx.Value(loggerKey).(*errors.Logger)
	if !ok {
		panic("logger not found in command context")
	}
	return logger
}
