// Package common carries the shared plumbing of the CLI commands: file
// reading, output writing and the generic command runner.
package common

import (
	"context"

	"fitcheck/internal/errors"
	"fitcheck/internal/formatters"
)

// CommandOptions parameterizes RunCommand over an input builder and an
// execution step.
type CommandOptions[I any, O any] struct {
	// CreateInput assembles the operation input, typically from files.
	CreateInput func() (I, error)

	// Execute runs the operation.
	Execute func(ctx context.Context, input I) (O, error)

	// LogDetails optionally logs operation-specific fields on success.
	LogDetails func(logger *errors.Logger, output O)

	OutputFormat string
	OutputFile   string
}

// RunCommand executes one CLI operation end to end: build input, run,
// format, write.
func RunCommand[I any, O any](ctx context.Context, logger *errors.Logger, opts CommandOptions[I, O]) error {
	input, err := opts.CreateInput()
	if err != nil {
		logger.LogError(err, "failed to prepare command input")
		return err
	}

	output, err := opts.Execute(ctx, input)
	if err != nil {
		logger.LogError(err, "command execution failed")
		return err
	}

	if opts.LogDetails != nil {
		opts.LogDetails(logger, output)
	}

	formatted, err := formatters.GlobalRegistry.Format(opts.OutputFormat, output)
	if err != nil {
		logger.LogError(err, "failed to format output")
		return err
	}

	return HandleOutput(formatted, opts.OutputFile)
}
