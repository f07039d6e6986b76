package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fitcheck/internal/cli"
	"fitcheck/internal/config"
	"fitcheck/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	if err := cli.Execute(ctx, cfg, logger); err != nil {
		logger.LogError(err, "command failed")
		os.Exit(1)
	}
}
