package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"fitcheck/internal/ai"
	"fitcheck/internal/engine"
	"fitcheck/internal/observability"
	"fitcheck/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := getConfigFromContext(ctx)
			logger := getLoggerFromContext(ctx)

			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			om := observability.NewManager(observability.GetConfig(Version), logger)
			if err := om.Initialize(ctx); err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := om.Shutdown(shutdownCtx); err != nil {
					logger.LogError(err, "observability shutdown failed")
				}
			}()

			var provider ai.InferenceProvider
			var augmenter *ai.Augmenter
			if cfg.AI.Enabled {
				p, err := ai.NewProvider(ctx, cfg, logger)
				if err != nil {
					return err
				}
				provider = p
				augmenter = ai.NewAugmenter(provider, &ai.LineSegmenter{MaxRequirements: cfg.Engine.MaxRequirements}, logger)
			} else {
				logger.Info("no API key configured, serving heuristic-only analysis")
			}

			eng := engine.New(cfg, augmenter, logger)
			s := server.NewServer(cfg, eng, provider, logger, om, Version)

			return s.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "localhost", "Listen host")
	cmd.Flags().IntVar(&port, "port", 8080, "Listen port")

	return cmd
}
