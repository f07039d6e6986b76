package ai

import (
	"context"
	"fmt"

	"fitcheck/internal/config"
	"fitcheck/internal/errors"
)

// NewProvider creates the configured inference provider. Callers should
// only construct one when augmentation is enabled.
func NewProvider(ctx context.Context, cfg *config.Config, logger *errors.Logger) (InferenceProvider, error) {
	switch cfg.AI.Provider {
	case "gemini":
		return NewGeminiProvider(ctx, cfg, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unsupported AI provider: %s", cfg.AI.Provider), nil)
	}
}
