package ai

import "context"

// LabelScore is one zero-shot classification outcome, score in [0,1].
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ModelInfo describes the backing model and its availability.
type ModelInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Available bool   `json:"available"`
}

// InferenceProvider is the minimal surface the augmentation stage needs
// from an AI backend: dense embeddings and zero-shot label scoring.
type InferenceProvider interface {
	// Embed returns a dense vector for the given text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// Classify scores text against the candidate labels, best first.
	Classify(ctx context.Context, text string, labels []string) ([]LabelScore, error)

	// GetModelInfo reports the configured model and whether it responds.
	GetModelInfo(ctx context.Context) (*ModelInfo, error)

	// Close releases provider resources.
	Close() error
}
