package ai

import (
	"log"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"

	"fitcheck/internal/config"
)

// EmbedCircuitBreaker protects embedding calls. A nil inner breaker means
// the feature is disabled and calls pass straight through.
type EmbedCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.EmbedContentResponse]
}

// GenerateCircuitBreaker protects content generation calls.
type GenerateCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.GenerateContentResponse]
}

// ModelCircuitBreaker protects model metadata lookups.
type ModelCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.Model]
}

func breakerSettings(cfg *config.CircuitBreakerConfig, name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= cfg.MinRequests &&
				counts.TotalFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[BREAKER] %s: %s -> %s", name, from, to)
		},
	}
}

// NewEmbedCircuitBreaker creates a breaker for embedding calls, or a
// pass-through when disabled.
func NewEmbedCircuitBreaker(cfg *config.CircuitBreakerConfig, name string) *EmbedCircuitBreaker {
	if !cfg.Enabled {
		return &EmbedCircuitBreaker{}
	}
	return &EmbedCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[*genai.EmbedContentResponse](breakerSettings(cfg, name)),
	}
}

// NewGenerateCircuitBreaker creates a breaker for generation calls, or a
// pass-through when disabled.
func NewGenerateCircuitBreaker(cfg *config.CircuitBreakerConfig, name string) *GenerateCircuitBreaker {
	if !cfg.Enabled {
		return &GenerateCircuitBreaker{}
	}
	return &GenerateCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[*genai.GenerateContentResponse](breakerSettings(cfg, name)),
	}
}

// NewModelCircuitBreaker creates a breaker for model lookups, or a
// pass-through when disabled.
func NewModelCircuitBreaker(cfg *config.CircuitBreakerConfig, name string) *ModelCircuitBreaker {
	if !cfg.Enabled {
		return &ModelCircuitBreaker{}
	}
	return &ModelCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[*genai.Model](breakerSettings(cfg, name)),
	}
}

func (b *EmbedCircuitBreaker) Execute(fn func() (*genai.EmbedContentResponse, error)) (*genai.EmbedContentResponse, error) {
	if b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

func (b *GenerateCircuitBreaker) Execute(fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	if b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

func (b *ModelCircuitBreaker) Execute(fn func() (*genai.Model, error)) (*genai.Model, error) {
	if b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// GetStats exposes breaker counters for the stats endpoint.
func (b *GenerateCircuitBreaker) GetStats() map[string]any {
	if b.cb == nil {
		return map[string]any{"enabled": false}
	}
	counts := b.cb.Counts()
	return map[string]any{
		"enabled":              true,
		"state":                b.cb.State().String(),
		"requests":             counts.Requests,
		"total_successes":      counts.TotalSuccesses,
		"total_failures":       counts.TotalFailures,
		"consecutive_failures": counts.ConsecutiveFailures,
	}
}

// IsHealthy reports whether the breaker currently admits requests.
func (b *GenerateCircuitBreaker) IsHealthy() bool {
	return b.cb == nil || b.cb.State() != gobreaker.StateOpen
}

func (b *EmbedCircuitBreaker) IsHealthy() bool {
	return b.cb == nil || b.cb.State() != gobreaker.StateOpen
}
