package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math/big"
	"net"
	"sort"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"fitcheck/internal/config"
	"fitcheck/internal/errors"
)

// GeminiProvider implements InferenceProvider on the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	config *config.Config
	logger *errors.Logger

	embedBreaker    *EmbedCircuitBreaker
	generateBreaker *GenerateCircuitBreaker
	modelBreaker    *ModelCircuitBreaker
}

var _ InferenceProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini-backed inference provider.
func NewGeminiProvider(ctx context.Context, cfg *config.Config, logger *errors.Logger) (*GeminiProvider, error) {
	if cfg.AI.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey, "Gemini API key is not configured", nil)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.AI.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:          client,
		config:          cfg,
		logger:          logger,
		embedBreaker:    NewEmbedCircuitBreaker(&cfg.AI.CircuitBreaker, "gemini-embed"),
		generateBreaker: NewGenerateCircuitBreaker(&cfg.AI.CircuitBreaker, "gemini-generate"),
		modelBreaker:    NewModelCircuitBreaker(&cfg.AI.CircuitBreaker, "gemini-model"),
	}, nil
}

// isRetryableError reports whether an inference call is worth retrying.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return true
		}
	}

	msg := err.Error()
	return strings.Contains(msg, "connection reset") || strings.Contains(msg, "EOF")
}

// classifyRequestError sorts a failed inference call into the error
// taxonomy: deadline expiry, network timeout, rejected credentials, or
// a general service failure.
func classifyRequestError(err error, message string) *errors.AppError {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewAIError(errors.ErrCodeAITimeout, message+": deadline exceeded", err)
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.NewNetworkError(errors.ErrCodeNetworkTimeout, message+": network timeout", err)
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) && (apiErr.Code == 401 || apiErr.Code == 403) {
		return errors.NewAIError(errors.ErrCodeAIAuthFailed, message+": request not authorized", err)
	}

	return errors.NewAIError(errors.ErrCodeAIServiceFailed, message, err)
}

// executeWithRetry runs op with exponential backoff and jitter. Backoff
// doubles from one second and caps at 30 seconds.
func executeWithRetry[T any](ctx context.Context, logger *errors.Logger, maxRetries int, op func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			if backoff > 30*time.Second {
				backoff = 30 * time.Second
			}
			backoff += jitter(backoff)

			logger.Debug("retrying inference call", "attempt", attempt, "backoff", backoff.String())
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := op()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return zero, err
		}
	}

	return zero, fmt.Errorf("all %d retries exhausted: %w", maxRetries, lastErr)
}

// jitter returns up to 10% of d, from a crypto source so concurrent
// retries do not synchronize.
func jitter(d time.Duration) time.Duration {
	max := int64(d) / 10
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0
	}
	return time.Duration(n.Int64())
}

// Embed returns the dense vector for text using the embedding model.
func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	opCfg := p.config.GetSimilarityConfig()

	callCtx, cancel := context.WithTimeout(ctx, *opCfg.Timeout)
	defer cancel()

	resp, err := executeWithRetry(callCtx, p.logger, *opCfg.MaxRetries, func() (*genai.EmbedContentResponse, error) {
		return p.embedBreaker.Execute(func() (*genai.EmbedContentResponse, error) {
			return p.client.Models.EmbedContent(callCtx, *opCfg.Model, genai.Text(text), nil)
		})
	})
	if err != nil {
		return nil, classifyRequestError(err, "embedding request failed")
	}

	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.NewAIError(errors.ErrCodeAIParseFailed, "embedding response contained no vector", nil)
	}

	values := resp.Embeddings[0].Values
	vector := make([]float64, len(values))
	for i, v := range values {
		vector[i] = float64(v)
	}
	return vector, nil
}

// classificationResponse is the JSON shape the model is asked to return.
type classificationResponse struct {
	Labels []LabelScore `json:"labels"`
}

var classificationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"labels": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"label": {Type: genai.TypeString},
					"score": {Type: genai.TypeNumber},
				},
				Required: []string{"label", "score"},
			},
		},
	},
	Required: []string{"labels"},
}

// Classify scores text against the candidate labels via structured JSON
// generation. Results come back sorted best first with scores clamped to
// [0,1].
func (p *GeminiProvider) Classify(ctx context.Context, text string, labels []string) ([]LabelScore, error) {
	if len(labels) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "classification needs at least one label", nil)
	}

	opCfg := p.config.GetClassificationConfig()

	callCtx, cancel := context.WithTimeout(ctx, *opCfg.Timeout)
	defer cancel()

	prompt := buildClassificationPrompt(text, labels)
	genCfg := &genai.GenerateContentConfig{
		Temperature:      opCfg.Temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   classificationSchema,
	}

	resp, err := executeWithRetry(callCtx, p.logger, *opCfg.MaxRetries, func() (*genai.GenerateContentResponse, error) {
		return p.generateBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
			return p.client.Models.GenerateContent(callCtx, *opCfg.Model, genai.Text(prompt), genCfg)
		})
	})
	if err != nil {
		return nil, classifyRequestError(err, "classification request failed")
	}

	parsed, err := parseClassification(resp.Text())
	if err != nil {
		return nil, err
	}
	return parsed, nil
}

func buildClassificationPrompt(text string, labels []string) string {
	var b strings.Builder
	b.WriteString("Score how well each candidate label applies to the text below.\n")
	b.WriteString("Return a score between 0 and 1 for every label.\n\nLabels:\n")
	for _, label := range labels {
		b.WriteString("- " + label + "\n")
	}
	b.WriteString("\nText:\n")
	b.WriteString(text)
	return b.String()
}

// parseClassification decodes the model's JSON answer, tolerating
// markdown code fences some models wrap around it.
func parseClassification(raw string) ([]LabelScore, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var parsed classificationResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIParseFailed, "failed to parse classification response", err)
	}

	for i := range parsed.Labels {
		if parsed.Labels[i].Score < 0 {
			parsed.Labels[i].Score = 0
		}
		if parsed.Labels[i].Score > 1 {
			parsed.Labels[i].Score = 1
		}
	}
	sort.SliceStable(parsed.Labels, func(i, j int) bool {
		return parsed.Labels[i].Score > parsed.Labels[j].Score
	})
	return parsed.Labels, nil
}

// GetModelInfo reports the configured classification model's metadata.
func (p *GeminiProvider) GetModelInfo(ctx context.Context) (*ModelInfo, error) {
	model, err := p.modelBreaker.Execute(func() (*genai.Model, error) {
		return p.client.Models.Get(ctx, p.config.AI.Model, nil)
	})
	if err != nil {
		return &ModelInfo{Name: p.config.AI.Model, Available: false}, nil
	}

	return &ModelInfo{
		Name:      model.Name,
		Version:   model.Version,
		Available: true,
	}, nil
}

// BreakerStats exposes the generation breaker counters.
func (p *GeminiProvider) BreakerStats() map[string]any {
	return p.generateBreaker.GetStats()
}

// IsHealthy reports whether the provider admits requests.
func (p *GeminiProvider) IsHealthy() bool {
	return p.generateBreaker.IsHealthy() && p.embedBreaker.IsHealthy()
}

func (p *GeminiProvider) Close() error {
	return nil
}
