// Package openai holds the AI provider clients built on the
// OpenAI-compatible API.
package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Ham12-3/info-hunter/internal/domain"
	"github.com/Ham12-3/info-hunter/internal/metrics"
)

const kindEmbedding = "embedding"

// Embedder is an embedding provider using the OpenAI-compatible API.
type Embedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	timeout    time.Duration
	logger     *zap.Logger
}

// EmbedderConfig holds the embedding provider settings.
type EmbedderConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Timeout    time.Duration
	Logger     *zap.Logger
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg *EmbedderConfig) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Embedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		timeout:    cfg.Timeout,
		logger:     cfg.Logger,
	}
}

// Embed implements domain.Embedder. Returns the vector and usage with
// transport-level metrics. A transient failure gets one immediate retry.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()

	resp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil && isTransient(err) {
		e.logger.Warn("Retrying embedding request after transient failure", zap.Error(err))
		resp, err = e.client.CreateEmbeddings(ctx, req)
	}

	duration := time.Since(start)

	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues(kindEmbedding, string(e.model), "error").Inc()
		return domain.EmbeddingResult{}, parseAPIError(kindEmbedding, err)
	}

	if len(resp.Data) == 0 {
		metrics.AIRequestsTotal.WithLabelValues(kindEmbedding, string(e.model), "error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrProviderResponseInvalid)
	}
	if e.dimensions > 0 && len(resp.Data[0].Embedding) != e.dimensions {
		metrics.AIRequestsTotal.WithLabelValues(kindEmbedding, string(e.model), "error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("embedding has %d dimensions, expected %d: %w",
			len(resp.Data[0].Embedding), e.dimensions, domain.ErrProviderResponseInvalid)
	}

	metrics.AIRequestsTotal.WithLabelValues(kindEmbedding, string(e.model), "success").Inc()
	metrics.AIRequestDuration.WithLabelValues(kindEmbedding, string(e.model)).Observe(duration.Seconds())

	totalTokens := resp.Usage.TotalTokens
	promptTokens := resp.Usage.PromptTokens
	if totalTokens > 0 {
		metrics.AITokensTotal.WithLabelValues(kindEmbedding, string(e.model), "prompt").Add(float64(promptTokens))
		metrics.AITokensTotal.WithLabelValues(kindEmbedding, string(e.model), "total").Add(float64(totalTokens))
	}

	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: promptTokens,
		TotalTokens:  totalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
