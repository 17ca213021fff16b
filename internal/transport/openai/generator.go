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

const kindGeneration = "generation"

// Generator is a chat-completion provider using the OpenAI-compatible API.
// Responses are requested in JSON mode so the answer pipeline can parse
// them strictly.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      *zap.Logger
}

// GeneratorConfig holds the generation provider settings.
type GeneratorConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	Logger      *zap.Logger
}

// NewGenerator creates an OpenAI-compatible chat completion provider.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		logger:      cfg.Logger,
	}
}

// Generate implements domain.Generator. It sends the system and user
// messages as a single JSON-mode chat completion.
func (g *Generator) Generate(ctx context.Context, system, prompt string) (domain.GenerationResult, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil && isTransient(err) {
		g.logger.Warn("Retrying generation request after transient failure", zap.Error(err))
		resp, err = g.client.CreateChatCompletion(ctx, req)
	}

	duration := time.Since(start)

	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues(kindGeneration, g.model, "error").Inc()
		return domain.GenerationResult{}, parseAPIError(kindGeneration, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		metrics.AIRequestsTotal.WithLabelValues(kindGeneration, g.model, "error").Inc()
		return domain.GenerationResult{}, fmt.Errorf("empty completion response: %w", domain.ErrProviderResponseInvalid)
	}

	metrics.AIRequestsTotal.WithLabelValues(kindGeneration, g.model, "success").Inc()
	metrics.AIRequestDuration.WithLabelValues(kindGeneration, g.model).Observe(duration.Seconds())

	usage := resp.Usage
	if usage.TotalTokens > 0 {
		metrics.AITokensTotal.WithLabelValues(kindGeneration, g.model, "prompt").Add(float64(usage.PromptTokens))
		metrics.AITokensTotal.WithLabelValues(kindGeneration, g.model, "completion").Add(float64(usage.CompletionTokens))
		metrics.AITokensTotal.WithLabelValues(kindGeneration, g.model, "total").Add(float64(usage.TotalTokens))
	}

	return domain.GenerationResult{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
