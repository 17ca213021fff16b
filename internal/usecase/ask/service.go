package ask

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Ham12-3/info-hunter/internal/domain"
	domask "github.com/Ham12-3/info-hunter/internal/domain/ask"
	"github.com/Ham12-3/info-hunter/internal/domain/search/filter"
)

// NoSourcesAnswer is returned without calling the generation provider when
// retrieval finds nothing to ground an answer on.
const NoSourcesAnswer = "I couldn't find any relevant information to answer your question. " +
	"Please try rephrasing or adjusting your search filters."

// Service sequences retrieval, prompt composition, and answer synthesis.
type Service struct {
	retriever   Retriever
	synthesizer *Synthesizer
	defaultTopK int
	maxTopK     int
	logger      *zap.Logger
}

// NewService creates the ask orchestrator.
func NewService(
	retriever Retriever,
	synthesizer *Synthesizer,
	defaultTopK, maxTopK int,
	logger *zap.Logger,
) *Service {
	return &Service{
		retriever:   retriever,
		synthesizer: synthesizer,
		defaultTopK: defaultTopK,
		maxTopK:     maxTopK,
		logger:      logger,
	}
}

// Ask answers a question grounded in retrieved knowledge records. With zero
// retrieved records it short-circuits to a deterministic zero-confidence
// result and never touches the generation provider. A generation failure
// after successful retrieval propagates as an error; there is no degraded
// citations-only output.
func (s *Service) Ask(
	ctx context.Context, question string, filters filter.Filters, topK int,
) (domask.Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domask.Result{}, fmt.Errorf("%w: question is required", domain.ErrInvalidRequest)
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}
	if topK > s.maxTopK {
		return domask.Result{}, fmt.Errorf("%w: top_k must be <= %d, got %d", domain.ErrInvalidRequest, s.maxTopK, topK)
	}

	records, err := s.retriever.Retrieve(ctx, question, filters, topK)
	if err != nil {
		return domask.Result{}, err
	}

	if len(records) == 0 {
		s.logger.Info("No grounding records found for question",
			zap.Int("top_k", topK))
		return domask.Result{
			Answer:     NoSourcesAnswer,
			Confidence: 0.0,
			Citations:  []domask.Citation{},
		}, nil
	}

	prompt := ComposePrompt(question, records)

	result, err := s.synthesizer.Synthesize(ctx, prompt, records)
	if err != nil {
		return domask.Result{}, err
	}

	s.logger.Info("Answered question",
		zap.Int("sources", len(records)),
		zap.Float64("confidence", result.Confidence))

	return result, nil
}
