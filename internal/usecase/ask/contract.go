package ask

import (
	"context"

	"github.com/Ham12-3/info-hunter/internal/domain"
	"github.com/Ham12-3/info-hunter/internal/domain/search/filter"
)

// Retriever fetches the ordered grounding records for a question.
type Retriever interface {
	Retrieve(ctx context.Context, question string, filters filter.Filters, topK int) ([]domain.KnowledgeRecord, error)
}

// Generator produces a structured completion from a system and user prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (domain.GenerationResult, error)
}

// Limiter gates calls to the generation provider.
type Limiter interface {
	Acquire(ctx context.Context) error
}
