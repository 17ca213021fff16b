package ask

import (
	"context"

	"github.com/Ham12-3/info-hunter/internal/domain"
	"github.com/Ham12-3/info-hunter/internal/domain/search/filter"
)

type mockRetriever struct {
	records []domain.KnowledgeRecord
	err     error
	calls   int
	lastK   int
}

func (m *mockRetriever) Retrieve(
	_ context.Context, _ string, _ filter.Filters, topK int,
) ([]domain.KnowledgeRecord, error) {
	m.calls++
	m.lastK = topK
	return m.records, m.err
}

type mockGenerator struct {
	result     domain.GenerationResult
	err        error
	calls      int
	lastPrompt string
}

func (m *mockGenerator) Generate(_ context.Context, _, prompt string) (domain.GenerationResult, error) {
	m.calls++
	m.lastPrompt = prompt
	return m.result, m.err
}

type mockLimiter struct {
	err   error
	calls int
}

func (m *mockLimiter) Acquire(_ context.Context) error {
	m.calls++
	return m.err
}
