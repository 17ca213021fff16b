package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/Ham12-3/info-hunter/internal/domain"
	"github.com/Ham12-3/info-hunter/internal/domain/search/filter"
	"github.com/Ham12-3/info-hunter/internal/domain/search/mode"
	"github.com/Ham12-3/info-hunter/internal/domain/search/page"
	"github.com/Ham12-3/info-hunter/internal/usecase/search"
)

type mockSearcher struct {
	resp  page.Response
	err   error
	lastP search.Params
}

func (m *mockSearcher) Search(_ context.Context, p search.Params) (page.Response, error) {
	m.lastP = p
	if m.err != nil {
		return page.Response{}, m.err
	}
	return m.resp, nil
}

func TestRetrieve_UsesHybridFirstPage(t *testing.T) {
	searcher := &mockSearcher{resp: page.Response{
		Items: []domain.KnowledgeRecord{
			{ID: "a", Title: "first", Score: 3.2, Highlights: map[string][]string{"body_text": {"<em>x</em>"}}},
			{ID: "b", Title: "second", Score: 1.1},
		},
		Total: 2,
	}}
	r := New(searcher)

	records, err := r.Retrieve(context.Background(), "how do contexts cancel", filter.Filters{}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if searcher.lastP.Mode != mode.Hybrid {
		t.Fatalf("expected hybrid mode, got %q", searcher.lastP.Mode)
	}
	if searcher.lastP.Page != 1 || searcher.lastP.Size != 5 {
		t.Fatalf("expected page=1 size=5, got page=%d size=%d", searcher.lastP.Page, searcher.lastP.Size)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for _, rec := range records {
		if rec.Score != 0 || rec.Highlights != nil {
			t.Fatalf("expected score/highlights stripped, got %+v", rec)
		}
	}
}

func TestRetrieve_ErrorPropagates(t *testing.T) {
	searcher := &mockSearcher{err: domain.ErrProviderRateLimited}
	r := New(searcher)

	_, err := r.Retrieve(context.Background(), "q", filter.Filters{}, 5)
	if !errors.Is(err, domain.ErrProviderRateLimited) {
		t.Fatalf("expected ErrProviderRateLimited, got %v", err)
	}
}

func TestRetrieve_Empty(t *testing.T) {
	searcher := &mockSearcher{resp: page.Response{}}
	r := New(searcher)

	records, err := r.Retrieve(context.Background(), "nothing matches", filter.Filters{}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}
