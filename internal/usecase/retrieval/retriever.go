// Package retrieval fetches the knowledge records that ground an answer.
package retrieval

import (
	"context"
	"fmt"

	"github.com/Ham12-3/info-hunter/internal/domain"
	"github.com/Ham12-3/info-hunter/internal/domain/search/filter"
	"github.com/Ham12-3/info-hunter/internal/domain/search/mode"
	"github.com/Ham12-3/info-hunter/internal/domain/search/page"
	"github.com/Ham12-3/info-hunter/internal/usecase/search"
)

// Searcher is the consumer interface over the search executor.
type Searcher interface {
	Search(ctx context.Context, p search.Params) (page.Response, error)
}

// Retriever runs a hybrid search for answer grounding. Retrieval always
// reads the first page: the generator only ever sees the top K records.
type Retriever struct {
	searcher Searcher
}

// New creates a retriever.
func New(searcher Searcher) *Retriever {
	return &Retriever{searcher: searcher}
}

// Retrieve returns up to topK records matching the question. Search
// failures propagate unchanged so the caller can map them onto the right
// status. Score and highlight markup are stripped: prompt composition
// works from record content only.
func (r *Retriever) Retrieve(
	ctx context.Context, question string, filters filter.Filters, topK int,
) ([]domain.KnowledgeRecord, error) {
	resp, err := r.searcher.Search(ctx, search.Params{
		Query:   question,
		Mode:    mode.Hybrid,
		Filters: filters,
		Page:    1,
		Size:    topK,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve grounding records: %w", err)
	}

	records := resp.Items
	for i := range records {
		records[i].Score = 0
		records[i].Highlights = nil
	}
	return records, nil
}
