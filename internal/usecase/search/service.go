// Package search executes knowledge searches across keyword, semantic,
// and hybrid modes.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Ham12-3/info-hunter/internal/domain"
	"github.com/Ham12-3/info-hunter/internal/domain/search/filter"
	"github.com/Ham12-3/info-hunter/internal/domain/search/mode"
	"github.com/Ham12-3/info-hunter/internal/domain/search/page"
	"github.com/Ham12-3/info-hunter/internal/domain/search/request"
	"github.com/Ham12-3/info-hunter/internal/index"
)

// Params carries raw, not-yet-validated search input from the transport.
type Params struct {
	Query   string
	Mode    mode.Mode
	Filters filter.Filters
	Page    int
	Size    int
}

// Service handles knowledge search across semantic, keyword, and hybrid modes.
type Service struct {
	searcher Searcher
	embed    Embedder
	logger   *zap.Logger
}

// New creates a search service.
func New(searcher Searcher, embed Embedder, logger *zap.Logger) *Service {
	return &Service{searcher: searcher, embed: embed, logger: logger}
}

// Search validates the input, embeds the query when the mode needs a
// vector, executes the index query, and formats the hit page.
func (s *Service) Search(ctx context.Context, p Params) (page.Response, error) {
	m := p.Mode
	if m == "" {
		m = mode.Keyword
	}
	if !m.IsValid() {
		return page.Response{}, fmt.Errorf("%w: invalid search mode %q", domain.ErrInvalidRequest, m)
	}

	var embedding []float32
	if m.NeedsEmbedding() {
		if strings.TrimSpace(p.Query) == "" {
			return page.Response{}, fmt.Errorf("%w: %s mode requires query text", domain.ErrInvalidRequest, m)
		}
		embResult, err := s.embed.Embed(ctx, p.Query)
		if err != nil {
			return page.Response{}, fmt.Errorf("vectorize query: %w", err)
		}
		embedding = embResult.Embedding
	}

	req, err := request.New(p.Query, m, p.Filters, p.Page, p.Size, embedding)
	if err != nil {
		return page.Response{}, err
	}

	q, err := index.Build(&req)
	if err != nil {
		return page.Response{}, err
	}

	resp, err := s.searcher.Search(ctx, q)
	if err != nil {
		return page.Response{}, fmt.Errorf("execute search: %w", err)
	}

	return page.Response{
		Items: s.formatHits(resp.Hits),
		Total: resp.Total,
		Page:  req.Page(),
		Size:  req.Size(),
	}, nil
}

// formatHits decodes index hits into knowledge records. A malformed hit is
// logged and skipped; the index-reported total stays as is.
func (s *Service) formatHits(hits []index.Hit) []domain.KnowledgeRecord {
	items := make([]domain.KnowledgeRecord, 0, len(hits))
	for _, hit := range hits {
		var record domain.KnowledgeRecord
		if err := json.Unmarshal(hit.Source, &record); err != nil {
			s.logger.Warn("Skipping malformed index hit",
				zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		if record.ID == "" {
			record.ID = hit.ID
		}
		record.Score = hit.Score
		record.Highlights = hit.Highlight
		record.Embedding = nil
		items = append(items, record)
	}
	return items
}
