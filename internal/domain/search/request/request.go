package request

import (
	"fmt"

	"github.com/Ham12-3/info-hunter/internal/domain"
	"github.com/Ham12-3/info-hunter/internal/domain/search/filter"
	"github.com/Ham12-3/info-hunter/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultSize    = 20
	MaxSize        = 100
)

// Request is a validated, ephemeral search request. Constructed per call and
// discarded with the response.
type Request struct {
	query      string
	searchMode mode.Mode
	filters    filter.Filters
	page       int
	size       int
	embedding  []float32
}

// New validates and normalizes search parameters.
// Defaults: mode=keyword, page=1, size=20. Semantic and hybrid modes require
// a precomputed query embedding; the caller embeds the text first.
func New(
	query string,
	m mode.Mode,
	filters filter.Filters,
	page, size int,
	embedding []float32,
) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if m == "" {
		m = mode.Keyword
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid search mode %q", domain.ErrInvalidRequest, m)
	}
	if m.NeedsEmbedding() && len(embedding) == 0 {
		return Request{}, fmt.Errorf("%w: %s mode requires a query embedding", domain.ErrInvalidRequest, m)
	}
	if m.NeedsEmbedding() && query == "" && m == mode.Hybrid {
		return Request{}, fmt.Errorf("%w: hybrid mode requires query text", domain.ErrInvalidRequest)
	}
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return Request{}, fmt.Errorf("%w: page must be >= 1, got %d", domain.ErrInvalidRequest, page)
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		return Request{}, fmt.Errorf("%w: size must be <= %d, got %d", domain.ErrInvalidRequest, MaxSize, size)
	}

	return Request{
		query:      query,
		searchMode: m,
		filters:    filters,
		page:       page,
		size:       size,
		embedding:  embedding,
	}, nil
}

// Query returns the free-text query ("" matches everything in keyword mode).
func (r *Request) Query() string { return r.query }

// Mode returns the search strategy.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// Filters returns the hard constraints.
func (r *Request) Filters() filter.Filters { return r.filters }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// Size returns the page length.
func (r *Request) Size() int { return r.size }

// Offset returns the index offset: (page-1)*size.
func (r *Request) Offset() int { return (r.page - 1) * r.size }

// Embedding returns the precomputed query embedding (nil in keyword mode).
func (r *Request) Embedding() []float32 { return r.embedding }
