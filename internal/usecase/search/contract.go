package search

import (
	"context"

	"github.com/Ham12-3/info-hunter/internal/domain"
	"github.com/Ham12-3/info-hunter/internal/index"
)

// Searcher dispatches a built query to the knowledge index.
type Searcher interface {
	Search(ctx context.Context, q *index.Query) (*index.Response, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
