package domain

import (
	"context"
	"time"
)

// CodeSnippet is a single piece of code attached to a knowledge record,
// with the prose that surrounded it at the source.
type CodeSnippet struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Context  string `json:"context,omitempty"`
}

// KnowledgeRecord is a read-only programming knowledge item as stored in the
// search index. The ingestion pipeline owns the canonical copy; this core
// only reads records back from index hits, so the struct is a plain wire
// shape, not a guarded value object.
//
// Score and Highlights exist only as part of a search response and are
// never persisted.
type KnowledgeRecord struct {
	ID              string        `json:"id"`
	SourceType      string        `json:"source_type"`
	SourceName      string        `json:"source_name"`
	SourceURL       string        `json:"source_url"`
	Title           string        `json:"title"`
	Summary         string        `json:"summary,omitempty"`
	BodyText        string        `json:"body_text,omitempty"`
	CodeSnippets    []CodeSnippet `json:"code_snippets,omitempty"`
	Tags            []string      `json:"tags,omitempty"`
	PrimaryLanguage string        `json:"primary_language,omitempty"`
	Framework       string        `json:"framework,omitempty"`
	Author          string        `json:"author,omitempty"`
	Licence         string        `json:"licence,omitempty"`
	PublishedAt     *time.Time    `json:"published_at,omitempty"`

	// Embedding is the stored document vector. Records without one are
	// excluded from semantic scoring but stay eligible for keyword search.
	Embedding []float32 `json:"embedding,omitempty"`

	// Transient, attached only while formatting an index response.
	Score      float64             `json:"_score,omitempty"`
	Highlights map[string][]string `json:"highlight,omitempty"`
}

// KnowledgeReader reads knowledge records by identifier.
type KnowledgeReader interface {
	Get(ctx context.Context, id string) (KnowledgeRecord, error)
}

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Generator is the text generation contract. The user prompt is sent with a
// fixed low temperature and a JSON response format; the raw JSON payload
// comes back as Content.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (GenerationResult, error)
}

// GenerationResult carries the generated payload and token usage.
type GenerationResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// HealthChecker verifies an external dependency's availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
