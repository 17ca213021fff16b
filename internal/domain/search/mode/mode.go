package mode

// Mode is the search strategy.
type Mode string

// Search mode constants.
const (
	// Keyword ranks by full-text match over title, body and code.
	Keyword Mode = "keyword"
	// Semantic ranks by cosine similarity against the stored embedding.
	Semantic Mode = "semantic"
	// Hybrid combines keyword and semantic relevance into one score.
	Hybrid Mode = "hybrid"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Keyword || m == Semantic || m == Hybrid
}

// NeedsEmbedding reports whether the mode requires a query embedding.
func (m Mode) NeedsEmbedding() bool {
	return m == Semantic || m == Hybrid
}
