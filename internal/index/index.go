// Package index defines the structural query/response contract against the
// full-text/vector index. The contract is product-neutral JSON: a bool
// combination of must/should clauses, exact-match filters, offset/size
// pagination, sort, and optional highlighting. Adapters under this package
// translate it to a concrete index product.
package index

import (
	"context"
	"encoding/json"
)

// Indexed field names for knowledge records.
const (
	FieldTitle           = "title"
	FieldTitleAuto       = "title.autocomplete"
	FieldBody            = "body_text"
	FieldCode            = "code_snippets.code"
	FieldEmbedding       = "embedding"
	FieldPublishedAt     = "published_at"
	FieldSourceType      = "source_type"
	FieldPrimaryLanguage = "primary_language"
	FieldFramework       = "framework"
	FieldTags            = "tags"
)

// Clause is a single query clause in the index's JSON query language.
type Clause map[string]any

// BoolQuery combines clauses: must are ANDed and scored, should contribute
// additively to the score, filter are hard constraints without score impact.
type BoolQuery struct {
	Must               []Clause `json:"must,omitempty"`
	Should             []Clause `json:"should,omitempty"`
	Filter             []Clause `json:"filter,omitempty"`
	MinimumShouldMatch int      `json:"minimum_should_match,omitempty"`
}

// Query is a complete search request body.
type Query struct {
	Query     Clause     `json:"query"`
	From      int        `json:"from"`
	Size      int        `json:"size"`
	Sort      []Clause   `json:"sort,omitempty"`
	Highlight *Highlight `json:"highlight,omitempty"`
}

// Highlight requests marked-up fragments for matched fields.
type Highlight struct {
	Fields map[string]HighlightField `json:"fields"`
}

// HighlightField tunes fragment extraction for one field. Zero values leave
// the index defaults in place.
type HighlightField struct {
	FragmentSize      int `json:"fragment_size,omitempty"`
	NumberOfFragments int `json:"number_of_fragments,omitempty"`
}

// Hit is a single scored document from a search response.
type Hit struct {
	ID        string
	Score     float64
	Source    json.RawMessage
	Highlight map[string][]string
}

// Response is the raw search outcome: the index-reported total match count
// and the requested page of hits.
type Response struct {
	Total int
	Hits  []Hit
}

// Searcher dispatches a built query to the index.
type Searcher interface {
	Search(ctx context.Context, q *Query) (*Response, error)
}

// Bool wraps a BoolQuery as a query clause.
func Bool(b BoolQuery) Clause {
	return Clause{"bool": b}
}

// MatchAll matches every document.
func MatchAll() Clause {
	return Clause{"match_all": map[string]any{}}
}

// MultiMatch builds a best-fields text match over the given fields.
// Field boosts use the "field^N" syntax.
func MultiMatch(query string, fields ...string) Clause {
	return Clause{"multi_match": map[string]any{
		"query":     query,
		"fields":    fields,
		"type":      "best_fields",
		"fuzziness": "AUTO",
	}}
}

// Term builds an exact-match clause on a keyword field.
func Term(field, value string) Clause {
	return Clause{"term": map[string]any{field: value}}
}

// Terms builds an any-of exact-match clause on a keyword field.
func Terms(field string, values []string) Clause {
	return Clause{"terms": map[string]any{field: values}}
}

// RangeGTE builds a lower-bound range clause.
func RangeGTE(field string, value any) Clause {
	return Clause{"range": map[string]any{field: map[string]any{"gte": value}}}
}

// Exists builds a field-presence clause.
func Exists(field string) Clause {
	return Clause{"exists": map[string]any{"field": field}}
}

// CosineSimilarity builds a similarity-scoring clause comparing each stored
// embedding against the query vector. The +1.0 offset keeps all scores
// non-negative. Documents without an embedding are excluded from scoring.
func CosineSimilarity(field string, vector []float32) Clause {
	return Clause{"script_score": map[string]any{
		"query": Bool(BoolQuery{Filter: []Clause{Exists(field)}}),
		"script": map[string]any{
			"source": "cosineSimilarity(params.query_vector, '" + field + "') + 1.0",
			"params": map[string]any{"query_vector": vector},
		},
	}}
}

// SortDateDesc sorts by publication date descending; documents without a
// date sort last.
func SortDateDesc() Clause {
	return Clause{FieldPublishedAt: map[string]any{"order": "desc", "missing": "_last"}}
}

// SortScoreDesc sorts by relevance score descending.
func SortScoreDesc() Clause {
	return Clause{"_score": map[string]any{"order": "desc"}}
}
