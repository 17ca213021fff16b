package index

import (
	"fmt"
	"time"

	"github.com/Ham12-3/info-hunter/internal/domain"
	"github.com/Ham12-3/info-hunter/internal/domain/search/filter"
	"github.com/Ham12-3/info-hunter/internal/domain/search/mode"
	"github.com/Ham12-3/info-hunter/internal/domain/search/request"
)

// Build translates a validated search request into an index query.
//
// Keyword mode ranks recency first: programming knowledge decays, so the
// primary sort key is publication date descending, with relevance breaking
// ties. Semantic and hybrid modes rank by score — a similarity ordering is
// the whole point there.
func Build(req *request.Request) (*Query, error) {
	if !req.Mode().IsValid() {
		return nil, fmt.Errorf("%w: invalid search mode %q", domain.ErrInvalidRequest, req.Mode())
	}
	if req.Mode().NeedsEmbedding() && len(req.Embedding()) == 0 {
		return nil, fmt.Errorf("%w: %s mode requires a query embedding", domain.ErrInvalidRequest, req.Mode())
	}

	var b BoolQuery
	b.Filter = filterClauses(req.Filters())

	highlight := false

	switch req.Mode() {
	case mode.Keyword:
		if req.Query() != "" {
			b.Must = append(b.Must, keywordClause(req.Query()))
			highlight = true
		} else {
			b.Must = append(b.Must, MatchAll())
		}
	case mode.Semantic:
		b.Must = append(b.Must, CosineSimilarity(FieldEmbedding, req.Embedding()))
	case mode.Hybrid:
		// Alternative scoring paths: a record matching either clause
		// contributes, and matching both sums the contributions.
		b.Should = append(b.Should,
			keywordClause(req.Query()),
			CosineSimilarity(FieldEmbedding, req.Embedding()),
		)
		b.MinimumShouldMatch = 1
		highlight = true
	}

	q := &Query{
		Query: Bool(b),
		From:  req.Offset(),
		Size:  req.Size(),
		Sort:  sortOrder(req.Mode()),
	}
	if highlight && req.Query() != "" {
		q.Highlight = highlightSpec()
	}
	return q, nil
}

// keywordClause is the shared full-text clause: title is boosted over body
// text and code content, with the edge-ngram title subfield catching
// prefix matches at a lower boost.
func keywordClause(query string) Clause {
	return MultiMatch(query, FieldTitle+"^3", FieldTitleAuto+"^2", FieldBody, FieldCode)
}

func filterClauses(f filter.Filters) []Clause {
	if f.IsEmpty() {
		return nil
	}
	var clauses []Clause
	if f.SourceType() != "" {
		clauses = append(clauses, Term(FieldSourceType, f.SourceType()))
	}
	if f.PrimaryLanguage() != "" {
		clauses = append(clauses, Term(FieldPrimaryLanguage, f.PrimaryLanguage()))
	}
	if f.Framework() != "" {
		clauses = append(clauses, Term(FieldFramework, f.Framework()))
	}
	if len(f.Tags()) > 0 {
		clauses = append(clauses, Terms(FieldTags, f.Tags()))
	}
	if f.PublishedAfter() != nil {
		clauses = append(clauses, RangeGTE(FieldPublishedAt, f.PublishedAfter().UTC().Format(time.RFC3339)))
	}
	return clauses
}

func sortOrder(m mode.Mode) []Clause {
	if m == mode.Keyword {
		return []Clause{SortDateDesc(), SortScoreDesc()}
	}
	return []Clause{SortScoreDesc()}
}

func highlightSpec() *Highlight {
	return &Highlight{Fields: map[string]HighlightField{
		FieldTitle: {},
		FieldBody:  {FragmentSize: 150, NumberOfFragments: 2},
		FieldCode:  {FragmentSize: 200, NumberOfFragments: 1},
	}}
}
