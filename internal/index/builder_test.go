package index

import (
	"errors"
	"testing"
	"time"

	"github.com/Ham12-3/info-hunter/internal/domain"
	"github.com/Ham12-3/info-hunter/internal/domain/search/filter"
	"github.com/Ham12-3/info-hunter/internal/domain/search/mode"
	"github.com/Ham12-3/info-hunter/internal/domain/search/request"
)

func mustRequest(t *testing.T, query string, m mode.Mode, f filter.Filters, page, size int, emb []float32) *request.Request {
	t.Helper()
	r, err := request.New(query, m, f, page, size, emb)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}

func boolQuery(t *testing.T, q *Query) BoolQuery {
	t.Helper()
	b, ok := q.Query["bool"].(BoolQuery)
	if !ok {
		t.Fatalf("query root is not a bool query: %#v", q.Query)
	}
	return b
}

func TestBuild_KeywordWithText(t *testing.T) {
	req := mustRequest(t, "async python", mode.Keyword, filter.Filters{}, 2, 20, nil)

	q, err := Build(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.From != 20 || q.Size != 20 {
		t.Errorf("pagination from=%d size=%d, want 20/20", q.From, q.Size)
	}

	b := boolQuery(t, q)
	if len(b.Must) != 1 {
		t.Fatalf("expected 1 must clause, got %d", len(b.Must))
	}
	mm, ok := b.Must[0]["multi_match"].(map[string]any)
	if !ok {
		t.Fatalf("must clause is not multi_match: %#v", b.Must[0])
	}
	fields, _ := mm["fields"].([]string)
	want := []string{FieldTitle + "^3", FieldTitleAuto + "^2", FieldBody, FieldCode}
	if len(fields) != len(want) {
		t.Fatalf("multi_match fields = %v, want %v", fields, want)
	}
	for i, f := range want {
		if fields[i] != f {
			t.Errorf("multi_match field %d = %q, want %q", i, fields[i], f)
		}
	}
	if len(b.Should) != 0 {
		t.Errorf("keyword mode must not emit should clauses")
	}

	if q.Highlight == nil {
		t.Fatal("expected highlighting for non-empty query text")
	}
	for _, f := range []string{FieldTitle, FieldBody, FieldCode} {
		if _, ok := q.Highlight.Fields[f]; !ok {
			t.Errorf("missing highlight field %q", f)
		}
	}

	// Recency is the primary ranking signal in keyword mode.
	if len(q.Sort) != 2 {
		t.Fatalf("expected 2 sort keys, got %d", len(q.Sort))
	}
	if _, ok := q.Sort[0][FieldPublishedAt]; !ok {
		t.Errorf("primary sort key must be publication date, got %#v", q.Sort[0])
	}
	if _, ok := q.Sort[1]["_score"]; !ok {
		t.Errorf("secondary sort key must be score, got %#v", q.Sort[1])
	}
}

func TestBuild_KeywordEmptyQueryMatchesAll(t *testing.T) {
	req := mustRequest(t, "", mode.Keyword, filter.Filters{}, 1, 20, nil)

	q, err := Build(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := boolQuery(t, q)
	if _, ok := b.Must[0]["match_all"]; !ok {
		t.Errorf("empty query should match all, got %#v", b.Must[0])
	}
	if q.Highlight != nil {
		t.Error("no highlighting without query text")
	}
}

func TestBuild_Semantic(t *testing.T) {
	emb := []float32{0.1, 0.2, 0.3}
	req := mustRequest(t, "q", mode.Semantic, filter.Filters{}, 1, 10, emb)

	q, err := Build(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := boolQuery(t, q)
	if len(b.Must) != 1 {
		t.Fatalf("expected 1 must clause, got %d", len(b.Must))
	}
	if _, ok := b.Must[0]["script_score"]; !ok {
		t.Errorf("semantic must clause is not script_score: %#v", b.Must[0])
	}
	if q.Highlight != nil {
		t.Error("semantic mode must not request highlighting")
	}
	if len(q.Sort) != 1 {
		t.Fatalf("expected score-only sort, got %#v", q.Sort)
	}
}

func TestBuild_Hybrid(t *testing.T) {
	emb := []float32{0.1, 0.2}
	req := mustRequest(t, "goroutine leak", mode.Hybrid, filter.Filters{}, 1, 5, emb)

	q, err := Build(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := boolQuery(t, q)
	if len(b.Should) != 2 {
		t.Fatalf("expected 2 should clauses, got %d", len(b.Should))
	}
	if _, ok := b.Should[0]["multi_match"]; !ok {
		t.Errorf("first should clause is not multi_match: %#v", b.Should[0])
	}
	if _, ok := b.Should[1]["script_score"]; !ok {
		t.Errorf("second should clause is not script_score: %#v", b.Should[1])
	}
	if b.MinimumShouldMatch != 1 {
		t.Errorf("minimum_should_match = %d, want 1", b.MinimumShouldMatch)
	}
	if q.Highlight == nil {
		t.Error("hybrid keyword component should keep highlighting")
	}
}

func TestBuild_Filters(t *testing.T) {
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f, err := filter.New("github", "Python", "Django", []string{"async"}, &after)
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}
	req := mustRequest(t, "orm", mode.Keyword, f, 1, 20, nil)

	q, err := Build(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := boolQuery(t, q)
	if len(b.Filter) != 5 {
		t.Fatalf("expected 5 filter clauses, got %d: %#v", len(b.Filter), b.Filter)
	}
	// Filters are hard constraints, never scored clauses.
	if len(b.Should) != 0 {
		t.Error("filters leaked into should clauses")
	}
}

func TestBuild_InvalidModeOnZeroValueRequest(t *testing.T) {
	var req request.Request
	if _, err := Build(&req); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}
