package ask

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Ham12-3/info-hunter/internal/domain"
)

func newTestSynthesizer(gen *mockGenerator, lim *mockLimiter) *Synthesizer {
	return NewSynthesizer(gen, lim, zap.NewNop())
}

func TestSynthesize_BindsCitationsPositionally(t *testing.T) {
	gen := &mockGenerator{result: domain.GenerationResult{
		Content: `{"answer": "Use try/except [1]. See also [7].", "confidence": 0.9}`,
	}}
	lim := &mockLimiter{}
	s := newTestSynthesizer(gen, lim)

	records := sampleRecords()
	result, err := s.Synthesize(context.Background(), "prompt", records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Citation list covers exactly the supplied records, regardless of
	// which numbers the answer text references.
	if len(result.Citations) != len(records) {
		t.Fatalf("expected %d citations, got %d", len(records), len(result.Citations))
	}
	for i, c := range result.Citations {
		if c.Number != i+1 {
			t.Fatalf("citation %d has number %d", i, c.Number)
		}
		if c.Title != records[i].Title || c.SourceURL != records[i].SourceURL || c.SourceName != records[i].SourceName {
			t.Fatalf("citation %d not bound to record %d: %+v", i, i, c)
		}
	}
	if result.Confidence != 0.9 {
		t.Fatalf("expected confidence 0.9, got %v", result.Confidence)
	}
	if lim.calls != 1 {
		t.Fatalf("expected 1 limiter acquisition, got %d", lim.calls)
	}
}

func TestSynthesize_StripsCodeFences(t *testing.T) {
	gen := &mockGenerator{result: domain.GenerationResult{
		Content: "```json\n{\"answer\": \"ok [1]\", \"confidence\": 0.5}\n```",
	}}
	s := newTestSynthesizer(gen, &mockLimiter{})

	result, err := s.Synthesize(context.Background(), "prompt", sampleRecords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Answer != "ok [1]" {
		t.Fatalf("unexpected answer: %q", result.Answer)
	}
}

func TestSynthesize_MalformedPayload(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"invalid json", `{"answer": `},
		{"missing answer", `{"confidence": 0.5}`},
		{"missing confidence", `{"answer": "x"}`},
		{"confidence above range", `{"answer": "x", "confidence": 1.5}`},
		{"confidence below range", `{"answer": "x", "confidence": -0.1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &mockGenerator{result: domain.GenerationResult{Content: tc.content}}
			s := newTestSynthesizer(gen, &mockLimiter{})

			_, err := s.Synthesize(context.Background(), "prompt", sampleRecords())
			if !errors.Is(err, domain.ErrAnswerMalformed) {
				t.Fatalf("expected ErrAnswerMalformed, got %v", err)
			}
		})
	}
}

func TestSynthesize_ZeroConfidenceValid(t *testing.T) {
	gen := &mockGenerator{result: domain.GenerationResult{
		Content: `{"answer": "The sources do not cover this.", "confidence": 0}`,
	}}
	s := newTestSynthesizer(gen, &mockLimiter{})

	result, err := s.Synthesize(context.Background(), "prompt", sampleRecords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Confidence != 0 {
		t.Fatalf("expected confidence 0, got %v", result.Confidence)
	}
}

func TestSynthesize_LimiterTimeout(t *testing.T) {
	lim := &mockLimiter{err: domain.ErrRateLimitTimeout}
	gen := &mockGenerator{}
	s := newTestSynthesizer(gen, lim)

	_, err := s.Synthesize(context.Background(), "prompt", sampleRecords())
	if !errors.Is(err, domain.ErrRateLimitTimeout) {
		t.Fatalf("expected ErrRateLimitTimeout, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("generator must not run without a slot, got %d calls", gen.calls)
	}
}

func TestSynthesize_GeneratorErrorPropagates(t *testing.T) {
	gen := &mockGenerator{err: domain.ErrProviderUnavailable}
	s := newTestSynthesizer(gen, &mockLimiter{})

	_, err := s.Synthesize(context.Background(), "prompt", sampleRecords())
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
