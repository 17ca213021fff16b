package ask

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Ham12-3/info-hunter/internal/domain"
	domask "github.com/Ham12-3/info-hunter/internal/domain/ask"
)

// Synthesizer runs one generation call under rate control and binds
// citations positionally against the records that produced the prompt.
type Synthesizer struct {
	generator Generator
	limiter   Limiter
	logger    *zap.Logger
}

// NewSynthesizer creates an answer synthesizer.
func NewSynthesizer(generator Generator, limiter Limiter, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{generator: generator, limiter: limiter, logger: logger}
}

// answerPayload is the structured shape the generator is instructed to emit.
type answerPayload struct {
	Answer     string   `json:"answer"`
	Confidence *float64 `json:"confidence"`
}

// Synthesize acquires a rate limit slot, generates from the prompt, and
// validates the structured response. records must be the exact ordered
// list the prompt was composed from: citations are bound by position,
// never parsed out of the generated text.
func (s *Synthesizer) Synthesize(
	ctx context.Context, prompt string, records []domain.KnowledgeRecord,
) (domask.Result, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return domask.Result{}, fmt.Errorf("acquire generation slot: %w", err)
	}

	genResult, err := s.generator.Generate(ctx, SystemPrompt, prompt)
	if err != nil {
		return domask.Result{}, fmt.Errorf("generate answer: %w", err)
	}

	payload, err := parseAnswer(genResult.Content)
	if err != nil {
		s.logger.Error("Generator returned malformed answer payload",
			zap.Error(err), zap.String("content", truncateRunes(genResult.Content, 500)))
		return domask.Result{}, err
	}

	return domask.Result{
		Answer:     payload.Answer,
		Confidence: *payload.Confidence,
		Citations:  bindCitations(records),
	}, nil
}

// parseAnswer strictly validates the generated payload. A missing field or
// out-of-range confidence is a contract break worth surfacing, not a value
// to clamp.
func parseAnswer(content string) (answerPayload, error) {
	var payload answerPayload
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &payload); err != nil {
		return answerPayload{}, fmt.Errorf("%w: parse generated payload: %v", domain.ErrAnswerMalformed, err)
	}
	if payload.Answer == "" {
		return answerPayload{}, fmt.Errorf("%w: answer field is empty", domain.ErrAnswerMalformed)
	}
	if payload.Confidence == nil {
		return answerPayload{}, fmt.Errorf("%w: confidence field is missing", domain.ErrAnswerMalformed)
	}
	if c := *payload.Confidence; c < 0 || c > 1 {
		return answerPayload{}, fmt.Errorf("%w: confidence %v outside [0,1]", domain.ErrAnswerMalformed, c)
	}
	return payload, nil
}

// bindCitations zips numbers 1..N against records in prompt order.
func bindCitations(records []domain.KnowledgeRecord) []domask.Citation {
	citations := make([]domask.Citation, len(records))
	for i, rec := range records {
		citations[i] = domask.Citation{
			Number:     i + 1,
			Title:      rec.Title,
			SourceURL:  rec.SourceURL,
			SourceName: rec.SourceName,
		}
	}
	return citations
}

// stripCodeFences removes markdown fence lines some models wrap around
// JSON-mode output.
func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
