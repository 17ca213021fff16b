// Package ask orchestrates the retrieve, prompt, generate, cite pipeline
// for grounded question answering.
package ask

import (
	"fmt"
	"strings"

	"github.com/Ham12-3/info-hunter/internal/domain"
)

// SystemPrompt frames every generation request.
const SystemPrompt = "You are a helpful programming assistant that answers questions using provided sources. Always cite your sources."

const (
	maxBodyExcerptRunes = 1000
	maxCodeExcerptRunes = 300
)

// ComposePrompt renders a grounded-answer prompt. It is a pure function of
// its inputs: identical (question, records) produce byte-identical output,
// and citation numbers are exactly 1..len(records) in input order. That
// numbering is the single source of truth for citation identity.
func ComposePrompt(question string, records []domain.KnowledgeRecord) string {
	var b strings.Builder

	b.WriteString("Answer the following question using ONLY the provided sources.\n")
	b.WriteString("Every claim must be backed by at least one source citation.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString("Sources:\n")

	for i, rec := range records {
		fmt.Fprintf(&b, "\n--- Source %d ---\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", rec.Title)
		fmt.Fprintf(&b, "Source: %s\n", rec.SourceName)
		fmt.Fprintf(&b, "URL: %s\n\n", rec.SourceURL)
		b.WriteString(truncateRunes(rec.BodyText, maxBodyExcerptRunes))
		b.WriteString("\n")

		if len(rec.CodeSnippets) > 0 {
			snippet := rec.CodeSnippets[0]
			b.WriteString("\nCode snippet:\n")
			fmt.Fprintf(&b, "```%s\n%s\n```\n",
				snippet.Language, truncateRunes(snippet.Code, maxCodeExcerptRunes))
		}
	}

	b.WriteString(`
Provide your answer as a JSON object with this structure:
{
    "answer": "Your answer with bullet points. Use [1], [2], etc. for citations.",
    "confidence": 0.85
}

Rules:
- Answer must be clear and concise
- Use bullet points for clarity
- Every factual claim must include a citation like [1], [2]
- Citations refer to the source numbers above
- Confidence is a float 0.0-1.0 indicating how confident you are in the answer
- If the sources don't contain enough information, say so explicitly
- Maximum 500 words

Output ONLY valid JSON, no markdown, no explanations.`)

	return b.String()
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
