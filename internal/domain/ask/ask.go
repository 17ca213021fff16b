// Package ask holds the ephemeral result types of the question-answering flow.
package ask

// Citation binds an answer's bracketed reference number to the source record
// that produced it. Numbers are 1-based and follow prompt-insertion order;
// they are never reconstructed from generated text.
type Citation struct {
	Number     int    `json:"number"`
	Title      string `json:"title"`
	SourceURL  string `json:"source_url"`
	SourceName string `json:"source_name"`
}

// Result is the outcome of one ask request. Citations always cover exactly
// the records supplied to the generation step, regardless of which numbers
// the answer text references.
type Result struct {
	Answer     string     `json:"answer"`
	Confidence float64    `json:"confidence"`
	Citations  []Citation `json:"citations"`
}
