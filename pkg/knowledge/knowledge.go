package knowledge

import "context"

// Passage is one retrieved knowledge-base excerpt with its originating
// document name.
type Passage struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Retriever finds the passages most relevant to a question. A nil Retriever
// means the knowledge subsystem is unavailable and callers must degrade to
// their contact fallback.
type Retriever interface {
	Retrieve(ctx context.Context, question string, k int) ([]Passage, error)
}

// Synthesizer turns retrieved passages into a single receptionist answer.
// Implementations are swappable; the default is keyword-template based.
type Synthesizer interface {
	Synthesize(question string, chunks []string, sources []string) string
}
