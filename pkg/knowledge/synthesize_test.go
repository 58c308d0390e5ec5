package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSynthesizeEmptyChunks(t *testing.T) {
	s := NewKeywordSynthesizer()
	got := s.Synthesize("what are your hours?", nil, nil)
	assert.Equal(t, fallbackAnswer, got)
}

func TestSynthesizeKeywordTemplates(t *testing.T) {
	s := NewKeywordSynthesizer()
	chunks := []string{"Our business hours are Monday through Friday."}

	tests := []struct {
		name     string
		question string
		want     string
	}{
		{"hours", "When are you open?", "business hours"},
		{"contact", "How do I contact you?", "(555) 123-4567"},
		{"services", "What services do you offer?", "cloud migration"},
		{"pricing", "How much does it cost?", "pricing depends"},
		{"scheduling", "Can I schedule a meeting?", "schedule a meeting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Synthesize(tt.question, chunks, []string{"faq.md"})
			assert.Contains(t, strings.ToLower(got), strings.ToLower(tt.want))
		})
	}
}

func TestSynthesizeGenericTruncates(t *testing.T) {
	s := NewKeywordSynthesizer()
	long := strings.Repeat("An unusually verbose fragment of office documentation text. ", 20)
	got := s.Synthesize("tell me about the building", []string{long}, []string{"doc.md"})

	assert.Contains(t, got, "(555) 123-4567")
	// Excerpt portion is capped at 200 chars plus the ellipsis.
	assert.Contains(t, got, "...")
}

func TestSynthesizeUsesTopThreeChunks(t *testing.T) {
	s := NewKeywordSynthesizer()
	chunks := []string{"First fact", "Second fact", "Third fact", "Fourth fact"}
	got := s.Synthesize("anything else", chunks, nil)

	assert.Contains(t, got, "First fact")
	assert.NotContains(t, got, "Fourth fact")
}
