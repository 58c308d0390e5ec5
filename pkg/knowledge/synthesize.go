package knowledge

import (
	"fmt"
	"strings"
)

// fallbackAnswer is returned when nothing relevant was retrieved.
const fallbackAnswer = "I don't have information about that topic. Please contact our office at (555) 123-4567 for more details."

// KeywordSynthesizer produces receptionist answers from retrieved passages
// using keyword-matched templates, falling back to a trimmed excerpt of the
// retrieved context. It keeps answers short and always points at the office
// contact when uncertain.
type KeywordSynthesizer struct{}

func NewKeywordSynthesizer() *KeywordSynthesizer {
	return &KeywordSynthesizer{}
}

func (s *KeywordSynthesizer) Synthesize(question string, chunks []string, sources []string) string {
	if len(chunks) == 0 {
		return fallbackAnswer
	}

	if len(chunks) > 3 {
		chunks = chunks[:3]
	}
	context := strings.Join(chunks, "\n\n")
	q := strings.ToLower(question)

	switch {
	case containsAny(q, "hours", "time", "open", "closed"):
		lower := strings.ToLower(context)
		if strings.Contains(lower, "hours") || strings.Contains(lower, "monday") {
			return "Our business hours are Monday-Friday 8:00 AM - 6:00 PM PST, Saturday 9:00 AM - 2:00 PM PST, and we're closed on Sundays. You can reach us at (555) 123-4567."
		}

	case containsAny(q, "contact", "phone", "email", "call"):
		return "You can contact us at (555) 123-4567 or email info@techcorpsolutions.com. Our main office is located in San Francisco with branches in New York, Austin, and Seattle."

	case containsAny(q, "services", "what do you do", "offerings"):
		return "We offer cloud migration, AI & machine learning solutions, digital transformation, cybersecurity, and DevOps consulting. We'd be happy to discuss how we can help with your specific needs."

	case containsAny(q, "pricing", "cost", "price", "expensive"):
		return "Our pricing depends on project scope and complexity. We offer flexible models including fixed-price projects and hourly consulting. We provide a complimentary 1-hour consultation to discuss your needs."

	case containsAny(q, "meeting", "schedule", "appointment"):
		return "You can schedule a meeting by calling (555) 123-4567, emailing info@techcorpsolutions.com, or using our online booking system. We offer free initial consultations."
	}

	return genericAnswer(context)
}

// genericAnswer builds a short excerpt from the first sentences of the
// retrieved context.
func genericAnswer(context string) string {
	sentences := strings.Split(context, ".")
	var relevant []string
	for _, s := range sentences {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			relevant = append(relevant, trimmed)
		}
		if len(relevant) == 4 {
			break
		}
	}

	answer := strings.Join(relevant, ". ")
	if len(answer) > 200 {
		answer = answer[:200] + "..."
	}

	return fmt.Sprintf("%s. For more detailed information, please contact us at (555) 123-4567.", answer)
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
