package tools

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"frontdesk/pkg/api"
	"frontdesk/pkg/knowledge"
)

// KnowledgeTool answers questions from the company knowledge base.
// A nil retriever means the subsystem is down; the tool degrades to the
// contact fallback instead of failing the turn.
type KnowledgeTool struct {
	retriever   knowledge.Retriever
	synthesizer knowledge.Synthesizer
	topK        int
	validator   *validator.Validate
}

type knowledgeInput struct {
	Question string `json:"question" validate:"required"`
}

func NewKnowledgeTool(retriever knowledge.Retriever, synthesizer knowledge.Synthesizer, topK int) *KnowledgeTool {
	if topK <= 0 {
		topK = 3
	}
	return &KnowledgeTool{
		retriever:   retriever,
		synthesizer: synthesizer,
		topK:        topK,
		validator:   validator.New(),
	}
}

func (t *KnowledgeTool) Name() string { return "search_knowledge" }

func (t *KnowledgeTool) Description() string {
	return "Search the company knowledge base for information about services, policies, etc."
}

func (t *KnowledgeTool) Parameters() (map[string]api.Param, []string) {
	return map[string]api.Param{
		"question": {Type: "string", Description: "Question to search in the knowledge base"},
	}, []string{"question"}
}

func (t *KnowledgeTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var input knowledgeInput
	if err := decodeArgs(args, t.validator, &input); err != nil {
		return fmt.Sprintf("Error searching knowledge base: %v", err), nil
	}

	if t.retriever == nil {
		return fmt.Sprintf("Knowledge system not available. Please contact us at %s.", officePhone), nil
	}

	passages, err := t.retriever.Retrieve(ctx, input.Question, t.topK)
	if err != nil {
		return fmt.Sprintf("Error searching knowledge base: %v", err), nil
	}
	if len(passages) == 0 {
		return fmt.Sprintf("I don't have specific information about that. Please contact our office at %s for more details.", officePhone), nil
	}

	chunks := make([]string, 0, len(passages))
	seen := make(map[string]bool)
	var sources []string
	for _, p := range passages {
		chunks = append(chunks, p.Text)
		source := p.Source
		if source == "" {
			source = "Unknown"
		}
		if !seen[source] {
			seen[source] = true
			sources = append(sources, source)
		}
	}

	return t.synthesizer.Synthesize(input.Question, chunks, sources), nil
}
