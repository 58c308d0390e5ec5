package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/pkg/knowledge"
)

type fakeRetriever struct {
	passages []knowledge.Passage
	err      error
	gotK     int
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string, k int) ([]knowledge.Passage, error) {
	f.gotK = k
	return f.passages, f.err
}

type recordingSynthesizer struct {
	chunks  []string
	sources []string
}

func (r *recordingSynthesizer) Synthesize(_ string, chunks, sources []string) string {
	r.chunks = chunks
	r.sources = sources
	return "synthesized answer"
}

func TestKnowledgeRetrieverUnavailable(t *testing.T) {
	tool := NewKnowledgeTool(nil, &recordingSynthesizer{}, 3)

	out, err := tool.Execute(context.Background(), map[string]any{"question": "What are your hours?"})
	require.NoError(t, err)
	assert.Equal(t, "Knowledge system not available. Please contact us at (555) 123-4567.", out)
}

func TestKnowledgeNoResults(t *testing.T) {
	tool := NewKnowledgeTool(&fakeRetriever{}, &recordingSynthesizer{}, 3)

	out, err := tool.Execute(context.Background(), map[string]any{"question": "Do you sell rockets?"})
	require.NoError(t, err)
	assert.Equal(t, "I don't have specific information about that. Please contact our office at (555) 123-4567 for more details.", out)
}

func TestKnowledgeRetrieverError(t *testing.T) {
	tool := NewKnowledgeTool(&fakeRetriever{err: errors.New("index offline")}, &recordingSynthesizer{}, 3)

	out, err := tool.Execute(context.Background(), map[string]any{"question": "hours"})
	require.NoError(t, err)
	assert.Contains(t, out, "Error searching knowledge base: index offline")
}

func TestKnowledgeSynthesizesWithDistinctSources(t *testing.T) {
	retriever := &fakeRetriever{passages: []knowledge.Passage{
		{Text: "We open at 9 AM.", Source: "hours.md"},
		{Text: "We close at 6 PM.", Source: "hours.md"},
		{Text: "Call us anytime.", Source: ""},
	}}
	synth := &recordingSynthesizer{}
	tool := NewKnowledgeTool(retriever, synth, 5)

	out, err := tool.Execute(context.Background(), map[string]any{"question": "What are your hours?"})
	require.NoError(t, err)
	assert.Equal(t, "synthesized answer", out)
	assert.Equal(t, 5, retriever.gotK)
	assert.Equal(t, []string{"We open at 9 AM.", "We close at 6 PM.", "Call us anytime."}, synth.chunks)
	assert.Equal(t, []string{"hours.md", "Unknown"}, synth.sources)
}

func TestKnowledgeMissingQuestion(t *testing.T) {
	tool := NewKnowledgeTool(&fakeRetriever{}, &recordingSynthesizer{}, 3)

	out, err := tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "Error searching knowledge base:")
}

func TestKnowledgeDefaultTopK(t *testing.T) {
	retriever := &fakeRetriever{passages: []knowledge.Passage{{Text: "x", Source: "a.md"}}}
	tool := NewKnowledgeTool(retriever, &recordingSynthesizer{}, 0)

	_, err := tool.Execute(context.Background(), map[string]any{"question": "q"})
	require.NoError(t, err)
	assert.Equal(t, 3, retriever.gotK)
}
