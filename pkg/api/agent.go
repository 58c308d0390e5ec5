package api

import (
	"context"
)

// TurnRequest is the caller-facing input for one conversation turn.
// ThreadID is empty on first contact; subsequent requests carry the id
// returned in the previous TurnReply to continue the same conversation.
type TurnRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"thread_id,omitempty"`
}

// ToolInvocation records one tool dispatch performed during a turn.
// It is recorded in invocation order regardless of whether the underlying
// executor succeeded; failure is visible only in the textual result the
// engine received, never as a missing record.
type ToolInvocation struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// TurnReply is the caller-facing output for one conversation turn.
type TurnReply struct {
	Reply       string           `json:"reply"`
	ThreadID    string           `json:"thread_id"`
	Invocations []ToolInvocation `json:"actions_performed"`
}

// Agent is the entry point for processing a single conversation turn.
type Agent interface {
	HandleTurn(ctx context.Context, req TurnRequest) (*TurnReply, error)
}

// TurnObserver receives progress notifications while a turn is in flight.
// Implementations must not block; the driver calls these inline between
// poll iterations.
type TurnObserver interface {
	// OnSignal reports a state transition hint, e.g. "thinking".
	OnSignal(threadID, signal string)
	// OnToolCall reports a dispatched tool call and its textual outcome.
	OnToolCall(threadID string, inv ToolInvocation, output string)
	// OnReply reports the final assistant reply of a turn.
	OnReply(threadID, reply string)
}
