package llm

import (
	"context"

	"frontdesk/pkg/api"
)

// RunStatus is the normalized state of one reasoning job on the remote
// engine. All adapters must map their native statuses to these values.
type RunStatus string

const (
	StatusQueued         RunStatus = "queued"
	StatusInProgress     RunStatus = "in_progress"
	StatusRequiresAction RunStatus = "requires_action"
	StatusCompleted      RunStatus = "completed"
	StatusFailed         RunStatus = "failed"
	StatusCancelled      RunStatus = "cancelled"
	StatusExpired        RunStatus = "expired"
)

// TerminalFailure reports whether the engine itself ended the run
// unsuccessfully. A poll-cap timeout is a driver-side condition and is
// deliberately not part of this set.
func (s RunStatus) TerminalFailure() bool {
	switch s {
	case StatusFailed, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// ToolCallRequest is one tool invocation the engine asks for while a run
// is parked in requires_action. Arguments is the raw JSON object string
// produced by the engine.
type ToolCallRequest struct {
	CallID    string
	Name      string
	Arguments string
}

// ToolCallResult answers one ToolCallRequest. Output is always text; the
// engine has no channel for structured errors, so executors encode failure
// into the string itself.
type ToolCallResult struct {
	CallID string
	Output string
}

// RunState is a snapshot of a reasoning job. PendingCalls is populated only
// while Status is requires_action, and then holds the full batch the engine
// expects answered before it will advance.
type RunState struct {
	Status       RunStatus
	PendingCalls []ToolCallRequest
}

// Engine is the boundary to the remote reasoning service. Threads are the
// server-held conversation sessions; runs are the transient per-turn jobs
// the driver polls to completion.
type Engine interface {
	CreateThread(ctx context.Context) (string, error)
	AddUserMessage(ctx context.Context, threadID, text string) error
	// CreateRun submits a reasoning job over the thread, advertising the
	// given tools verbatim.
	CreateRun(ctx context.Context, threadID string, tools []api.ToolSpec) (string, error)
	RetrieveRun(ctx context.Context, threadID, runID string) (*RunState, error)
	// SubmitToolResults answers a full requires_action batch in one call.
	SubmitToolResults(ctx context.Context, threadID, runID string, results []ToolCallResult) error
	// LatestAssistantMessage returns the text of the most recent
	// assistant-authored message on the thread, or "" if none exists.
	LatestAssistantMessage(ctx context.Context, threadID string) (string, error)
}
