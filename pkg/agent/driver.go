package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"frontdesk/pkg/api"
	"frontdesk/pkg/config"
	"frontdesk/pkg/llm"
	"frontdesk/pkg/monitor"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FaultKind classifies why a turn could not produce a reply.
type FaultKind string

const (
	// FaultEngineTerminal means the remote engine ended the run in a
	// failed, cancelled or expired state.
	FaultEngineTerminal FaultKind = "engine_terminal"
	// FaultTimeout means the run was still alive when the poll budget
	// ran out. The run itself may still finish server-side.
	FaultTimeout FaultKind = "timeout"
	// FaultEmptyReply means the run completed but the thread holds no
	// assistant text.
	FaultEmptyReply FaultKind = "empty_reply"
)

// Fault is the error returned by Driver.HandleTurn when a turn ends
// without an assistant reply. Callers discriminate with errors.As.
type Fault struct {
	Kind   FaultKind
	Status llm.RunStatus
}

func (f *Fault) Error() string {
	switch f.Kind {
	case FaultTimeout:
		return "reasoning run did not finish within the poll budget"
	case FaultEmptyReply:
		return "reasoning run completed without an assistant reply"
	}
	return fmt.Sprintf("reasoning run ended with status %s", f.Status)
}

// Driver runs the conversation loop over a polled reasoning engine:
// append the user message, submit a run advertising the registered tools,
// poll until the run settles, and answer requires_action batches in full.
// It implements api.Agent.
type Driver struct {
	engine   llm.Engine
	registry api.ToolRegistry
	cfg      config.EngineConfig
	observer api.TurnObserver
	mon      monitor.Monitor
}

// NewDriver creates a Driver over the given engine and tool registry.
func NewDriver(engine llm.Engine, registry api.ToolRegistry, cfg config.EngineConfig) *Driver {
	if cfg.MaxPollIterations <= 0 {
		cfg.MaxPollIterations = 10
	}
	return &Driver{
		engine:   engine,
		registry: registry,
		cfg:      cfg,
	}
}

// SetObserver sets the progress observer notified while a turn is in flight.
func (d *Driver) SetObserver(o api.TurnObserver) {
	d.observer = o
}

// SetMonitor sets the activity monitor receiving turn events.
func (d *Driver) SetMonitor(m monitor.Monitor) {
	d.mon = m
}

// HandleTurn processes one conversation turn to completion.
func (d *Driver) HandleTurn(ctx context.Context, req api.TurnRequest) (*api.TurnReply, error) {
	ctx = monitor.WithTurnID(ctx, uuid.NewString())

	threadID := req.ThreadID
	if threadID == "" {
		var err error
		threadID, err = d.engine.CreateThread(ctx)
		if err != nil {
			return nil, fmt.Errorf("create thread: %w", err)
		}
		slog.InfoContext(ctx, "Opened new thread", "thread", threadID)
	}

	d.emit(monitor.TurnEvent{Kind: "USER", ThreadID: threadID, Content: req.Message})

	if err := d.engine.AddUserMessage(ctx, threadID, req.Message); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}

	runID, err := d.engine.CreateRun(ctx, threadID, d.registry.Specs())
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	d.signal(threadID, "thinking")

	pollInterval := time.Duration(d.cfg.PollIntervalMs) * time.Millisecond
	lastStatus := llm.StatusQueued
	var invocations []api.ToolInvocation

	for i := 0; i < d.cfg.MaxPollIterations; i++ {
		state, err := d.engine.RetrieveRun(ctx, threadID, runID)
		if err != nil {
			return nil, fmt.Errorf("retrieve run: %w", err)
		}
		lastStatus = state.Status

		switch {
		case state.Status == llm.StatusCompleted:
			reply, err := d.engine.LatestAssistantMessage(ctx, threadID)
			if err != nil {
				return nil, fmt.Errorf("fetch assistant reply: %w", err)
			}
			if reply == "" {
				return nil, &Fault{Kind: FaultEmptyReply, Status: state.Status}
			}
			d.emit(monitor.TurnEvent{Kind: "ASSISTANT", ThreadID: threadID, Content: reply})
			if d.observer != nil {
				d.observer.OnReply(threadID, reply)
			}
			return &api.TurnReply{
				Reply:       reply,
				ThreadID:    threadID,
				Invocations: invocations,
			}, nil

		case state.Status == llm.StatusRequiresAction:
			results := make([]llm.ToolCallResult, 0, len(state.PendingCalls))
			for _, call := range state.PendingCalls {
				output, args := d.resolveCall(ctx, call)
				inv := api.ToolInvocation{Tool: call.Name, Arguments: args}
				invocations = append(invocations, inv)
				d.emit(monitor.TurnEvent{Kind: "TOOL", ThreadID: threadID, Tool: call.Name, Content: output})
				if d.observer != nil {
					d.observer.OnToolCall(threadID, inv, output)
				}
				results = append(results, llm.ToolCallResult{CallID: call.CallID, Output: output})
			}
			if err := d.engine.SubmitToolResults(ctx, threadID, runID, results); err != nil {
				return nil, fmt.Errorf("submit tool results: %w", err)
			}

		case state.Status.TerminalFailure():
			slog.ErrorContext(ctx, "Run ended without reply", "thread", threadID, "run", runID, "status", state.Status)
			return nil, &Fault{Kind: FaultEngineTerminal, Status: state.Status}

		default:
			if err := sleepCtx(ctx, pollInterval); err != nil {
				return nil, err
			}
		}
	}

	slog.ErrorContext(ctx, "Run exceeded poll budget", "thread", threadID, "run", runID, "status", lastStatus)
	return nil, &Fault{Kind: FaultTimeout, Status: lastStatus}
}

// resolveCall executes one requested tool call and always yields output
// text, converting unknown tools, argument faults and panics into
// explanatory strings so the run keeps moving.
func (d *Driver) resolveCall(ctx context.Context, call llm.ToolCallRequest) (output string, args map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Tool execution panicked", "tool", call.Name, "error", r)
			output = "Error: Internal processing panic"
		}
	}()

	tool, ok := d.registry.Get(call.Name)
	if !ok {
		slog.ErrorContext(ctx, "Unknown tool call", "name", call.Name)
		return fmt.Sprintf("Function %s not found", call.Name), nil
	}

	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			slog.ErrorContext(ctx, "Failed to parse tool args", "name", call.Name, "error", err)
			return fmt.Sprintf("Error: Failed to parse tool arguments: %v", err), nil
		}
	}

	slog.InfoContext(ctx, "Executing tool", "name", call.Name, "args", args)
	res, err := tool.Execute(ctx, args)
	if err != nil {
		slog.ErrorContext(ctx, "Tool execution error", "name", call.Name, "error", err)
		return fmt.Sprintf("Error: Tool execution failed: %v", err), args
	}
	return res, args
}

func (d *Driver) signal(threadID, signal string) {
	d.emit(monitor.TurnEvent{Kind: "SIGNAL", ThreadID: threadID, Content: signal})
	if d.observer != nil {
		d.observer.OnSignal(threadID, signal)
	}
}

func (d *Driver) emit(ev monitor.TurnEvent) {
	if d.mon == nil {
		return
	}
	ev.Timestamp = time.Now()
	d.mon.OnEvent(ev)
}

// sleepCtx waits for the given duration or until the context is done.
func sleepCtx(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
