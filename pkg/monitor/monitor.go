package monitor

import "time"

// TurnEvent represents one observable step of an in-flight turn.
type TurnEvent struct {
	Timestamp time.Time
	// Kind is "USER", "ASSISTANT", "TOOL" or "SIGNAL".
	Kind     string
	ThreadID string
	// Tool is set for TOOL events.
	Tool    string
	Content string
}

// Monitor receives turn activity for operator visibility.
type Monitor interface {
	// Start starts the monitor.
	Start() error

	// Stop stops the monitor.
	Stop() error

	// OnEvent receives and displays a turn event.
	OnEvent(ev TurnEvent)
}
