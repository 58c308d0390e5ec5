package monitor

import (
	"fmt"
	"io"
	"os"
)

// CLIMonitor implements the Monitor interface, providing a direct
// terminal-based visualization of every conversation turn: user messages,
// tool dispatches and assistant replies.
type CLIMonitor struct {
	writer io.Writer // The output destination, typically os.Stdout.
}

// NewCLIMonitor creates a new CLI monitor
func NewCLIMonitor() *CLIMonitor {
	return &CLIMonitor{
		writer: os.Stdout,
	}
}

// Start starts the CLI monitor
func (m *CLIMonitor) Start() error {
	fmt.Fprintln(m.writer, "----------------------------------------------------------------")
	fmt.Fprintln(m.writer, "💬 CLI Monitor Active - Turn activity will appear here")
	fmt.Fprintln(m.writer, "----------------------------------------------------------------")
	return nil
}

// Stop stops the CLI monitor
func (m *CLIMonitor) Stop() error {
	return nil
}

// OnEvent receives and displays a turn event
func (m *CLIMonitor) OnEvent(ev TurnEvent) {
	timestamp := ev.Timestamp.Format("2006-01-02 15:04:05")

	var displayMsg string
	switch ev.Kind {
	case "ASSISTANT":
		displayMsg = fmt.Sprintf("[AI] %s", ev.Content)
	case "TOOL":
		displayMsg = fmt.Sprintf("[TOOL/%s] %s", ev.Tool, ev.Content)
	default:
		displayMsg = fmt.Sprintf("[%s/%s] %s", ev.Kind, ev.ThreadID, ev.Content)
	}

	// Use gray color for timestamp
	fmt.Fprintf(m.writer, "\033[90m[%s]\033[0m %s\n", timestamp, displayMsg)
}
