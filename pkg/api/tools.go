package api

import (
	"context"
)

// Tool defines the structural interface for any capability that the
// receptionist agent can execute. It includes metadata for the reasoning
// engine (JSON Schema) and the execution logic itself.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON-schema property map describing the
	// tool's arguments, plus the list of required parameter names.
	Parameters() (props map[string]Param, required []string)
	// Execute performs the actual tool logic using the provided argument map.
	// The returned string is the textual outcome handed back to the engine;
	// executors convert their own faults into explanatory text, so a non-nil
	// error indicates a programming fault, not a user-facing condition.
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// Param describes a single tool parameter for schema generation.
type Param struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ToolSpec is the wire-ready description of one tool, supplied verbatim
// to the reasoning engine at run submission.
type ToolSpec struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Properties  map[string]Param `json:"properties"`
	Required    []string         `json:"required,omitempty"`
}

// ToolRegistry defines the interface for managing and accessing tools.
type ToolRegistry interface {
	Register(tool Tool)
	Get(name string) (Tool, bool)
	// Specs returns the tool descriptions in registration order.
	// The result is stable across calls within a process lifetime.
	Specs() []ToolSpec
}
