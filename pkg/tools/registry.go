package tools

import (
	"sync"

	"frontdesk/pkg/api"
)

// Registry acts as a central inventory for all tools available to the
// receptionist agent. Registration happens at process start; Specs is safe
// for concurrent use afterwards.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]api.Tool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]api.Tool),
	}
}

// Register adds a tool to the registry. Re-registering a name replaces the
// handler but keeps its original position.
func (r *Registry) Register(tool api.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name()]; !exists {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (api.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Specs returns the tool descriptions in registration order. The result is
// rebuilt per call but identical across calls within a process lifetime.
func (r *Registry) Specs() []api.ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]api.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		props, required := tool.Parameters()
		specs = append(specs, api.ToolSpec{
			Name:        tool.Name(),
			Description: tool.Description(),
			Properties:  props,
			Required:    required,
		})
	}
	return specs
}
