package bot

import (
	"fmt"
	"sync"
)

// Registry maps tool names to their definitions and handlers. It is populated
// once at start-up and read concurrently afterwards.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	tools    map[string]Tool
	handlers map[string]ToolHandler
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:    make(map[string]Tool),
		handlers: make(map[string]ToolHandler),
	}
}

// Register adds a tool. It fails if the name is empty, the handler is nil or
// the name is already taken.
func (r *Registry) Register(tool Tool, h ToolHandler) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name is empty: %w", ErrValidation)
	}
	if h == nil {
		return fmt.Errorf("tool %q has no handler: %w", tool.Name, ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[tool.Name]; ok {
		return fmt.Errorf("%s: %w", tool.Name, ErrDuplicateTool)
	}
	r.order = append(r.order, tool.Name)
	r.tools[tool.Name] = tool
	r.handlers[tool.Name] = h
	return nil
}

// Get returns the handler registered under name.
func (r *Registry) Get(name string) (ToolHandler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownTool)
	}
	return h, nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Definitions returns every registered tool in registration order.
func (r *Registry) Definitions() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Tool, len(r.order))
	for i, name := range r.order {
		defs[i] = r.tools[name]
	}
	return defs
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
