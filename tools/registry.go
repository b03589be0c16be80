package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/traydesk/agents/schema"
)

// Registry stores registered tools. Reads are lock-protected although the
// registry is effectively read-only after process start.
type Registry struct {
	tools map[string]Tool
	mutex sync.RWMutex
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool.
func (r *Registry) Register(tool Tool) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	name := tool.Name()
	if name == "" {
		return schema.NewToolError(name, "register", fmt.Errorf("tool name cannot be empty"))
	}
	if _, exists := r.tools[name]; exists {
		return schema.NewToolError(name, "register", fmt.Errorf("tool already registered"))
	}
	r.tools[name] = tool
	return nil
}

// Get retrieves a tool.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

// Has reports whether a tool exists.
func (r *Registry) Has(name string) bool {
	_, exists := r.Get(name)
	return exists
}

// Names returns registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.tools)
}

// Invoke validates parameters and runs the named tool. Every failure,
// including an unknown tool, bad parameters, or a panic inside the tool,
// is converted to a failed ToolResult so the execution loop continues
// uninterrupted. Nothing is raised past this boundary.
func (r *Registry) Invoke(ctx context.Context, name string, params map[string]any) (result schema.ToolResult) {
	tool, exists := r.Get(name)
	if !exists {
		return schema.ErrorResult(schema.NewToolError(name, "invoke", schema.ErrToolNotFound).Error())
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = schema.ErrorResult(fmt.Sprintf("tool %s: panic: %v", name, rec))
		}
	}()

	if params == nil {
		params = map[string]any{}
	}
	if err := ValidateParams(tool.Schema(), params); err != nil {
		return schema.ErrorResult(schema.NewToolError(name, "validate", err).Error())
	}

	data, err := tool.Execute(ctx, params)
	if err != nil {
		return schema.ErrorResult(err.Error())
	}
	return schema.SuccessResult(data)
}
