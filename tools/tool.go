// Package tools holds the tool registry and the built-in capabilities
// agents can invoke: file I/O under a workspace root, web search and
// fetch, document extraction, calendar CRUD, and timed code execution.
package tools

import (
	"context"
	"fmt"
)

// Tool represents a named callable capability.
type Tool interface {
	// Name returns the tool's name.
	Name() string

	// Description returns what the tool does.
	Description() string

	// Schema returns the parameter schema, validated before invocation.
	Schema() *ToolSchema

	// Execute runs the tool with given parameters.
	Execute(ctx context.Context, params map[string]any) (any, error)
}

// ToolSchema defines the parameter schema for a tool.
type ToolSchema struct {
	Type       string                     `json:"type"`
	Properties map[string]*PropertySchema `json:"properties"`
	Required   []string                   `json:"required"`
}

// PropertySchema defines a property in the tool schema.
type PropertySchema struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Executor is a function that executes a tool.
type Executor func(ctx context.Context, params map[string]any) (any, error)

// BaseTool provides a basic implementation of the Tool interface.
type BaseTool struct {
	name        string
	description string
	schema      *ToolSchema
	executor    Executor
}

// NewTool creates a new tool with the given configuration.
func NewTool(name, description string, schema *ToolSchema, executor Executor) Tool {
	if schema == nil {
		schema = &ToolSchema{Type: "object", Properties: map[string]*PropertySchema{}}
	}
	return &BaseTool{
		name:        name,
		description: description,
		schema:      schema,
		executor:    executor,
	}
}

func (t *BaseTool) Name() string        { return t.name }
func (t *BaseTool) Description() string { return t.description }
func (t *BaseTool) Schema() *ToolSchema { return t.schema }

func (t *BaseTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	return t.executor(ctx, params)
}

// Helper constructors for common property schemas.

// StringProperty creates a string property schema.
func StringProperty(description string) *PropertySchema {
	return &PropertySchema{Type: "string", Description: description}
}

// NumberProperty creates a number property schema.
func NumberProperty(description string) *PropertySchema {
	return &PropertySchema{Type: "number", Description: description}
}

// BooleanProperty creates a boolean property schema.
func BooleanProperty(description string) *PropertySchema {
	return &PropertySchema{Type: "boolean", Description: description}
}

// EnumProperty creates a string enum property schema.
func EnumProperty(description string, values []string) *PropertySchema {
	return &PropertySchema{Type: "string", Description: description, Enum: values}
}

// ObjectSchema assembles a ToolSchema from properties and required names.
func ObjectSchema(props map[string]*PropertySchema, required []string) *ToolSchema {
	return &ToolSchema{Type: "object", Properties: props, Required: required}
}

// ValidateParams checks required keys and property types against the schema.
func ValidateParams(s *ToolSchema, params map[string]any) error {
	if s == nil {
		return nil
	}
	for _, name := range s.Required {
		if _, ok := params[name]; !ok {
			return fmt.Errorf("missing required parameter %q", name)
		}
	}
	for name, value := range params {
		prop, ok := s.Properties[name]
		if !ok || value == nil {
			continue
		}
		if err := checkType(name, prop, value); err != nil {
			return err
		}
	}
	return nil
}

func checkType(name string, prop *PropertySchema, value any) error {
	switch prop.Type {
	case "string":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("parameter %q must be a string", name)
		}
		if len(prop.Enum) > 0 {
			for _, allowed := range prop.Enum {
				if s == allowed {
					return nil
				}
			}
			return fmt.Errorf("parameter %q must be one of %v", name, prop.Enum)
		}
	case "number":
		switch value.(type) {
		case float64, int, int64:
		default:
			return fmt.Errorf("parameter %q must be a number", name)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("parameter %q must be a boolean", name)
		}
	}
	return nil
}

// Typed accessors for loosely-typed parameter maps. JSON numbers arrive as
// float64, so the numeric accessor folds integer kinds too.

func stringParam(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return fallback
}

func intParam(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return fallback
}

func boolParam(params map[string]any, key string, fallback bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return fallback
}
