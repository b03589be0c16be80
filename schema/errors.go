package schema

import (
	"errors"
	"fmt"
)

var (
	// Tool-related errors
	ErrToolNotFound     = errors.New("tool not found")
	ErrToolNotPermitted = errors.New("tool not permitted for this agent")
	ErrToolTimeout      = errors.New("tool execution timeout")

	// Agent/config errors
	ErrAgentNotFound = errors.New("agent not found")

	// Model-related errors
	ErrModelUnreachable = errors.New("model backend unreachable")
)

// ConfigError is fatal at load time: a malformed or inconsistent
// configuration document must never reach first use.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func NewConfigError(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Err: err}
}

// ToolError annotates a tool-boundary failure with the tool name and
// operation. It is converted to a ToolResult before reaching the loop.
type ToolError struct {
	ToolName string
	Op       string
	Err      error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s: %s: %v", e.ToolName, e.Op, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

func NewToolError(toolName, op string, err error) *ToolError {
	return &ToolError{ToolName: toolName, Op: op, Err: err}
}

// ModelError is fatal per turn: the loop transitions to failed and the
// message is surfaced verbatim to the caller. No automatic retries.
type ModelError struct {
	Model string
	Op    string
	Err   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %s: %s: %v", e.Model, e.Op, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

func NewModelError(model, op string, err error) *ModelError {
	return &ModelError{Model: model, Op: op, Err: err}
}
