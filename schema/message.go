package schema

import (
	"encoding/json"
	"time"
)

// Role defines message roles.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Message represents a chat message exchanged with a model backend.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// ToolCall is one directive parsed from a model response.
type ToolCall struct {
	ID     string         `json:"id"`
	Name   string         `json:"tool"`
	Params map[string]any `json:"params,omitempty"`
}

// ToolResult is the outcome of invoking (or refusing to invoke) a tool.
// Exactly one of Data and Error is meaningful, keyed by Success.
type ToolResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON renders the result for injection into model context.
func (r ToolResult) JSON() string {
	b, err := json.Marshal(r)
	if err != nil {
		return `{"success":false,"error":"unserializable tool result"}`
	}
	return string(b)
}

// SuccessResult wraps data in a successful result.
func SuccessResult(data any) ToolResult {
	return ToolResult{Success: true, Data: data}
}

// ErrorResult wraps an error message in a failed result.
func ErrorResult(msg string) ToolResult {
	return ToolResult{Success: false, Error: msg}
}
