package runner

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/traydesk/agents/llm"
	"github.com/traydesk/agents/schema"
)

// Observer provides observability callbacks around the loop's side
// effects. All methods are invoked synchronously on the loop goroutine.
type Observer interface {
	OnModelCall(ctx context.Context, agentID string, round int, req llm.ChatRequest)
	OnModelResponse(ctx context.Context, agentID string, round int, resp *llm.ChatResponse, err error)
	OnToolCall(ctx context.Context, agentID string, call schema.ToolCall)
	OnToolResult(ctx context.Context, agentID string, call schema.ToolCall, result schema.ToolResult)
}

// NoopObserver is the default no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnModelCall(ctx context.Context, agentID string, round int, req llm.ChatRequest) {
}
func (NoopObserver) OnModelResponse(ctx context.Context, agentID string, round int, resp *llm.ChatResponse, err error) {
}
func (NoopObserver) OnToolCall(ctx context.Context, agentID string, call schema.ToolCall) {}
func (NoopObserver) OnToolResult(ctx context.Context, agentID string, call schema.ToolCall, result schema.ToolResult) {
}

// LogObserver logs loop activity through zerolog.
type LogObserver struct {
	Log zerolog.Logger
}

func (o LogObserver) OnModelCall(ctx context.Context, agentID string, round int, req llm.ChatRequest) {
	o.Log.Debug().
		Str("agent", agentID).
		Int("round", round).
		Str("model", req.Model).
		Int("messages", len(req.Messages)).
		Msg("model call")
}

func (o LogObserver) OnModelResponse(ctx context.Context, agentID string, round int, resp *llm.ChatResponse, err error) {
	if err != nil {
		o.Log.Error().Str("agent", agentID).Int("round", round).Err(err).Msg("model call failed")
		return
	}
	o.Log.Debug().
		Str("agent", agentID).
		Int("round", round).
		Int("tokens", resp.Usage.TotalTokens).
		Msg("model response")
}

func (o LogObserver) OnToolCall(ctx context.Context, agentID string, call schema.ToolCall) {
	o.Log.Info().Str("agent", agentID).Str("tool", call.Name).Msg("tool call")
}

func (o LogObserver) OnToolResult(ctx context.Context, agentID string, call schema.ToolCall, result schema.ToolResult) {
	event := o.Log.Info()
	if !result.Success {
		event = o.Log.Warn().Str("error", result.Error)
	}
	event.Str("agent", agentID).Str("tool", call.Name).Bool("success", result.Success).Msg("tool result")
}
