// Package runner implements the agent execution loop: send context to
// the agent's backing model, parse tool-call directives out of the
// response, execute permitted tools, reinject the results, and repeat
// until the model produces a directive-free answer or the round cap
// fires. One loop instance runs to completion before the next query is
// accepted; there is no internal concurrency.
package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/traydesk/agents/config"
	"github.com/traydesk/agents/llm"
	"github.com/traydesk/agents/schema"
	"github.com/traydesk/agents/tools"
)

const (
	defaultMaxRounds     = 5
	defaultHistoryWindow = 10
)

// Config controls Runner behavior.
type Config struct {
	Provider llm.Provider
	Registry *tools.Registry
	// MaxRounds caps model round-trips per turn before force-terminating
	// with a truncated answer.
	MaxRounds int
	// HistoryWindow bounds the trailing conversation context.
	HistoryWindow int
	Observer      Observer
}

// Runner executes one query against one agent at a time.
type Runner struct {
	config Config
}

// New creates a Runner and fills default config.
func New(cfg Config) *Runner {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = defaultMaxRounds
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = defaultHistoryWindow
	}
	if cfg.Observer == nil {
		cfg.Observer = NoopObserver{}
	}
	return &Runner{config: cfg}
}

// Run executes a query with the given agent and trailing conversation
// history. It always returns a ConversationTurn; err is non-nil only when
// the model backend was unreachable, in which case the turn status is
// failed and the error message is surfaced verbatim. There are no
// automatic retries.
func (r *Runner) Run(ctx context.Context, agent *config.AgentSpec, query string, history []schema.Message) (schema.ConversationTurn, error) {
	turn := schema.NewConversationTurn(query, agent.ID)

	messages := r.buildInitialMessages(agent, query, history)
	lastText := ""

	for round := 1; round <= r.config.MaxRounds; round++ {
		req := llm.ChatRequest{
			Model:       agent.Model,
			Messages:    messages,
			Temperature: agent.Temperature,
		}

		r.config.Observer.OnModelCall(ctx, agent.ID, round, req)
		resp, err := r.config.Provider.Chat(ctx, req)
		r.config.Observer.OnModelResponse(ctx, agent.ID, round, resp, err)
		if err != nil {
			turn.Status = schema.TurnFailed
			turn.Err = err.Error()
			return turn, err
		}

		calls := ParseDirectives(resp.Content)
		if len(calls) == 0 {
			turn.Status = schema.TurnDone
			turn.FinalResponse = resp.Content
			return turn, nil
		}

		lastText = resp.Content
		messages = append(messages, schema.Message{Role: schema.RoleAssistant, Content: resp.Content})

		results := r.executeDirectives(ctx, agent, calls, &turn)
		messages = append(messages, schema.Message{
			Role:    schema.RoleUser,
			Content: synthesisPrompt(query, results),
		})
	}

	// Round cap reached with directives still pending: keep the last
	// available text instead of looping forever.
	turn.Status = schema.TurnTruncated
	turn.FinalResponse = lastText
	return turn, nil
}

// executeDirectives runs each directive in the order it appeared in the
// model text. A tool outside the agent's allowed set yields a synthesized
// failure without touching the registry.
func (r *Runner) executeDirectives(ctx context.Context, agent *config.AgentSpec, calls []schema.ToolCall, turn *schema.ConversationTurn) []schema.ToolResult {
	results := make([]schema.ToolResult, 0, len(calls))
	for _, call := range calls {
		r.config.Observer.OnToolCall(ctx, agent.ID, call)

		var result schema.ToolResult
		if !agent.Allows(call.Name) {
			result = schema.ErrorResult(schema.ErrToolNotPermitted.Error())
		} else {
			result = r.config.Registry.Invoke(ctx, call.Name, call.Params)
		}

		r.config.Observer.OnToolResult(ctx, agent.ID, call, result)
		turn.ToolCalls = append(turn.ToolCalls, schema.ToolCallRecord{Call: call, Result: result})
		results = append(results, result)
	}
	return results
}

func (r *Runner) buildInitialMessages(agent *config.AgentSpec, query string, history []schema.Message) []schema.Message {
	history = trimHistory(history, r.config.HistoryWindow)

	messages := make([]schema.Message, 0, len(history)+2)
	messages = append(messages, schema.Message{
		Role:    schema.RoleSystem,
		Content: r.buildSystemPrompt(agent),
	})
	messages = append(messages, history...)
	messages = append(messages, schema.Message{Role: schema.RoleUser, Content: query})
	return messages
}

// buildSystemPrompt advertises the agent's role, its permitted tools, and
// the directive syntax the parser understands.
func (r *Runner) buildSystemPrompt(agent *config.AgentSpec) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a specialized AI assistant for: %s\n\n", agent.Description))

	if len(agent.Tools) > 0 {
		sb.WriteString("You have access to the following tools:\n")
		for _, name := range agent.Tools {
			if tool, ok := r.config.Registry.Get(name); ok {
				sb.WriteString(fmt.Sprintf("- %s: %s\n", name, tool.Description()))
			} else {
				sb.WriteString(fmt.Sprintf("- %s\n", name))
			}
		}
		sb.WriteString("\nTo use a tool, output a JSON block in this format:\n")
		sb.WriteString("```tool\n")
		sb.WriteString(`{"tool": "tool_name", "params": {"param1": "value1"}}` + "\n")
		sb.WriteString("```\n\n")
		sb.WriteString("You can call multiple tools by outputting multiple tool blocks.\n")
		sb.WriteString("After using tools, explain the results to the user in natural language.\n\n")
	}

	sb.WriteString("Be helpful, concise, and accurate in your responses.")
	return sb.String()
}

// synthesisPrompt folds all tool results from one model response into a
// single follow-up message so the model can incorporate them.
func synthesisPrompt(query string, results []schema.ToolResult) string {
	var sb strings.Builder
	sb.WriteString("Based on the tool results below, provide a natural language response to the user's request.\n\n")
	sb.WriteString(fmt.Sprintf("User request: %s\n\n", query))
	sb.WriteString("Tool results:\n")
	for i, result := range results {
		sb.WriteString(fmt.Sprintf("\nTool %d: %s\n", i+1, result.JSON()))
	}
	sb.WriteString("\nProvide a clear, helpful response based on these results:")
	return sb.String()
}

func trimHistory(history []schema.Message, window int) []schema.Message {
	if window <= 0 || len(history) <= window {
		return history
	}
	return history[len(history)-window:]
}
