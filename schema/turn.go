package schema

import (
	"time"

	"github.com/google/uuid"
)

// TurnStatus describes how an execution-loop run ended.
type TurnStatus string

const (
	// TurnDone means the model produced a directive-free final answer.
	TurnDone TurnStatus = "done"
	// TurnTruncated means the iteration cap fired; the last available text
	// is kept as the final answer.
	TurnTruncated TurnStatus = "truncated"
	// TurnFailed means the model backend was unreachable mid-turn.
	TurnFailed TurnStatus = "failed"
)

// ToolCallRecord pairs a directive with its result, in execution order.
type ToolCallRecord struct {
	Call   ToolCall   `json:"call"`
	Result ToolResult `json:"result"`
}

// ConversationTurn is one complete query-to-final-answer cycle.
type ConversationTurn struct {
	ID            string           `json:"id"`
	Query         string           `json:"query"`
	AgentID       string           `json:"agent_id"`
	ToolCalls     []ToolCallRecord `json:"tool_calls,omitempty"`
	FinalResponse string           `json:"final_response"`
	Status        TurnStatus       `json:"status"`
	Err           string           `json:"error,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
}

// NewConversationTurn stamps a turn with an id and timestamp.
func NewConversationTurn(query, agentID string) ConversationTurn {
	return ConversationTurn{
		ID:        uuid.New().String(),
		Query:     query,
		AgentID:   agentID,
		Timestamp: time.Now(),
	}
}

// SavedResponse is an explicitly bookmarked answer. It copies the turn's
// fields rather than referencing it, so the two lifecycles stay independent.
type SavedResponse struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	AgentID   string    `json:"agent_id"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SaveTurn copies a turn into a SavedResponse with an optional user note.
func SaveTurn(turn ConversationTurn, note string) SavedResponse {
	return SavedResponse{
		ID:        uuid.New().String(),
		Query:     turn.Query,
		Response:  turn.FinalResponse,
		AgentID:   turn.AgentID,
		Note:      note,
		Timestamp: time.Now(),
	}
}
