// Package llm abstracts the model backend behind a blocking
// request/response Provider interface. The core never retries a failed
// call; any retry policy belongs to the backend client.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/traydesk/agents/schema"
)

// Provider represents a chat model backend.
type Provider interface {
	// Chat sends a chat completion request and blocks for the full reply.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest is a single completion request.
type ChatRequest struct {
	Model       string           `json:"model"`
	Messages    []schema.Message `json:"messages"`
	Temperature float64          `json:"temperature,omitempty"`
}

// ChatResponse carries the model's text plus token accounting when the
// backend reports it.
type ChatResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Backend identifiers accepted by New.
const (
	BackendOllama = "ollama"
	BackendOpenAI = "openai"
)

// ProviderConfig selects and configures a backend.
type ProviderConfig struct {
	Backend string        `json:"backend"`
	Host    string        `json:"host,omitempty"`     // ollama host or OpenAI-compatible base URL
	APIKey  string        `json:"api_key,omitempty"`  // openai backend only
	Timeout time.Duration `json:"timeout,omitempty"`
}

// New constructs a Provider for the configured backend. An empty backend
// defaults to the local Ollama server.
func New(cfg ProviderConfig) (Provider, error) {
	switch cfg.Backend {
	case "", BackendOllama:
		return NewOllamaProvider(cfg.Host, cfg.Timeout)
	case BackendOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.Host), nil
	default:
		return nil, fmt.Errorf("llm: unknown backend %q", cfg.Backend)
	}
}
