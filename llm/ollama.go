package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"

	"github.com/traydesk/agents/schema"
)

const defaultOllamaHost = "http://localhost:11434"

// OllamaProvider talks to a local Ollama server over its native chat API.
type OllamaProvider struct {
	client *ollama.Client
	host   string
}

// NewOllamaProvider resolves the host (argument, then OLLAMA_HOST, then
// localhost) and builds a client. No connection is attempted here; a dead
// server surfaces as a hard error on the first Chat call.
func NewOllamaProvider(host string, timeout time.Duration) (*OllamaProvider, error) {
	if host == "" {
		host = os.Getenv("OLLAMA_HOST")
	}
	if host == "" {
		host = defaultOllamaHost
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("llm: invalid ollama host %q: %w", host, err)
	}

	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	return &OllamaProvider{
		client: ollama.NewClient(u, httpClient),
		host:   host,
	}, nil
}

// Chat implements Provider. Streaming is disabled; the callback still fires
// per chunk, so the content is accumulated before returning.
func (p *OllamaProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	msgs := make([]ollama.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, ollama.Message{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	stream := false
	chatReq := &ollama.ChatRequest{
		Model:    req.Model,
		Messages: msgs,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": req.Temperature,
		},
	}

	var (
		text strings.Builder
		last ollama.ChatResponse
	)
	err := p.client.Chat(ctx, chatReq, func(cr ollama.ChatResponse) error {
		text.WriteString(cr.Message.Content)
		last = cr
		return nil
	})
	if err != nil {
		return nil, schema.NewModelError(req.Model, "chat", err)
	}

	return &ChatResponse{
		Content: text.String(),
		Model:   req.Model,
		Usage: Usage{
			PromptTokens:     last.PromptEvalCount,
			CompletionTokens: last.EvalCount,
			TotalTokens:      last.PromptEvalCount + last.EvalCount,
		},
	}, nil
}
