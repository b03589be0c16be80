package llm

import (
	"context"

	"github.com/voocel/litellm"

	"github.com/traydesk/agents/schema"
)

// OpenAIProvider serves any OpenAI-compatible endpoint through litellm,
// including Ollama's /v1 surface when pointed at it.
type OpenAIProvider struct {
	client *litellm.Client
}

// NewOpenAIProvider builds a provider for the given key and base URL.
// An empty baseURL falls back to the litellm default endpoint.
func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	var client *litellm.Client
	if baseURL != "" {
		client = litellm.New(litellm.WithOpenAI(apiKey, baseURL))
	} else {
		client = litellm.New(litellm.WithOpenAI(apiKey))
	}
	return &OpenAIProvider{client: client}
}

// Chat implements Provider.
func (p *OpenAIProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	msgs := make([]litellm.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, litellm.Message{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	lreq := &litellm.Request{
		Model:    req.Model,
		Messages: msgs,
	}
	if req.Temperature != 0 {
		lreq.Temperature = litellm.Float64Ptr(req.Temperature)
	}

	resp, err := p.client.Chat(ctx, lreq)
	if err != nil {
		return nil, schema.NewModelError(req.Model, "complete", err)
	}

	return &ChatResponse{
		Content: resp.Content,
		Model:   req.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.PromptTokens + resp.Usage.CompletionTokens,
		},
	}, nil
}
