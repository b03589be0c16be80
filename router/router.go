// Package router selects which agent handles a query. Routing is
// stateless per call: nothing beyond the current query text influences
// the decision.
package router

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/traydesk/agents/config"
	"github.com/traydesk/agents/llm"
	"github.com/traydesk/agents/schema"
)

// Router asks a lightweight model to pick the best agent id for a query.
type Router struct {
	provider llm.Provider
	spec     config.RouterSpec
	agents   map[string]*config.AgentSpec
	fallback string
	log      zerolog.Logger

	// OnFallback is called when the model's answer is unusable and the
	// default agent is substituted. Optional.
	OnFallback func(err error, defaultAgent string)
}

// New builds a Router over the loaded configuration.
func New(provider llm.Provider, cfg *config.Config, log zerolog.Logger) *Router {
	return &Router{
		provider: provider,
		spec:     cfg.Router,
		agents:   cfg.Agents,
		fallback: cfg.DefaultAgent,
		log:      log,
	}
}

// Route returns the agent id that should handle the query. A non-empty
// override is returned unchanged with no model call, which doubles as the
// deterministic testing path. Any unusable model answer falls back to the
// configured default agent; the substitution is logged, never silent.
func (r *Router) Route(ctx context.Context, query, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if len(r.agents) == 1 {
		for id := range r.agents {
			return id, nil
		}
	}

	selected, err := r.routeViaModel(ctx, query)
	if err != nil {
		return r.recover(err), nil
	}
	if _, known := r.agents[selected]; !known {
		return r.recover(fmt.Errorf("routed to unknown agent %q: %w", selected, schema.ErrAgentNotFound)), nil
	}
	return selected, nil
}

func (r *Router) recover(err error) string {
	r.log.Warn().Err(err).Str("default_agent", r.fallback).Msg("routing fallback")
	if r.OnFallback != nil {
		r.OnFallback(err, r.fallback)
	}
	return r.fallback
}

func (r *Router) routeViaModel(ctx context.Context, query string) (string, error) {
	resp, err := r.provider.Chat(ctx, llm.ChatRequest{
		Model:       r.spec.Model,
		Temperature: r.spec.Temperature,
		Messages: []schema.Message{
			{Role: schema.RoleSystem, Content: r.buildPrompt()},
			{Role: schema.RoleUser, Content: fmt.Sprintf("Which agent should handle this request?\n\nRequest: %s", query)},
		},
	})
	if err != nil {
		return "", err
	}
	return normalizeAgentID(resp.Content), nil
}

func (r *Router) buildPrompt() string {
	ids := make([]string, 0, len(r.agents))
	for id := range r.agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	sb.WriteString("You are a routing assistant. Your job is to determine which specialized agent should handle a user's request.\n\n")
	sb.WriteString("Available agents:\n")
	for _, id := range ids {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", id, r.agents[id].Description))
	}
	sb.WriteString("\nAnalyze the user's request and respond with ONLY the agent id that should handle it.\n")
	sb.WriteString("Respond with just the agent id, nothing else.\n")
	sb.WriteString(fmt.Sprintf("If no specialized agent fits, respond with %q.", r.fallback))
	return sb.String()
}

// normalizeAgentID strips the punctuation small models like to add
// around a bare identifier.
func normalizeAgentID(raw string) string {
	id := strings.ToLower(strings.TrimSpace(raw))
	id = strings.Trim(id, "\"'`.")
	return strings.TrimSpace(id)
}
