package agents

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/traydesk/agents/config"
	"github.com/traydesk/agents/history"
	"github.com/traydesk/agents/llm"
	"github.com/traydesk/agents/router"
	"github.com/traydesk/agents/runner"
	"github.com/traydesk/agents/schema"
	"github.com/traydesk/agents/tools"
)

// Assistant wires registry, router, and execution loop behind one
// entry point. All fields are set at construction and read-only after.
type Assistant struct {
	cfg      *config.Config
	registry *tools.Registry
	provider llm.Provider
	router   *router.Router
	runner   *runner.Runner
	store    history.Store
	log      zerolog.Logger

	// mu enforces single-flight execution: one query runs to completion
	// before the next is accepted.
	mu           sync.Mutex
	conversation []schema.Message
}

// preamble is the subset of the configuration needed before the tool
// registry exists (the full document is validated against the registry).
type preamble struct {
	Workspace string              `toml:"workspace"`
	Calendar  config.CalendarSpec `toml:"calendar"`
}

// New loads the configuration document at path and assembles an
// Assistant. Configuration problems, including tool names not present in
// the registry, fail here rather than at first use.
func New(path string, opts ...Option) (*Assistant, error) {
	o := applyOptions(opts)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, schema.NewConfigError("file", err)
	}

	var pre preamble
	if err := toml.Unmarshal(data, &pre); err != nil {
		return nil, schema.NewConfigError("document", err)
	}
	workspaceRoot := o.workspace
	if workspaceRoot == "" {
		workspaceRoot = pre.Workspace
	}

	registry := tools.NewRegistry()
	if _, err := tools.RegisterBuiltins(registry, tools.BuiltinConfig{
		WorkspaceRoot: workspaceRoot,
		Calendar: tools.CalendarConfig{
			CredentialsFile: pre.Calendar.Credentials,
			TokenFile:       pre.Calendar.Token,
			CalendarID:      pre.Calendar.CalendarID,
		},
	}); err != nil {
		return nil, err
	}
	for _, extra := range o.extraTools {
		if err := registry.Register(extra); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Parse(data, registry)
	if err != nil {
		return nil, err
	}

	provider := o.provider
	if provider == nil {
		provider, err = llm.New(llm.ProviderConfig{
			Backend: cfg.Model.Backend,
			Host:    cfg.Model.Host,
			APIKey:  cfg.Model.APIKey,
		})
		if err != nil {
			return nil, err
		}
	}

	store := o.store
	if store == nil {
		store = history.NewMemoryStore()
	}

	observer := o.observer
	if observer == nil {
		observer = runner.LogObserver{Log: o.log}
	}

	return &Assistant{
		cfg:      cfg,
		registry: registry,
		provider: provider,
		router:   router.New(provider, cfg, o.log),
		runner: runner.New(runner.Config{
			Provider:  provider,
			Registry:  registry,
			MaxRounds: o.maxRounds,
			Observer:  observer,
		}),
		store: store,
		log:   o.log,
	}, nil
}

// Ask routes the query (or honors a manual agent selection), runs the
// execution loop with the trailing conversation window, and records the
// resulting turn. The returned error is non-nil only when the model
// backend was unreachable; the turn always describes what happened.
func (a *Assistant) Ask(ctx context.Context, query string, opts ...AskOption) (schema.ConversationTurn, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var ao askOptions
	for _, opt := range opts {
		opt(&ao)
	}

	agentID, err := a.router.Route(ctx, query, ao.agentID)
	if err != nil {
		return schema.ConversationTurn{}, err
	}
	spec, ok := a.cfg.Agent(agentID)
	if !ok {
		return schema.ConversationTurn{}, fmt.Errorf("agent %q: %w", agentID, schema.ErrAgentNotFound)
	}

	turn, runErr := a.runner.Run(ctx, spec, query, a.conversation)

	a.conversation = append(a.conversation, schema.Message{Role: schema.RoleUser, Content: query})
	if turn.FinalResponse != "" {
		a.conversation = append(a.conversation, schema.Message{Role: schema.RoleAssistant, Content: turn.FinalResponse})
	}

	if err := a.store.Append(turn); err != nil {
		a.log.Warn().Err(err).Msg("history append failed")
	}
	return turn, runErr
}

// SaveResponse copies a turn into an independently stored SavedResponse
// with an optional user note.
func (a *Assistant) SaveResponse(turn schema.ConversationTurn, note string) (schema.SavedResponse, error) {
	saved := schema.SaveTurn(turn, note)
	if err := a.store.Save(saved); err != nil {
		return schema.SavedResponse{}, err
	}
	return saved, nil
}

// ClearHistory drops the persisted turn log and the in-session
// conversation window.
func (a *Assistant) ClearHistory() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.conversation = nil
	return a.store.Clear()
}

// AgentInfo describes one configured agent for display layers.
type AgentInfo struct {
	ID          string   `json:"id"`
	Model       string   `json:"model"`
	Description string   `json:"description"`
	Tools       []string `json:"tools"`
}

// Agents lists the configured agents.
func (a *Assistant) Agents() []AgentInfo {
	infos := make([]AgentInfo, 0, len(a.cfg.Agents))
	for id, spec := range a.cfg.Agents {
		infos = append(infos, AgentInfo{
			ID:          id,
			Model:       spec.Model,
			Description: spec.Description,
			Tools:       append([]string(nil), spec.Tools...),
		})
	}
	return infos
}

// History exposes the backing store.
func (a *Assistant) History() history.Store {
	return a.store
}
