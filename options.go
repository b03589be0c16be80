package agents

import (
	"github.com/rs/zerolog"

	"github.com/traydesk/agents/history"
	"github.com/traydesk/agents/llm"
	"github.com/traydesk/agents/runner"
	"github.com/traydesk/agents/tools"
)

type options struct {
	provider   llm.Provider
	store      history.Store
	observer   runner.Observer
	log        zerolog.Logger
	workspace  string
	maxRounds  int
	extraTools []tools.Tool
}

// Option configures Assistant construction.
type Option func(*options)

func applyOptions(opts []Option) options {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithProvider injects a model backend, bypassing the configured one.
func WithProvider(p llm.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithHistory sets the turn/saved-response store. Defaults to in-memory.
func WithHistory(s history.Store) Option {
	return func(o *options) { o.store = s }
}

// WithObserver overrides the execution-loop observer.
func WithObserver(obs runner.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithLogger sets the logger used across the core.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithWorkspace overrides the workspace root from the configuration.
func WithWorkspace(root string) Option {
	return func(o *options) { o.workspace = root }
}

// WithMaxRounds caps model round-trips per turn.
func WithMaxRounds(n int) Option {
	return func(o *options) { o.maxRounds = n }
}

// WithTool registers an additional tool before the configuration is
// validated, so agents may reference it.
func WithTool(t tools.Tool) Option {
	return func(o *options) { o.extraTools = append(o.extraTools, t) }
}

type askOptions struct {
	agentID string
}

// AskOption configures a single Ask call.
type AskOption func(*askOptions)

// WithAgent selects an agent explicitly, bypassing the router entirely.
func WithAgent(id string) AskOption {
	return func(o *askOptions) { o.agentID = id }
}
