// Package config loads the TOML configuration document into an immutable
// Config value. All schema violations surface here at load time, never at
// first use.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/traydesk/agents/schema"
	"github.com/traydesk/agents/tools"
)

// AgentSpec is the static configuration of one agent. Immutable after
// load; read by the router and the execution loop.
type AgentSpec struct {
	ID          string   `toml:"-"`
	Model       string   `toml:"model"`
	Description string   `toml:"description"`
	Temperature float64  `toml:"temperature"`
	Tools       []string `toml:"tools"`

	allowed map[string]struct{}
}

// Allows reports whether the agent may invoke the named tool.
func (s *AgentSpec) Allows(tool string) bool {
	_, ok := s.allowed[tool]
	return ok
}

// RouterSpec configures the routing model.
type RouterSpec struct {
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
}

// CalendarSpec points at the Google Calendar credential files. Optional;
// calendar tools fail per-call when unset.
type CalendarSpec struct {
	Credentials string `toml:"credentials"`
	Token       string `toml:"token"`
	CalendarID  string `toml:"calendar_id"`
}

// ModelSpec selects the model backend shared by router and agents.
type ModelSpec struct {
	Backend string `toml:"backend"`
	Host    string `toml:"host"`
	APIKey  string `toml:"api_key"`
}

// Config is the loaded configuration document.
type Config struct {
	Workspace    string                `toml:"workspace"`
	DefaultAgent string                `toml:"default_agent"`
	Model        ModelSpec             `toml:"model"`
	Router       RouterSpec            `toml:"router"`
	Calendar     CalendarSpec          `toml:"calendar"`
	Agents       map[string]*AgentSpec `toml:"agents"`
}

// Load reads and validates a configuration file against the registry.
func Load(path string, registry *tools.Registry) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, schema.NewConfigError("file", err)
	}
	return Parse(data, registry)
}

// Parse decodes and validates a configuration document.
func Parse(data []byte, registry *tools.Registry) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, schema.NewConfigError("document", err)
	}
	if err := cfg.validate(registry); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate(registry *tools.Registry) error {
	if len(c.Agents) == 0 {
		return schema.NewConfigError("agents", fmt.Errorf("at least one agent must be declared"))
	}
	if c.Router.Model == "" {
		return schema.NewConfigError("router.model", fmt.Errorf("router model is required"))
	}

	for id, spec := range c.Agents {
		spec.ID = id
		if spec.Model == "" {
			return schema.NewConfigError(
				fmt.Sprintf("agents.%s.model", id), fmt.Errorf("model is required"))
		}
		if spec.Description == "" {
			return schema.NewConfigError(
				fmt.Sprintf("agents.%s.description", id), fmt.Errorf("description is required"))
		}

		spec.allowed = make(map[string]struct{}, len(spec.Tools))
		for _, tool := range spec.Tools {
			if registry != nil && !registry.Has(tool) {
				return schema.NewConfigError(
					fmt.Sprintf("agents.%s.tools", id),
					fmt.Errorf("unknown tool %q: %w", tool, schema.ErrToolNotFound))
			}
			spec.allowed[tool] = struct{}{}
		}
	}

	if c.DefaultAgent == "" {
		c.DefaultAgent = "general"
	}
	if _, ok := c.Agents[c.DefaultAgent]; !ok {
		return schema.NewConfigError(
			"default_agent",
			fmt.Errorf("default agent %q is not declared: %w", c.DefaultAgent, schema.ErrAgentNotFound))
	}
	return nil
}

// Agent returns the spec for an id.
func (c *Config) Agent(id string) (*AgentSpec, bool) {
	spec, ok := c.Agents[id]
	return spec, ok
}

// AgentIDs returns all declared agent ids.
func (c *Config) AgentIDs() []string {
	ids := make([]string, 0, len(c.Agents))
	for id := range c.Agents {
		ids = append(ids, id)
	}
	return ids
}
