package config

import (
	"context"
	"errors"
	"testing"

	"github.com/traydesk/agents/schema"
	"github.com/traydesk/agents/tools"
)

const validDoc = `
workspace = "/tmp/ws"
default_agent = "general"

[model]
backend = "ollama"

[router]
model = "llama3.2:1b"

[agents.general]
model = "llama3.2"
description = "General questions"

[agents.files]
model = "llama3.2"
description = "File management"
temperature = 0.2
tools = ["read_file"]
`

func testRegistry(t *testing.T, names ...string) *tools.Registry {
	t.Helper()
	r := tools.NewRegistry()
	for _, name := range names {
		tool := tools.NewTool(name, "test tool", nil, func(ctx context.Context, params map[string]any) (any, error) {
			return nil, nil
		})
		if err := r.Register(tool); err != nil {
			t.Fatal(err)
		}
	}
	return r
}

func TestParseValid(t *testing.T) {
	cfg, err := Parse([]byte(validDoc), testRegistry(t, "read_file"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultAgent != "general" {
		t.Errorf("expected default agent general, got %s", cfg.DefaultAgent)
	}
	if len(cfg.Agents) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(cfg.Agents))
	}

	files, ok := cfg.Agent("files")
	if !ok {
		t.Fatal("files agent missing")
	}
	if files.ID != "files" {
		t.Errorf("agent id not backfilled, got %q", files.ID)
	}
	if !files.Allows("read_file") {
		t.Error("files agent should allow read_file")
	}
	if files.Allows("web_search") {
		t.Error("files agent should not allow web_search")
	}
}

func TestParseUnknownToolFails(t *testing.T) {
	doc := `
[router]
model = "r"

[agents.general]
model = "m"
description = "d"
tools = ["no_such_tool"]
`
	_, err := Parse([]byte(doc), testRegistry(t))
	if err == nil {
		t.Fatal("expected error")
	}

	var cfgErr *schema.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	if cfgErr.Field != "agents.general.tools" {
		t.Errorf("unexpected field: %s", cfgErr.Field)
	}
	if !errors.Is(err, schema.ErrToolNotFound) {
		t.Error("expected error to wrap ErrToolNotFound")
	}
}

func TestParseMissingRouterModel(t *testing.T) {
	doc := `
[agents.general]
model = "m"
description = "d"
`
	_, err := Parse([]byte(doc), nil)
	var cfgErr *schema.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "router.model" {
		t.Fatalf("expected router.model config error, got %v", err)
	}
}

func TestParseMissingAgentFields(t *testing.T) {
	noModel := `
[router]
model = "r"

[agents.general]
description = "d"
`
	if _, err := Parse([]byte(noModel), nil); err == nil {
		t.Error("expected error for missing model")
	}

	noDescription := `
[router]
model = "r"

[agents.general]
model = "m"
`
	if _, err := Parse([]byte(noDescription), nil); err == nil {
		t.Error("expected error for missing description")
	}
}

func TestParseNoAgents(t *testing.T) {
	_, err := Parse([]byte("[router]\nmodel = \"r\"\n"), nil)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParseDefaultAgentDefaultsToGeneral(t *testing.T) {
	doc := `
[router]
model = "r"

[agents.general]
model = "m"
description = "d"
`
	cfg, err := Parse([]byte(doc), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultAgent != "general" {
		t.Errorf("expected general, got %s", cfg.DefaultAgent)
	}
}

func TestParseUndeclaredDefaultAgent(t *testing.T) {
	doc := `
default_agent = "missing"

[router]
model = "r"

[agents.general]
model = "m"
description = "d"
`
	_, err := Parse([]byte(doc), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, schema.ErrAgentNotFound) {
		t.Error("expected error to wrap ErrAgentNotFound")
	}
}

func TestParseMalformedDocument(t *testing.T) {
	_, err := Parse([]byte("not toml ["), nil)
	var cfgErr *schema.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}
