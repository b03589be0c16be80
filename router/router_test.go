package router

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/traydesk/agents/config"
	"github.com/traydesk/agents/llm"
)

type mockProvider struct {
	reply string
	err   error
	calls int
}

func (p *mockProvider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &llm.ChatResponse{Content: p.reply, Model: req.Model}, nil
}

func testConfig(t *testing.T, agentIDs ...string) *config.Config {
	t.Helper()

	doc := "default_agent = \"" + agentIDs[0] + "\"\n\n[router]\nmodel = \"router-model\"\n"
	for _, id := range agentIDs {
		doc += fmt.Sprintf("\n[agents.%s]\nmodel = \"m\"\ndescription = \"agent %s\"\n", id, id)
	}

	cfg, err := config.Parse([]byte(doc), nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return cfg
}

func TestRouteOverrideSkipsModel(t *testing.T) {
	provider := &mockProvider{reply: "general"}
	r := New(provider, testConfig(t, "general", "files"), zerolog.Nop())

	id, err := r.Route(context.Background(), "anything", "files")
	if err != nil {
		t.Fatal(err)
	}
	if id != "files" {
		t.Errorf("expected files, got %s", id)
	}
	if provider.calls != 0 {
		t.Errorf("override must not call the model, got %d calls", provider.calls)
	}
}

func TestRouteSingleAgentShortcut(t *testing.T) {
	provider := &mockProvider{}
	r := New(provider, testConfig(t, "general"), zerolog.Nop())

	id, err := r.Route(context.Background(), "anything", "")
	if err != nil {
		t.Fatal(err)
	}
	if id != "general" {
		t.Errorf("expected general, got %s", id)
	}
	if provider.calls != 0 {
		t.Errorf("single-agent routing must not call the model, got %d calls", provider.calls)
	}
}

func TestRouteNormalizesModelReply(t *testing.T) {
	cases := []string{"files", "Files", " files \n", "\"files\"", "'files'", "files."}
	for _, reply := range cases {
		provider := &mockProvider{reply: reply}
		r := New(provider, testConfig(t, "general", "files"), zerolog.Nop())

		id, err := r.Route(context.Background(), "organize my documents", "")
		if err != nil {
			t.Fatal(err)
		}
		if id != "files" {
			t.Errorf("reply %q: expected files, got %s", reply, id)
		}
	}
}

func TestRouteUnknownAgentFallsBack(t *testing.T) {
	provider := &mockProvider{reply: "nonexistent"}
	r := New(provider, testConfig(t, "general", "files"), zerolog.Nop())

	var fallbackErr error
	r.OnFallback = func(err error, defaultAgent string) { fallbackErr = err }

	id, err := r.Route(context.Background(), "do something", "")
	if err != nil {
		t.Fatal(err)
	}
	if id != "general" {
		t.Errorf("expected fallback to general, got %s", id)
	}
	if fallbackErr == nil {
		t.Error("fallback must be surfaced, not silent")
	}
}

func TestRouteModelErrorFallsBack(t *testing.T) {
	provider := &mockProvider{err: fmt.Errorf("connection refused")}
	r := New(provider, testConfig(t, "general", "files"), zerolog.Nop())

	id, err := r.Route(context.Background(), "do something", "")
	if err != nil {
		t.Fatal(err)
	}
	if id != "general" {
		t.Errorf("expected fallback to general, got %s", id)
	}
}

func TestNormalizeAgentID(t *testing.T) {
	cases := map[string]string{
		"general":         "general",
		"  General  ":     "general",
		"\"files\"":       "files",
		"'calendar'.":     "calendar",
		"`code`":          "code",
	}
	for in, want := range cases {
		if got := normalizeAgentID(in); got != want {
			t.Errorf("normalizeAgentID(%q) = %q, want %q", in, got, want)
		}
	}
}
