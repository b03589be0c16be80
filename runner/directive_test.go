package runner

import (
	"testing"
)

func TestParseDirectivesSingle(t *testing.T) {
	text := "Let me check that file.\n\n```tool\n{\"tool\": \"read_file\", \"params\": {\"file_path\": \"notes.txt\"}}\n```\n"

	calls := ParseDirectives(text)
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Name != "read_file" {
		t.Errorf("expected read_file, got %s", calls[0].Name)
	}
	if calls[0].Params["file_path"] != "notes.txt" {
		t.Errorf("unexpected params: %v", calls[0].Params)
	}
	if calls[0].ID == "" {
		t.Error("expected call to be stamped with an id")
	}
}

func TestParseDirectivesMultipleInOrder(t *testing.T) {
	text := "```tool\n{\"tool\": \"first\"}\n```\nsome text\n```tool\n{\"tool\": \"second\", \"params\": {\"n\": 2}}\n```"

	calls := ParseDirectives(text)
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if calls[0].Name != "first" || calls[1].Name != "second" {
		t.Errorf("order not preserved: %s, %s", calls[0].Name, calls[1].Name)
	}
}

func TestParseDirectivesMalformedSkipped(t *testing.T) {
	text := "```tool\nnot json at all\n```\n```tool\n{\"tool\": \"ok\"}\n```"

	calls := ParseDirectives(text)
	if len(calls) != 1 {
		t.Fatalf("expected malformed block to be skipped, got %d calls", len(calls))
	}
	if calls[0].Name != "ok" {
		t.Errorf("expected ok, got %s", calls[0].Name)
	}
}

func TestParseDirectivesEmptyToolNameSkipped(t *testing.T) {
	text := "```tool\n{\"params\": {\"x\": 1}}\n```"

	if calls := ParseDirectives(text); len(calls) != 0 {
		t.Fatalf("expected 0 calls, got %d", len(calls))
	}
}

func TestParseDirectivesPlainText(t *testing.T) {
	if calls := ParseDirectives("The answer is 42."); calls != nil {
		t.Fatalf("expected nil, got %v", calls)
	}
}

func TestParseDirectivesIgnoresOtherFences(t *testing.T) {
	text := "```python\nprint('hi')\n```"

	if calls := ParseDirectives(text); len(calls) != 0 {
		t.Fatalf("expected 0 calls for non-tool fence, got %d", len(calls))
	}
}
