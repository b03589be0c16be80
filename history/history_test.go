package history

import (
	"path/filepath"
	"testing"

	"github.com/traydesk/agents/schema"
)

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	store, err := NewJSONStore(path)
	if err != nil {
		t.Fatal(err)
	}

	turn := schema.NewConversationTurn("what time is it", "general")
	turn.Status = schema.TurnDone
	turn.FinalResponse = "noon"
	if err := store.Append(turn); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(schema.SaveTurn(turn, "keep this")); err != nil {
		t.Fatal(err)
	}

	// Reopen from disk.
	reopened, err := NewJSONStore(path)
	if err != nil {
		t.Fatal(err)
	}
	turns := reopened.Turns()
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	if turns[0].ID != turn.ID || turns[0].FinalResponse != "noon" {
		t.Errorf("turn not persisted faithfully: %+v", turns[0])
	}

	saved := reopened.Saved()
	if len(saved) != 1 {
		t.Fatalf("expected 1 saved response, got %d", len(saved))
	}
	if saved[0].Note != "keep this" || saved[0].Response != "noon" {
		t.Errorf("saved response not persisted faithfully: %+v", saved[0])
	}
}

func TestJSONStoreClearKeepsSaved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store, err := NewJSONStore(path)
	if err != nil {
		t.Fatal(err)
	}

	turn := schema.NewConversationTurn("q", "general")
	if err := store.Append(turn); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(schema.SaveTurn(turn, "")); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}

	if len(store.Turns()) != 0 {
		t.Error("turns should be cleared")
	}
	if len(store.Saved()) != 1 {
		t.Error("saved responses must survive a clear")
	}

	reopened, err := NewJSONStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(reopened.Turns()) != 0 || len(reopened.Saved()) != 1 {
		t.Error("clear not persisted")
	}
}

func TestJSONStoreMissingFile(t *testing.T) {
	store, err := NewJSONStore(filepath.Join(t.TempDir(), "does", "not", "exist.json"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if len(store.Turns()) != 0 {
		t.Error("expected empty store")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	turn := schema.NewConversationTurn("q", "general")

	if err := store.Append(turn); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(schema.SaveTurn(turn, "n")); err != nil {
		t.Fatal(err)
	}
	if len(store.Turns()) != 1 || len(store.Saved()) != 1 {
		t.Fatal("append or save lost")
	}
	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	if len(store.Turns()) != 0 || len(store.Saved()) != 1 {
		t.Error("clear should drop turns only")
	}
}
