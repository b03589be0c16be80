// Package history persists conversation turns and saved responses. It is
// an external collaborator of the core: the loop only hands off completed
// turns through the Store interface.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/traydesk/agents/schema"
)

// Store receives completed turns and explicitly saved responses.
type Store interface {
	Append(turn schema.ConversationTurn) error
	Save(saved schema.SavedResponse) error
	Turns() []schema.ConversationTurn
	Saved() []schema.SavedResponse
	Clear() error
}

// fileFormat is the flat persisted form.
type fileFormat struct {
	Turns []schema.ConversationTurn `json:"turns"`
	Saved []schema.SavedResponse    `json:"saved_responses"`
}

// JSONStore keeps everything in memory and rewrites a flat JSON file on
// each mutation. Writes are best effort; a failed write is reported but
// does not lose the in-memory state.
type JSONStore struct {
	path string

	mu    sync.Mutex
	turns []schema.ConversationTurn
	saved []schema.SavedResponse
}

// NewJSONStore loads existing history from path if present.
func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("history: read %s: %w", path, err)
	}

	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("history: parse %s: %w", path, err)
	}
	s.turns = ff.Turns
	s.saved = ff.Saved
	return s, nil
}

// Append adds a completed turn and flushes.
func (s *JSONStore) Append(turn schema.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
	return s.flushLocked()
}

// Save adds a saved response and flushes.
func (s *JSONStore) Save(saved schema.SavedResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, saved)
	return s.flushLocked()
}

// Turns returns a copy of the turn log.
func (s *JSONStore) Turns() []schema.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]schema.ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Saved returns a copy of the saved responses.
func (s *JSONStore) Saved() []schema.SavedResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]schema.SavedResponse, len(s.saved))
	copy(out, s.saved)
	return out
}

// Clear drops all turns (saved responses survive a history clear) and
// flushes.
func (s *JSONStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	return s.flushLocked()
}

func (s *JSONStore) flushLocked() error {
	data, err := json.MarshalIndent(fileFormat{Turns: s.turns, Saved: s.saved}, "", "  ")
	if err != nil {
		return fmt.Errorf("history: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("history: mkdir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("history: write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("history: rename: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory Store for tests and ephemeral sessions.
type MemoryStore struct {
	mu    sync.Mutex
	turns []schema.ConversationTurn
	saved []schema.SavedResponse
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(turn schema.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
	return nil
}

func (s *MemoryStore) Save(saved schema.SavedResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, saved)
	return nil
}

func (s *MemoryStore) Turns() []schema.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]schema.ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *MemoryStore) Saved() []schema.SavedResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]schema.SavedResponse, len(s.saved))
	copy(out, s.saved)
	return out
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	return nil
}
