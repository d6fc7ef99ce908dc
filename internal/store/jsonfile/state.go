// Package jsonfile provides a JSON file-based store for persisted client
// state: the session cookie and the last selected room.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// State is the root JSON structure stored on disk.
type State struct {
	// SessionCookie is the raw session_id cookie value, shared between the
	// TUI and one-shot commands the way a browser jar would be.
	SessionCookie string `json:"session_cookie,omitempty"`

	// LastRoomID is the room selected when the TUI last exited.
	LastRoomID int64 `json:"last_room_id,omitempty"`
}

// StateStore persists State in a JSON file.
type StateStore struct {
	path string
	mu   sync.RWMutex
}

// NewStateStore creates a state store at the given path.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Load reads the state from disk. A missing or empty file is an empty state.
func (s *StateStore) Load() (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

// Save writes the full state to disk atomically.
func (s *StateStore) Save(state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(state)
}

// SetCookie updates just the session cookie. An empty value forgets it.
func (s *StateStore) SetCookie(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	state.SessionCookie = value
	return s.save(state)
}

// LastRoom returns the room selected when the TUI last exited, zero when no
// room was recorded.
func (s *StateStore) LastRoom() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, err := s.load()
	if err != nil {
		return 0, err
	}
	return state.LastRoomID, nil
}

// SetLastRoom updates just the last selected room id.
func (s *StateStore) SetLastRoom(roomID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	state.LastRoomID = roomID
	return s.save(state)
}

func (s *StateStore) load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("read state file: %w", err)
	}

	if len(data) == 0 {
		return State{}, nil
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("parse state file: %w", err)
	}
	return state, nil
}

// save writes the state atomically, write-to-temp-then-rename, so an
// interrupted write never corrupts the file.
func (s *StateStore) save(state State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
