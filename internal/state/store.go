package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/arbor/internal/fsops"
)

// StateStore provides an interface for persisting session state.
type StateStore interface {
	// LoadSession loads the session for the given tree root.
	// Returns os.ErrNotExist if the session doesn't exist.
	LoadSession(root string) (*SessionState, error)

	// SaveSession saves the session atomically.
	SaveSession(state *SessionState) error

	// DeleteSession deletes the session state file.
	DeleteSession(root string) error
}

// FileStateStore implements StateStore using JSON files on disk.
type FileStateStore struct {
	fs          fsops.FS
	sessionsDir string
}

// NewFileStateStore creates a new FileStateStore.
func NewFileStateStore(fs fsops.FS, sessionsDir string) *FileStateStore {
	return &FileStateStore{
		fs:          fs,
		sessionsDir: sessionsDir,
	}
}

func (s *FileStateStore) path(root string) string {
	return filepath.Join(s.sessionsDir, ComputeSessionID(root)+".json")
}

// LoadSession loads the session for the given tree root.
func (s *FileStateStore) LoadSession(root string) (*SessionState, error) {
	data, err := s.fs.ReadFile(s.path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}

	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}

	return &state, nil
}

// LoadOrNew loads the session for root, or returns a fresh one if none exists.
func LoadOrNew(store StateStore, root string) (*SessionState, error) {
	sess, err := store.LoadSession(root)
	if err == nil {
		return sess, nil
	}
	if os.IsNotExist(err) {
		return NewSessionState(root), nil
	}
	return nil, err
}

// SaveSession saves the session atomically.
func (s *FileStateStore) SaveSession(state *SessionState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	if err := s.fs.AtomicWrite(s.path(state.Root), data, 0644); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}

	return nil
}

// DeleteSession deletes the session state file.
func (s *FileStateStore) DeleteSession(root string) error {
	if err := s.fs.Remove(s.path(root)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session state: %w", err)
	}

	return nil
}
