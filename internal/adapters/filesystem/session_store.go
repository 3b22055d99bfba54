// Package filesystem contains filesystem-backed adapters.
package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/sentinel/internal/core/evaluation"
)

// sessionFileName is the state file holding the single in-progress
// evaluation between CLI invocations.
const sessionFileName = "active_evaluation.json"

// SessionStore implements secondary.SessionStore with a JSON state
// file. The active session never touches the database; it only becomes
// a row when finalized.
type SessionStore struct {
	dir string
}

// NewSessionStore creates a session store rooted at dir.
func NewSessionStore(dir string) *SessionStore {
	return &SessionStore{dir: dir}
}

// DefaultSessionStore creates a session store under ~/.sentinel.
func DefaultSessionStore() (*SessionStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewSessionStore(filepath.Join(home, ".sentinel")), nil
}

func (s *SessionStore) path() string {
	return filepath.Join(s.dir, sessionFileName)
}

// Load reads the active session; nil, nil when none exists.
func (s *SessionStore) Load() (*evaluation.Session, error) {
	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session evaluation.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &session, nil
}

// Save writes the session, replacing any previous one.
func (s *SessionStore) Save(session *evaluation.Session) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear removes the session file; a no-op when none exists.
func (s *SessionStore) Clear() error {
	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
