package secondary

import "github.com/example/sentinel/internal/core/evaluation"

// SessionStore holds the single active evaluation session between CLI
// invocations. The session never touches the evaluation store; it lives
// here until finalize succeeds or the user cancels.
type SessionStore interface {
	// Load returns the active session, nil when none exists.
	Load() (*evaluation.Session, error)

	// Save writes the active session.
	Save(s *evaluation.Session) error

	// Clear discards the active session. Clearing when none exists is a
	// no-op.
	Clear() error
}
