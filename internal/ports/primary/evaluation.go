// Package primary defines the primary ports: the service interfaces the
// CLI layer consumes. Each operation documents the permission its caller
// must hold; enforcement happens at the CLI boundary, not here.
package primary

import (
	"context"

	"github.com/example/sentinel/internal/core/evaluation"
)

// EvaluationService drives the active evaluation session and the
// completed evaluation history.
type EvaluationService interface {
	// Start creates a new active session. If one already exists it is
	// rejected unless discard is set, in which case the old session is
	// dropped first. Requires evaluations:create.
	Start(ctx context.Context, discard bool) (*evaluation.Session, error)

	// Active returns the current session, nil when none exists.
	Active(ctx context.Context) (*evaluation.Session, error)

	// Cancel discards the active session. Requires evaluations:create.
	Cancel(ctx context.Context) error

	// RecordAnswer sets the answer for one question of the active
	// session. Requires evaluations:create.
	RecordAnswer(ctx context.Context, sectionID string, questionIndex int, value evaluation.Answer) error

	// RecordRootCause stores the Three-Whys record for a question whose
	// current answer is No. Requires evaluations:create.
	RecordRootCause(ctx context.Context, sectionID string, questionIndex int, rc evaluation.RootCause) error

	// RecordDraftAction commits answer-No, root cause, and draft action
	// for a question as one step. Requires evaluations:create.
	RecordDraftAction(ctx context.Context, draft evaluation.ActionDraft) error

	// RemoveDraftAction clears the draft action and root cause for a
	// question. Requires evaluations:create.
	RemoveDraftAction(ctx context.Context, sectionID string, questionIndex int) error

	// AddEvidence stores an attachment and links it to a question of the
	// active session. Requires evaluations:create.
	AddEvidence(ctx context.Context, sectionID string, questionIndex int, fileName, fileType string, data []byte) (*evaluation.EvidenceRef, error)

	// RemoveEvidence unlinks and deletes an attachment from a question.
	// Requires evaluations:create.
	RemoveEvidence(ctx context.Context, sectionID string, questionIndex int, attachmentID string) error

	// IsComplete reports whether the active session has at least one
	// fully answered section.
	IsComplete(ctx context.Context) (bool, error)

	// Finish scores the active session, persists the completed
	// evaluation with its corrective actions atomically, and discards
	// the session. Requires evaluations:create.
	Finish(ctx context.Context, actor string) (*evaluation.Completed, error)

	// List returns completed evaluations ordered by creation time
	// ascending. Requires evaluations:read.
	List(ctx context.Context) ([]*evaluation.Completed, error)

	// Get returns one completed evaluation. Requires evaluations:read.
	Get(ctx context.Context, id string) (*evaluation.Completed, error)

	// Delete removes completed evaluations and cascades to their
	// actions, history, and evidence. Requires evaluations:delete.
	Delete(ctx context.Context, ids []string) error
}
