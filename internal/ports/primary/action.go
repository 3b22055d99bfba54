package primary

import (
	"context"
	"time"

	"github.com/example/sentinel/internal/core/action"
	"github.com/example/sentinel/internal/core/evaluation"
)

// Action represents a corrective action at the port boundary. Overdue
// is derived at read time and never persisted.
type Action struct {
	ID            string
	EvaluationID  string
	SectionID     string
	QuestionIndex int
	QuestionText  string
	RootCause     *evaluation.RootCause
	Description   string
	Responsible   string
	DueDate       string
	Priority      action.Priority
	Status        action.Status
	Overdue       bool
	EvidenceIDs   []string
	Tags          []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HistoryEntry is one append-only entry of an action's audit trail.
type HistoryEntry struct {
	Status    action.Status
	Comment   string
	ChangedBy string
	Timestamp time.Time
}

// CreateActionRequest contains parameters for creating an action
// outside the checklist flow.
type CreateActionRequest struct {
	QuestionText string
	Description  string
	Responsible  string
	DueDate      string
	Priority     action.Priority
	Tags         []string
	Actor        string
}

// UpdateActionRequest contains the editable fields of an action.
type UpdateActionRequest struct {
	ID          string
	Description string
	Responsible string
	DueDate     string
	Priority    action.Priority
	Tags        []string
}

// EvidenceFile is attachment metadata at the port boundary.
type EvidenceFile struct {
	ID       string
	FileName string
	FileType string
	Size     int
}

// ActionFilters narrows action listings.
type ActionFilters struct {
	Status       string
	Responsible  string
	Priority     string
	EvaluationID string
}

// ActionService manages the corrective action lifecycle.
type ActionService interface {
	// Create persists a manually created action with status new and its
	// first history entry. Requires actions:manage.
	Create(ctx context.Context, req CreateActionRequest) (*Action, error)

	// Get retrieves one action. Requires actions:manage.
	Get(ctx context.Context, id string) (*Action, error)

	// List retrieves actions matching the filters, ordered by creation
	// time ascending. Requires actions:manage.
	List(ctx context.Context, filters ActionFilters) ([]*Action, error)

	// ValidNextStatuses returns the permitted transitions for an
	// action's current status, in table order.
	ValidNextStatuses(ctx context.Context, id string) ([]action.Status, error)

	// ChangeStatus applies a validated status transition and appends one
	// history entry atomically. Requires actions:manage.
	ChangeStatus(ctx context.Context, id string, newStatus action.Status, actor, comment string) error

	// Update rewrites an action's editable fields. Status changes go
	// through ChangeStatus only. Requires actions:manage.
	Update(ctx context.Context, req UpdateActionRequest) error

	// History returns an action's audit trail in insertion order.
	// Requires actions:manage.
	History(ctx context.Context, id string) ([]*HistoryEntry, error)

	// Evidence returns the attachments linked to an action. Requires
	// actions:manage.
	Evidence(ctx context.Context, id string) ([]*EvidenceFile, error)

	// EvidenceData returns one attachment with its content. Requires
	// actions:manage.
	EvidenceData(ctx context.Context, attachmentID string) (*EvidenceFile, []byte, error)

	// Delete removes an action, cascading to its history and evidence.
	// Irreversible. Requires actions:delete.
	Delete(ctx context.Context, id string) error
}
