// Package secondary defines the secondary ports (driven adapters) for
// the application: the interfaces through which services drive the
// persistence layer.
package secondary

import (
	"context"
	"time"

	"github.com/example/sentinel/internal/core/access"
	"github.com/example/sentinel/internal/core/action"
	"github.com/example/sentinel/internal/core/checklist"
	"github.com/example/sentinel/internal/core/evaluation"
)

// EvaluationRepository persists completed evaluations.
type EvaluationRepository interface {
	// SaveWithActions persists a completed evaluation together with its
	// newly created corrective actions and their first history entries
	// as a single all-or-nothing unit.
	SaveWithActions(ctx context.Context, eval *evaluation.Completed, actions []*ActionRecord, entries []*HistoryRecord) error

	// List retrieves all completed evaluations ordered by creation time
	// ascending.
	List(ctx context.Context) ([]*evaluation.Completed, error)

	// GetByID retrieves one completed evaluation, nil when absent.
	GetByID(ctx context.Context, id string) (*evaluation.Completed, error)

	// Delete removes the given evaluations, cascading to their
	// corrective actions, action history, and attachments.
	Delete(ctx context.Context, ids []string) error
}

// ActionRecord represents a corrective action as stored in persistence.
// EvaluationID is empty for actions created outside the checklist flow;
// QuestionIndex is -1 when the action has no originating question.
type ActionRecord struct {
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
	EvidenceIDs   []string
	Tags          []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HistoryRecord is one append-only action history entry.
type HistoryRecord struct {
	UID       int64
	ActionID  string
	Status    action.Status
	Comment   string
	ChangedBy string
	Timestamp time.Time
}

// ActionFilters contains filter options for querying actions.
type ActionFilters struct {
	Status       string
	Responsible  string
	Priority     string
	EvaluationID string
}

// ActionRepository persists corrective actions and their audit history.
type ActionRepository interface {
	// Create persists a new action and its creation history entry
	// atomically.
	Create(ctx context.Context, rec *ActionRecord, first *HistoryRecord) error

	// GetByID retrieves an action, nil when absent.
	GetByID(ctx context.Context, id string) (*ActionRecord, error)

	// List retrieves actions matching the given filters, ordered by
	// creation time ascending.
	List(ctx context.Context, filters ActionFilters) ([]*ActionRecord, error)

	// UpdateStatus updates an action's status and updatedAt and appends
	// the history entry atomically.
	UpdateStatus(ctx context.Context, id string, status action.Status, updatedAt time.Time, entry *HistoryRecord) error

	// Update rewrites an action's free fields (description, responsible,
	// due date, priority, tags, evidence ids).
	Update(ctx context.Context, rec *ActionRecord) error

	// Delete removes an action, cascading to its history entries and
	// attachments.
	Delete(ctx context.Context, id string) error

	// History retrieves an action's history entries ordered by insertion.
	History(ctx context.Context, actionID string) ([]*HistoryRecord, error)
}

// AttachmentRecord is a stored evidence file.
type AttachmentRecord struct {
	ID       string
	ParentID string
	FileName string
	FileType string
	Data     []byte
}

// AttachmentRepository stores evidence blobs keyed by id and parent.
type AttachmentRepository interface {
	Put(ctx context.Context, att *AttachmentRecord) error
	GetByID(ctx context.Context, id string) (*AttachmentRecord, error)
	ListByParent(ctx context.Context, parentID string) ([]*AttachmentRecord, error)
	Delete(ctx context.Context, id string) error
}

// ChecklistRepository persists the checklist definition.
type ChecklistRepository interface {
	// Get retrieves the stored definition; nil when none has been saved.
	Get(ctx context.Context) ([]checklist.Section, error)

	// Save replaces the stored definition.
	Save(ctx context.Context, sections []checklist.Section) error
}

// UserRecord represents a user as stored in persistence.
type UserRecord struct {
	ID           string
	Username     string
	DisplayName  string
	PasswordHash []byte
	Role         access.Role
	Active       bool
	LastLogin    time.Time // zero when the user never logged in
	CreatedAt    time.Time
}

// UserRepository persists users.
type UserRepository interface {
	Create(ctx context.Context, u *UserRecord) error
	GetByID(ctx context.Context, id string) (*UserRecord, error)
	// GetByUsername matches case-insensitively; nil when absent.
	GetByUsername(ctx context.Context, username string) (*UserRecord, error)
	List(ctx context.Context) ([]*UserRecord, error)
	Update(ctx context.Context, u *UserRecord) error
	Delete(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
