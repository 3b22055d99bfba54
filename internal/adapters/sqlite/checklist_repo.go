package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/sentinel/internal/core/checklist"
)

// ChecklistRepository implements secondary.ChecklistRepository with
// SQLite. The definition is one JSON document in a single-row table.
type ChecklistRepository struct {
	db *sql.DB
}

// NewChecklistRepository creates a new SQLite checklist repository.
func NewChecklistRepository(db *sql.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

// Get retrieves the stored definition; nil when none has been saved.
func (r *ChecklistRepository) Get(ctx context.Context) ([]checklist.Section, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		"SELECT sections FROM checklist_definitions WHERE id = 1",
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist definition: %w", err)
	}

	var sections []checklist.Section
	if err := json.Unmarshal([]byte(raw), &sections); err != nil {
		return nil, fmt.Errorf("failed to decode checklist definition: %w", err)
	}
	return sections, nil
}

// Save replaces the stored definition.
func (r *ChecklistRepository) Save(ctx context.Context, sections []checklist.Section) error {
	data, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("failed to encode checklist definition: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO checklist_definitions (id, sections, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET sections = excluded.sections, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save checklist definition: %w", err)
	}
	return nil
}
