package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/sentinel/internal/core/action"
	"github.com/example/sentinel/internal/core/evaluation"
	"github.com/example/sentinel/internal/ports/secondary"
)

// ActionRepository implements secondary.ActionRepository with SQLite.
type ActionRepository struct {
	db *sql.DB
}

// NewActionRepository creates a new SQLite action repository.
func NewActionRepository(db *sql.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

// execer covers both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertAction(ctx context.Context, ex execer, rec *secondary.ActionRecord) error {
	var evalID sql.NullString
	if rec.EvaluationID != "" {
		evalID = sql.NullString{String: rec.EvaluationID, Valid: true}
	}
	var rootCause sql.NullString
	if rec.RootCause != nil {
		data, err := json.Marshal(rec.RootCause)
		if err != nil {
			return fmt.Errorf("failed to encode root cause: %w", err)
		}
		rootCause = sql.NullString{String: string(data), Valid: true}
	}
	evidenceIDs, err := encodeStrings(rec.EvidenceIDs)
	if err != nil {
		return fmt.Errorf("failed to encode evidence ids: %w", err)
	}
	tags, err := encodeStrings(rec.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = ex.ExecContext(ctx,
		`INSERT INTO corrective_actions
		 (id, evaluation_id, section_id, question_index, question_text, root_cause,
		  description, responsible, due_date, priority, status, evidence_ids, tags,
		  created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, evalID, rec.SectionID, rec.QuestionIndex, rec.QuestionText, rootCause,
		rec.Description, rec.Responsible, rec.DueDate, string(rec.Priority), string(rec.Status),
		evidenceIDs, tags, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert action: %w", err)
	}
	return nil
}

func insertHistory(ctx context.Context, ex execer, entry *secondary.HistoryRecord) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO action_history (action_id, status, comment, changed_by, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ActionID, string(entry.Status), entry.Comment, entry.ChangedBy, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// encodeStrings encodes a string slice as JSON, NULL for empty.
func encodeStrings(values []string) (sql.NullString, error) {
	if len(values) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeStrings(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw.String), &values); err != nil {
		return nil, err
	}
	return values, nil
}

// Create persists a new action and its creation history entry
// atomically.
func (r *ActionRepository) Create(ctx context.Context, rec *secondary.ActionRecord, first *secondary.HistoryRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertAction(ctx, tx, rec); err != nil {
		return err
	}
	if err := insertHistory(ctx, tx, first); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit action: %w", err)
	}
	return nil
}

const actionColumns = `id, evaluation_id, section_id, question_index, question_text, root_cause,
	description, responsible, due_date, priority, status, evidence_ids, tags, created_at, updated_at`

func scanAction(scanner interface{ Scan(...any) error }) (*secondary.ActionRecord, error) {
	var (
		rec          secondary.ActionRecord
		evalID       sql.NullString
		sectionID    sql.NullString
		questionText sql.NullString
		rootCause    sql.NullString
		dueDate      sql.NullString
		evidenceIDs  sql.NullString
		tags         sql.NullString
		priority     string
		status       string
	)
	err := scanner.Scan(&rec.ID, &evalID, &sectionID, &rec.QuestionIndex, &questionText, &rootCause,
		&rec.Description, &rec.Responsible, &dueDate, &priority, &status, &evidenceIDs, &tags,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rec.EvaluationID = evalID.String
	rec.SectionID = sectionID.String
	rec.QuestionText = questionText.String
	rec.DueDate = dueDate.String
	rec.Priority = action.Priority(priority)
	rec.Status = action.Status(status)
	if rootCause.Valid && rootCause.String != "" {
		var rc evaluation.RootCause
		if err := json.Unmarshal([]byte(rootCause.String), &rc); err != nil {
			return nil, fmt.Errorf("failed to decode root cause: %w", err)
		}
		rec.RootCause = &rc
	}
	if rec.EvidenceIDs, err = decodeStrings(evidenceIDs); err != nil {
		return nil, fmt.Errorf("failed to decode evidence ids: %w", err)
	}
	if rec.Tags, err = decodeStrings(tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return &rec, nil
}

// GetByID retrieves an action, nil when absent.
func (r *ActionRepository) GetByID(ctx context.Context, id string) (*secondary.ActionRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+actionColumns+" FROM corrective_actions WHERE id = ?", id,
	)
	rec, err := scanAction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get action: %w", err)
	}
	return rec, nil
}

// List retrieves actions matching the filters, ordered by creation time
// ascending.
func (r *ActionRepository) List(ctx context.Context, filters secondary.ActionFilters) ([]*secondary.ActionRecord, error) {
	query := "SELECT " + actionColumns + " FROM corrective_actions WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.Responsible != "" {
		query += " AND responsible = ?"
		args = append(args, filters.Responsible)
	}
	if filters.Priority != "" {
		query += " AND priority = ?"
		args = append(args, filters.Priority)
	}
	if filters.EvaluationID != "" {
		query += " AND evaluation_id = ?"
		args = append(args, filters.EvaluationID)
	}

	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	defer rows.Close()

	var actions []*secondary.ActionRecord
	for rows.Next() {
		rec, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		actions = append(actions, rec)
	}
	return actions, rows.Err()
}

// UpdateStatus updates status and updated_at and appends the history
// entry atomically.
func (r *ActionRepository) UpdateStatus(ctx context.Context, id string, status action.Status, updatedAt time.Time, entry *secondary.HistoryRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE corrective_actions SET status = ?, updated_at = ? WHERE id = ?",
		string(status), updatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update action status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("action %s not found", id)
	}
	if err := insertHistory(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}
	return nil
}

// Update rewrites an action's free fields.
func (r *ActionRepository) Update(ctx context.Context, rec *secondary.ActionRecord) error {
	evidenceIDs, err := encodeStrings(rec.EvidenceIDs)
	if err != nil {
		return fmt.Errorf("failed to encode evidence ids: %w", err)
	}
	tags, err := encodeStrings(rec.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE corrective_actions
		 SET description = ?, responsible = ?, due_date = ?, priority = ?,
		     evidence_ids = ?, tags = ?, updated_at = ?
		 WHERE id = ?`,
		rec.Description, rec.Responsible, rec.DueDate, string(rec.Priority),
		evidenceIDs, tags, rec.UpdatedAt, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update action: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("action %s not found", rec.ID)
	}
	return nil
}

// Delete removes an action, its history, and its attachments.
func (r *ActionRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM attachments WHERE parent_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete action attachments: %w", err)
	}
	// action_history cascades via foreign key
	if _, err := tx.ExecContext(ctx, "DELETE FROM corrective_actions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete action: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// History retrieves an action's entries in insertion order.
func (r *ActionRepository) History(ctx context.Context, actionID string) ([]*secondary.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT uid, action_id, status, comment, changed_by, timestamp
		 FROM action_history WHERE action_id = ? ORDER BY uid ASC`,
		actionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.HistoryRecord
	for rows.Next() {
		var (
			entry   secondary.HistoryRecord
			status  string
			comment sql.NullString
			by      sql.NullString
		)
		if err := rows.Scan(&entry.UID, &entry.ActionID, &status, &comment, &by, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.Status = action.Status(status)
		entry.Comment = comment.String
		entry.ChangedBy = by.String
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
