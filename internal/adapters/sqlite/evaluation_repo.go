// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/sentinel/internal/core/evaluation"
	"github.com/example/sentinel/internal/ports/secondary"
)

// EvaluationRepository implements secondary.EvaluationRepository with
// SQLite. Scores, answers, root causes, and evidence refs are stored as
// JSON columns; they are only ever read back whole.
type EvaluationRepository struct {
	db *sql.DB
}

// NewEvaluationRepository creates a new SQLite evaluation repository.
func NewEvaluationRepository(db *sql.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// SaveWithActions persists the evaluation and its newly created actions
// in one transaction.
func (r *EvaluationRepository) SaveWithActions(ctx context.Context, eval *evaluation.Completed, actions []*secondary.ActionRecord, entries []*secondary.HistoryRecord) error {
	scores, err := json.Marshal(eval.Scores)
	if err != nil {
		return fmt.Errorf("failed to encode scores: %w", err)
	}
	answers, err := json.Marshal(eval.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}
	rootCauses, err := json.Marshal(eval.RootCauses)
	if err != nil {
		return fmt.Errorf("failed to encode root causes: %w", err)
	}
	evidence, err := json.Marshal(eval.Evidence)
	if err != nil {
		return fmt.Errorf("failed to encode evidence: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO evaluations (id, created_at, compliance, scores, answers, root_causes, evidence)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		eval.ID, eval.CreatedAt, eval.Compliance, string(scores), string(answers), string(rootCauses), string(evidence),
	)
	if err != nil {
		return fmt.Errorf("failed to insert evaluation: %w", err)
	}

	for _, rec := range actions {
		if err := insertAction(ctx, tx, rec); err != nil {
			return err
		}
	}
	for _, entry := range entries {
		if err := insertHistory(ctx, tx, entry); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit evaluation: %w", err)
	}
	return nil
}

const evaluationColumns = "id, created_at, compliance, scores, answers, root_causes, evidence"

func scanEvaluation(scanner interface{ Scan(...any) error }) (*evaluation.Completed, error) {
	var (
		rec        evaluation.Completed
		scores     string
		answers    string
		rootCauses sql.NullString
		evidence   sql.NullString
	)
	err := scanner.Scan(&rec.ID, &rec.CreatedAt, &rec.Compliance, &scores, &answers, &rootCauses, &evidence)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(scores), &rec.Scores); err != nil {
		return nil, fmt.Errorf("failed to decode scores: %w", err)
	}
	if err := json.Unmarshal([]byte(answers), &rec.Answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	if rootCauses.Valid && rootCauses.String != "" {
		if err := json.Unmarshal([]byte(rootCauses.String), &rec.RootCauses); err != nil {
			return nil, fmt.Errorf("failed to decode root causes: %w", err)
		}
	}
	if evidence.Valid && evidence.String != "" {
		if err := json.Unmarshal([]byte(evidence.String), &rec.Evidence); err != nil {
			return nil, fmt.Errorf("failed to decode evidence: %w", err)
		}
	}
	return &rec, nil
}

// List retrieves all evaluations ordered by creation time ascending.
func (r *EvaluationRepository) List(ctx context.Context) ([]*evaluation.Completed, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+evaluationColumns+" FROM evaluations ORDER BY created_at ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer rows.Close()

	var evals []*evaluation.Completed
	for rows.Next() {
		rec, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		evals = append(evals, rec)
	}
	return evals, rows.Err()
}

// GetByID retrieves one evaluation, nil when absent.
func (r *EvaluationRepository) GetByID(ctx context.Context, id string) (*evaluation.Completed, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+evaluationColumns+" FROM evaluations WHERE id = ?", id,
	)
	rec, err := scanEvaluation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	return rec, nil
}

// Delete removes evaluations, their actions, history, and attachments.
// Question evidence uses "<evaluation_id>-..." parent ids, so a prefix
// match catches it; action evidence is removed per linked action.
func (r *EvaluationRepository) Delete(ctx context.Context, ids []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM attachments WHERE parent_id IN
			 (SELECT id FROM corrective_actions WHERE evaluation_id = ?)`, id)
		if err != nil {
			return fmt.Errorf("failed to delete action attachments: %w", err)
		}
		if _, err = tx.ExecContext(ctx, "DELETE FROM attachments WHERE parent_id LIKE ? || '-%'", id); err != nil {
			return fmt.Errorf("failed to delete evaluation attachments: %w", err)
		}
		// corrective_actions and action_history cascade via foreign keys
		if _, err = tx.ExecContext(ctx, "DELETE FROM evaluations WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete evaluation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}
