package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/sentinel/internal/core/action"
	"github.com/example/sentinel/internal/core/evaluation"
	"github.com/example/sentinel/internal/db"
	"github.com/example/sentinel/internal/ports/secondary"
)

// testTime is a fixed reference instant for records created in tests.
var testTime = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	// Use the authoritative schema from schema.go
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedEvaluation inserts a minimal completed evaluation row so actions
// can reference it.
func seedEvaluation(t *testing.T, testDB *sql.DB, id string, createdAt time.Time) {
	t.Helper()
	_, err := testDB.Exec(
		`INSERT INTO evaluations (id, created_at, compliance, scores, answers)
		 VALUES (?, ?, 80.0, '{}', '{}')`,
		id, createdAt,
	)
	if err != nil {
		t.Fatalf("failed to seed evaluation: %v", err)
	}
}

// newActionRecord builds a linked action record with sensible defaults.
func newActionRecord(id, evaluationID string) *secondary.ActionRecord {
	return &secondary.ActionRecord{
		ID:            id,
		EvaluationID:  evaluationID,
		SectionID:     "opening",
		QuestionIndex: 2,
		QuestionText:  "Alarm disarmed?",
		RootCause:     &evaluation.RootCause{Why1: "a", Why2: "b", Why3: "c"},
		Description:   "Review the alarm procedure",
		Responsible:   "Dana",
		DueDate:       "2026-03-20",
		Priority:      action.PriorityHigh,
		Status:        action.StatusNew,
		Tags:          []string{"safety"},
		CreatedAt:     testTime,
		UpdatedAt:     testTime,
	}
}

func newHistoryRecord(actionID string) *secondary.HistoryRecord {
	return &secondary.HistoryRecord{
		ActionID:  actionID,
		Status:    action.StatusNew,
		Comment:   "action created",
		ChangedBy: "admin",
		Timestamp: testTime,
	}
}

// mustCreateAction inserts an action with its creation entry.
func mustCreateAction(t *testing.T, repo secondary.ActionRepository, rec *secondary.ActionRecord) {
	t.Helper()
	if err := repo.Create(context.Background(), rec, newHistoryRecord(rec.ID)); err != nil {
		t.Fatalf("failed to create action: %v", err)
	}
}
