package db

// SchemaSQL is the complete modern schema for fresh installs. This
// schema reflects the current state after all migrations and is the
// single source of truth: tests build their in-memory databases from
// GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so any
// drift between repository code and this schema fails immediately with
// "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in internal/db/migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Completed evaluations (finalized checklist walkthroughs)
CREATE TABLE IF NOT EXISTS evaluations (
	id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL,
	compliance REAL NOT NULL,
	scores TEXT NOT NULL,
	answers TEXT NOT NULL,
	root_causes TEXT,
	evidence TEXT
);

-- Corrective actions. evaluation_id is NULL for manually created
-- actions; question_index is -1 when the action has no originating
-- question. Overdue is never stored, it is derived from due_date.
CREATE TABLE IF NOT EXISTS corrective_actions (
	id TEXT PRIMARY KEY,
	evaluation_id TEXT,
	section_id TEXT,
	question_index INTEGER NOT NULL DEFAULT -1,
	question_text TEXT,
	root_cause TEXT,
	description TEXT NOT NULL,
	responsible TEXT NOT NULL,
	due_date TEXT,
	priority TEXT NOT NULL CHECK(priority IN ('low', 'medium', 'high')) DEFAULT 'medium',
	status TEXT NOT NULL CHECK(status IN ('new', 'planned', 'in_progress', 'pending_verification', 'completed', 'cancelled')) DEFAULT 'new',
	evidence_ids TEXT,
	tags TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (evaluation_id) REFERENCES evaluations(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_actions_evaluation ON corrective_actions(evaluation_id);
CREATE INDEX IF NOT EXISTS idx_actions_status ON corrective_actions(status);
CREATE INDEX IF NOT EXISTS idx_actions_responsible ON corrective_actions(responsible);

-- Append-only status audit trail
CREATE TABLE IF NOT EXISTS action_history (
	uid INTEGER PRIMARY KEY AUTOINCREMENT,
	action_id TEXT NOT NULL,
	status TEXT NOT NULL,
	comment TEXT,
	changed_by TEXT,
	timestamp DATETIME NOT NULL,
	FOREIGN KEY (action_id) REFERENCES corrective_actions(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_history_action ON action_history(action_id);

-- Evidence files. parent_id is either "<evaluation_id>-<section>-<n>"
-- for question evidence or an action id for action evidence.
CREATE TABLE IF NOT EXISTS attachments (
	id TEXT PRIMARY KEY,
	parent_id TEXT NOT NULL,
	file_name TEXT NOT NULL,
	file_type TEXT,
	data BLOB
);

CREATE INDEX IF NOT EXISTS idx_attachments_parent ON attachments(parent_id);

-- Checklist definition, one JSON document in a single row
CREATE TABLE IF NOT EXISTS checklist_definitions (
	id INTEGER PRIMARY KEY CHECK(id = 1),
	sections TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

-- Users
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE COLLATE NOCASE,
	display_name TEXT,
	password_hash BLOB NOT NULL,
	role TEXT NOT NULL CHECK(role IN ('SUPER_ADMIN', 'ADMIN', 'SUPERVISOR', 'OPERATOR', 'VIEWER')),
	active INTEGER NOT NULL DEFAULT 1,
	last_login DATETIME,
	created_at DATETIME NOT NULL
);
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	// Check if schema_version exists to distinguish fresh installs
	var tableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		// Completely fresh install - create the modern schema directly
		// and mark every migration as applied
		if _, err := db.Exec(SchemaSQL); err != nil {
			return err
		}
		if _, err := db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`); err != nil {
			return err
		}
		for _, m := range migrations {
			if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
				return err
			}
		}
		return nil
	}

	// schema_version table exists - run any pending migrations
	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
