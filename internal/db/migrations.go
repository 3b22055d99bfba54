package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "add_tags_column_to_corrective_actions",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_display_name_column_to_users",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_responsible_index_to_corrective_actions",
		Up:      migrationV3,
	},
}

// migrationV1 adds the tags column to corrective_actions. Earlier
// installs stored actions without tags.
func migrationV1(db *sql.DB) error {
	if hasColumn(db, "corrective_actions", "tags") {
		return nil
	}
	_, err := db.Exec("ALTER TABLE corrective_actions ADD COLUMN tags TEXT")
	return err
}

// migrationV2 adds display_name to users.
func migrationV2(db *sql.DB) error {
	if hasColumn(db, "users", "display_name") {
		return nil
	}
	_, err := db.Exec("ALTER TABLE users ADD COLUMN display_name TEXT")
	return err
}

// migrationV3 adds the responsible index used by action plan filters.
func migrationV3(db *sql.DB) error {
	_, err := db.Exec("CREATE INDEX IF NOT EXISTS idx_actions_responsible ON corrective_actions(responsible)")
	return err
}

// hasColumn reports whether table already has the named column.
func hasColumn(db *sql.DB, table, column string) bool {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}

// RunMigrations executes all pending migrations
func RunMigrations() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	// Create schema_version table if it doesn't exist
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}
		if err := migration.Up(db); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}
	return nil
}
