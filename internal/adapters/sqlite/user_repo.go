package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/sentinel/internal/core/access"
	"github.com/example/sentinel/internal/ports/secondary"
)

// UserRepository implements secondary.UserRepository with SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *secondary.UserRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, display_name, password_hash, role, active, last_login, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.DisplayName, u.PasswordHash, string(u.Role), u.Active, nullTime(u.LastLogin), u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

const userColumns = "id, username, display_name, password_hash, role, active, last_login, created_at"

func scanUser(scanner interface{ Scan(...any) error }) (*secondary.UserRecord, error) {
	var (
		rec         secondary.UserRecord
		displayName sql.NullString
		role        string
		lastLogin   sql.NullTime
	)
	err := scanner.Scan(&rec.ID, &rec.Username, &displayName, &rec.PasswordHash, &role, &rec.Active, &lastLogin, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	rec.DisplayName = displayName.String
	rec.Role = access.Role(role)
	if lastLogin.Valid {
		rec.LastLogin = lastLogin.Time
	}
	return &rec, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*secondary.UserRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	rec, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return rec, nil
}

// GetByUsername matches case-insensitively; the username column is
// declared COLLATE NOCASE.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*secondary.UserRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	rec, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return rec, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*secondary.UserRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY username ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*secondary.UserRecord
	for rows.Next() {
		rec, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, rec)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *secondary.UserRecord) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET display_name = ?, password_hash = ?, role = ?, active = ? WHERE id = ?`,
		u.DisplayName, u.PasswordHash, string(u.Role), u.Active, u.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %s not found", u.ID)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE users SET last_login = ? WHERE id = ?", at, id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
