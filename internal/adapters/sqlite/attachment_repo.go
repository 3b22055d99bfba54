package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/sentinel/internal/ports/secondary"
)

// AttachmentRepository implements secondary.AttachmentRepository with
// SQLite. Evidence blobs live in the database so deleting a parent can
// take its files with it in the same transaction.
type AttachmentRepository struct {
	db *sql.DB
}

// NewAttachmentRepository creates a new SQLite attachment repository.
func NewAttachmentRepository(db *sql.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Put(ctx context.Context, att *secondary.AttachmentRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO attachments (id, parent_id, file_name, file_type, data) VALUES (?, ?, ?, ?, ?)",
		att.ID, att.ParentID, att.FileName, att.FileType, att.Data,
	)
	if err != nil {
		return fmt.Errorf("failed to insert attachment: %w", err)
	}
	return nil
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id string) (*secondary.AttachmentRecord, error) {
	var (
		att      secondary.AttachmentRecord
		fileType sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, parent_id, file_name, file_type, data FROM attachments WHERE id = ?", id,
	).Scan(&att.ID, &att.ParentID, &att.FileName, &fileType, &att.Data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	att.FileType = fileType.String
	return &att, nil
}

func (r *AttachmentRepository) ListByParent(ctx context.Context, parentID string) ([]*secondary.AttachmentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, parent_id, file_name, file_type, data FROM attachments WHERE parent_id = ? ORDER BY id ASC",
		parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	var attachments []*secondary.AttachmentRecord
	for rows.Next() {
		var (
			att      secondary.AttachmentRecord
			fileType sql.NullString
		)
		if err := rows.Scan(&att.ID, &att.ParentID, &att.FileName, &fileType, &att.Data); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		att.FileType = fileType.String
		attachments = append(attachments, &att)
	}
	return attachments, rows.Err()
}

func (r *AttachmentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM attachments WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}
