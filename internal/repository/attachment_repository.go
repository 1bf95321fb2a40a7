package repository

import (
	"context"
	"fmt"

	"github.com/deskops/servicedesk/internal/domain"
)

// AttachmentRepository records upload metadata for tickets and comments.
// Rows are immutable; deletion happens via owner cascade only.
type AttachmentRepository interface {
	Create(ctx context.Context, owner domain.AttachmentOwner, att *domain.Attachment) error
	ListByOwner(ctx context.Context, owner domain.AttachmentOwner, ownerID int64) ([]domain.Attachment, error)
}

type attachmentRepository struct {
	db DB
}

// NewAttachmentRepository returns a Postgres-backed implementation.
func NewAttachmentRepository(db DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func ownerTable(owner domain.AttachmentOwner) (table, fk string) {
	if owner == domain.AttachmentOwnerComment {
		return "comment_attachments", "comment_id"
	}
	return "ticket_attachments", "ticket_id"
}

func (r *attachmentRepository) Create(ctx context.Context, owner domain.AttachmentOwner, att *domain.Attachment) error {
	table, fk := ownerTable(owner)
	query := fmt.Sprintf(`
        INSERT INTO %s (%s, file_name, file_path, file_size, mime_type)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`, table, fk)

	return r.db.QueryRow(ctx, query,
		att.OwnerID,
		att.FileName,
		att.FilePath,
		att.FileSize,
		att.MimeType,
	).Scan(&att.ID, &att.CreatedAt)
}

func (r *attachmentRepository) ListByOwner(ctx context.Context, owner domain.AttachmentOwner, ownerID int64) ([]domain.Attachment, error) {
	table, fk := ownerTable(owner)
	query := fmt.Sprintf(`
        SELECT id, %s, file_name, file_path, file_size, mime_type, created_at
        FROM %s WHERE %s=$1 ORDER BY created_at ASC`, fk, table, fk)

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attachment
	for rows.Next() {
		var att domain.Attachment
		if err := rows.Scan(
			&att.ID,
			&att.OwnerID,
			&att.FileName,
			&att.FilePath,
			&att.FileSize,
			&att.MimeType,
			&att.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, att)
	}
	return result, rows.Err()
}
