package postgres

import (
	"context"
	"database/sql"

	"taskdesk/internal/model"
	"taskdesk/internal/repository"
)

// AttachmentPostgres is a PostgreSQL implementation of repository.AttachmentRepository.
type AttachmentPostgres struct {
	db *sql.DB
}

// NewAttachmentPostgres creates a new AttachmentPostgres repository.
func NewAttachmentPostgres(db *sql.DB) *AttachmentPostgres {
	return &AttachmentPostgres{db: db}
}

var _ repository.AttachmentRepository = (*AttachmentPostgres)(nil)

const attachmentColumns = `id, user_id, owner_kind, owner_id, file_name, file_size, content_type, storage_key, cdn_url, created_at`

func scanAttachment(row interface{ Scan(...any) error }) (*model.Attachment, error) {
	var a model.Attachment
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.OwnerKind,
		&a.OwnerID,
		&a.FileName,
		&a.FileSize,
		&a.ContentType,
		&a.StorageKey,
		&a.CdnURL,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttachmentPostgres) Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	const q = `
		INSERT INTO attachments (id, user_id, owner_kind, owner_id, file_name, file_size, content_type, storage_key, cdn_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + attachmentColumns
	out, err := scanAttachment(r.db.QueryRowContext(ctx, q,
		a.ID,
		a.UserID,
		a.OwnerKind,
		a.OwnerID,
		a.FileName,
		a.FileSize,
		a.ContentType,
		a.StorageKey,
		a.CdnURL,
		a.CreatedAt,
	))
	if err != nil {
		return nil, translateErr(err)
	}
	return out, nil
}

func (r *AttachmentPostgres) FindByID(ctx context.Context, userID, id string) (*model.Attachment, error) {
	const q = `SELECT ` + attachmentColumns + ` FROM attachments WHERE id = $1 AND user_id = $2`
	return scanAttachment(r.db.QueryRowContext(ctx, q, id, userID))
}

func (r *AttachmentPostgres) ListByOwner(ctx context.Context, userID string, kind model.OwnerKind, ownerID string) ([]model.Attachment, error) {
	const q = `
		SELECT ` + attachmentColumns + `
		FROM attachments
		WHERE user_id = $1 AND owner_kind = $2 AND owner_id = $3
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID, kind, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Attachment, 0)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *AttachmentPostgres) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM attachments WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return err
	}
	return rowsAffectedOrNoRows(res)
}
