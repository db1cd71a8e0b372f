package postgres

import (
	"context"
	"database/sql"
	"strings"

	"taskdesk/internal/database"
	"taskdesk/internal/model"
	"taskdesk/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, user_id, title, content, category, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Title,
		&d.Content,
		&d.Category,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, d *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, user_id, title, content, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + documentColumns
	return scanDocument(r.db.QueryRowContext(ctx, q,
		d.ID,
		d.UserID,
		d.Title,
		d.Content,
		d.Category,
		d.CreatedAt,
		d.UpdatedAt,
	))
}

// FindByID fetches a single document of the user.
func (r *DocumentPostgres) FindByID(ctx context.Context, userID, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND user_id = $2`
	return scanDocument(r.db.QueryRowContext(ctx, q, id, userID))
}

// List returns the user's documents, most recently updated first.
func (r *DocumentPostgres) List(ctx context.Context, userID string, f repository.DocumentFilter) ([]model.Document, error) {
	var s stmt
	conds := []string{"user_id = " + s.bind(userID)}
	if f.Category != "" {
		conds = append(conds, "category = "+s.bind(f.Category))
	}
	if f.Query != "" {
		ph := s.bind(containsPattern(f.Query))
		conds = append(conds, "(title ILIKE "+ph+" OR content ILIKE "+ph+")")
	}

	q := `SELECT ` + documentColumns + ` FROM documents WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY updated_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, s.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies p, bumps updated_at and returns the stored document.
func (r *DocumentPostgres) Update(ctx context.Context, userID, id string, p repository.DocumentPatch) (*model.Document, error) {
	var s stmt
	s.raw("updated_at = now()")
	if p.Title != nil {
		s.set("title", *p.Title)
	}
	if p.Content != nil {
		s.set("content", *p.Content)
	}
	if p.Category != nil {
		s.set("category", *p.Category)
	}

	set := s.setList()
	q := `UPDATE documents SET ` + set + ` WHERE id = ` + s.bind(id) + ` AND user_id = ` + s.bind(userID) +
		` RETURNING ` + documentColumns
	return scanDocument(r.db.QueryRowContext(ctx, q, s.args...))
}

// Delete removes the document and its attachment rows in one transaction.
func (r *DocumentPostgres) Delete(ctx context.Context, userID, id string) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		const qAtt = `DELETE FROM attachments WHERE user_id = $1 AND owner_kind = 'document' AND owner_id = $2`
		if _, err := tx.ExecContext(ctx, qAtt, userID, id); err != nil {
			return err
		}

		const qDoc = `DELETE FROM documents WHERE id = $1 AND user_id = $2`
		res, err := tx.ExecContext(ctx, qDoc, id, userID)
		if err != nil {
			return err
		}
		return rowsAffectedOrNoRows(res)
	})
}
