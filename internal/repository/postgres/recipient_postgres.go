package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"taskdesk/internal/model"
	"taskdesk/internal/repository"
)

// RecipientPostgres is a PostgreSQL implementation of repository.RecipientRepository.
// Emails are stored in a TEXT[] column.
type RecipientPostgres struct {
	db *sql.DB
}

// NewRecipientPostgres creates a new RecipientPostgres repository.
func NewRecipientPostgres(db *sql.DB) *RecipientPostgres {
	return &RecipientPostgres{db: db}
}

var _ repository.RecipientRepository = (*RecipientPostgres)(nil)

const recipientColumns = `id, user_id, full_name, organization, position, address, emails, created_at, updated_at`

func scanRecipient(row interface{ Scan(...any) error }) (*model.Recipient, error) {
	var (
		rc     model.Recipient
		emails pq.StringArray
	)
	if err := row.Scan(
		&rc.ID,
		&rc.UserID,
		&rc.FullName,
		&rc.Organization,
		&rc.Position,
		&rc.Address,
		&emails,
		&rc.CreatedAt,
		&rc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rc.Emails = []string(emails)
	if rc.Emails == nil {
		rc.Emails = []string{}
	}
	return &rc, nil
}

func (r *RecipientPostgres) Create(ctx context.Context, rc *model.Recipient) (*model.Recipient, error) {
	const q = `
		INSERT INTO recipients (id, user_id, full_name, organization, position, address, emails, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + recipientColumns
	return scanRecipient(r.db.QueryRowContext(ctx, q,
		rc.ID,
		rc.UserID,
		rc.FullName,
		rc.Organization,
		rc.Position,
		rc.Address,
		pq.Array(rc.Emails),
		rc.CreatedAt,
		rc.UpdatedAt,
	))
}

func (r *RecipientPostgres) FindByID(ctx context.Context, userID, id string) (*model.Recipient, error) {
	const q = `SELECT ` + recipientColumns + ` FROM recipients WHERE id = $1 AND user_id = $2`
	return scanRecipient(r.db.QueryRowContext(ctx, q, id, userID))
}

func (r *RecipientPostgres) List(ctx context.Context, userID string) ([]model.Recipient, error) {
	const q = `SELECT ` + recipientColumns + ` FROM recipients WHERE user_id = $1 ORDER BY full_name ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Recipient, 0)
	for rows.Next() {
		rc, err := scanRecipient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *RecipientPostgres) Update(ctx context.Context, userID, id string, p repository.RecipientPatch) (*model.Recipient, error) {
	var s stmt
	s.raw("updated_at = now()")
	if p.FullName != nil {
		s.set("full_name", *p.FullName)
	}
	if p.Organization != nil {
		s.set("organization", *p.Organization)
	}
	if p.Position != nil {
		s.set("position", *p.Position)
	}
	if p.Address != nil {
		s.set("address", *p.Address)
	}
	if p.SetEmails {
		s.set("emails", pq.Array(p.Emails))
	}

	set := s.setList()
	q := `UPDATE recipients SET ` + set + ` WHERE id = ` + s.bind(id) + ` AND user_id = ` + s.bind(userID) +
		` RETURNING ` + recipientColumns
	return scanRecipient(r.db.QueryRowContext(ctx, q, s.args...))
}

func (r *RecipientPostgres) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM recipients WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return err
	}
	return rowsAffectedOrNoRows(res)
}
