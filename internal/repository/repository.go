package repository

import (
	"context"
	"errors"
	"time"

	"taskdesk/internal/model"
)

// Repositories return sql.ErrNoRows when a row does not exist or belongs to another user.
// Every method that touches user data is scoped by userID.

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// UserRepository defines data access for user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// TaskFilter narrows a task listing. Empty fields match everything.
type TaskFilter struct {
	Status model.TaskStatus
	Query  string
}

// TaskPatch lists the task columns to change. Nil fields are left untouched.
type TaskPatch struct {
	Title            *string
	Description      *string
	Priority         *model.Priority
	Status           *model.TaskStatus
	DueDate          *time.Time
	ClearDueDate     bool
	CompletedAt      *time.Time
	ClearCompletedAt bool
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil && p.Status == nil &&
		p.DueDate == nil && !p.ClearDueDate && p.CompletedAt == nil && !p.ClearCompletedAt
}

// TaskRepository defines data access for tasks.
type TaskRepository interface {
	Create(ctx context.Context, t *model.Task) (*model.Task, error)
	FindByID(ctx context.Context, userID, id string) (*model.Task, error)
	// List returns tasks newest first.
	List(ctx context.Context, userID string, f TaskFilter) ([]model.Task, error)
	Update(ctx context.Context, userID, id string, p TaskPatch) (*model.Task, error)
}

// DocumentFilter narrows a document listing. Empty fields match everything.
type DocumentFilter struct {
	Category model.Category
	Query    string
}

// DocumentPatch lists the document columns to change. updated_at is always bumped.
type DocumentPatch struct {
	Title    *string
	Content  *string
	Category *model.Category
}

// DocumentRepository defines data access for documents.
type DocumentRepository interface {
	Create(ctx context.Context, d *model.Document) (*model.Document, error)
	FindByID(ctx context.Context, userID, id string) (*model.Document, error)
	// List returns documents most recently updated first.
	List(ctx context.Context, userID string, f DocumentFilter) ([]model.Document, error)
	Update(ctx context.Context, userID, id string, p DocumentPatch) (*model.Document, error)
	// Delete removes the document together with its attachment rows.
	Delete(ctx context.Context, userID, id string) error
}

// RecipientPatch lists the recipient columns to change. updated_at is always bumped.
type RecipientPatch struct {
	FullName     *string
	Organization *string
	Position     *string
	Address      *string
	Emails       []string
	SetEmails    bool
}

// RecipientRepository defines data access for letter recipients.
type RecipientRepository interface {
	Create(ctx context.Context, r *model.Recipient) (*model.Recipient, error)
	FindByID(ctx context.Context, userID, id string) (*model.Recipient, error)
	// List returns recipients ordered by full name.
	List(ctx context.Context, userID string) ([]model.Recipient, error)
	Update(ctx context.Context, userID, id string, p RecipientPatch) (*model.Recipient, error)
	Delete(ctx context.Context, userID, id string) error
}

// AttachmentRepository defines data access for attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error)
	FindByID(ctx context.Context, userID, id string) (*model.Attachment, error)
	// ListByOwner returns the owner's attachments newest first.
	ListByOwner(ctx context.Context, userID string, kind model.OwnerKind, ownerID string) ([]model.Attachment, error)
	Delete(ctx context.Context, userID, id string) error
}
