package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskdesk/internal/model"
	"taskdesk/internal/repository"
)

// RecipientInput carries recipient fields. Nil fields are left as they are on update;
// Emails is applied only when SetEmails is true.
type RecipientInput struct {
	FullName     *string
	Organization *string
	Position     *string
	Address      *string
	Emails       []string
	SetEmails    bool
}

// RecipientService defines the use cases for letter recipients.
type RecipientService interface {
	List(ctx context.Context, userID string) ([]model.Recipient, error)
	Create(ctx context.Context, userID string, in RecipientInput) (*model.Recipient, error)
	Update(ctx context.Context, userID, id string, in RecipientInput) (*model.Recipient, error)
	Delete(ctx context.Context, userID, id string) error
}

type recipientService struct {
	repo repository.RecipientRepository
	now  func() time.Time
}

// NewRecipientService constructs a new RecipientService.
func NewRecipientService(repo repository.RecipientRepository) RecipientService {
	return &recipientService{repo: repo, now: time.Now}
}

// cleanEmails trims addresses and drops blank ones. The result is never nil.
func cleanEmails(in []string) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func trimmedPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func (s *recipientService) List(ctx context.Context, userID string) ([]model.Recipient, error) {
	return s.repo.List(ctx, userID)
}

func (s *recipientService) Create(ctx context.Context, userID string, in RecipientInput) (*model.Recipient, error) {
	name := trimmed(in.FullName)
	if name == "" {
		return nil, ErrFullNameRequired
	}
	now := s.now().UTC()
	rc, err := s.repo.Create(ctx, &model.Recipient{
		ID:           uuid.NewString(),
		UserID:       userID,
		FullName:     name,
		Organization: trimmed(in.Organization),
		Position:     trimmed(in.Position),
		Address:      trimmed(in.Address),
		Emails:       cleanEmails(in.Emails),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("create recipient: %w", err)
	}
	return rc, nil
}

func (s *recipientService) Update(ctx context.Context, userID, id string, in RecipientInput) (*model.Recipient, error) {
	p := repository.RecipientPatch{
		FullName:     trimmedPtr(in.FullName),
		Organization: trimmedPtr(in.Organization),
		Position:     trimmedPtr(in.Position),
		Address:      trimmedPtr(in.Address),
	}
	if p.FullName != nil && *p.FullName == "" {
		return nil, ErrFullNameRequired
	}
	if in.SetEmails {
		p.Emails = cleanEmails(in.Emails)
		p.SetEmails = true
	}

	rc, err := s.repo.Update(ctx, userID, id, p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update recipient: %w", err)
	}
	return rc, nil
}

func (s *recipientService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
