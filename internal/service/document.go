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
	"taskdesk/internal/storage"
)

// DocumentInput carries document fields. Nil fields are left as they are on update.
type DocumentInput struct {
	Title    *string
	Content  *string
	Category *string
}

// DocumentService defines the use cases for a user's documents.
type DocumentService interface {
	// List returns documents most recently updated first. An unknown category means no filter.
	List(ctx context.Context, userID, category, query string) ([]model.Document, error)
	Get(ctx context.Context, userID, id string) (*model.Document, error)
	// Create stores a document; an unknown or missing category becomes "other".
	Create(ctx context.Context, userID string, in DocumentInput) (*model.Document, error)
	// Update changes the given fields and bumps updatedAt. An unknown category is ignored.
	Update(ctx context.Context, userID, id string, in DocumentInput) (*model.Document, error)
	// Delete removes the document together with its attachment objects and rows.
	Delete(ctx context.Context, userID, id string) error
}

type documentService struct {
	repo        repository.DocumentRepository
	attachments repository.AttachmentRepository
	store       storage.Storage
	now         func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(repo repository.DocumentRepository, attachments repository.AttachmentRepository, store storage.Storage) DocumentService {
	return &documentService{repo: repo, attachments: attachments, store: store, now: time.Now}
}

func (s *documentService) List(ctx context.Context, userID, category, query string) ([]model.Document, error) {
	f := repository.DocumentFilter{Query: strings.TrimSpace(query)}
	if c := model.Category(category); c.Valid() {
		f.Category = c
	}
	return s.repo.List(ctx, userID, f)
}

func (s *documentService) Get(ctx context.Context, userID, id string) (*model.Document, error) {
	doc, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Create(ctx context.Context, userID string, in DocumentInput) (*model.Document, error) {
	var title, content string
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
	}
	if title == "" {
		return nil, ErrTitleRequired
	}
	if in.Content != nil {
		content = *in.Content
	}
	category := model.CategoryOther
	if in.Category != nil && model.Category(*in.Category).Valid() {
		category = model.Category(*in.Category)
	}

	now := s.now().UTC()
	doc, err := s.repo.Create(ctx, &model.Document{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, userID, id string, in DocumentInput) (*model.Document, error) {
	var p repository.DocumentPatch
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		p.Title = &title
	}
	p.Content = in.Content
	if in.Category != nil {
		if c := model.Category(*in.Category); c.Valid() {
			p.Category = &c
		}
	}

	doc, err := s.repo.Update(ctx, userID, id, p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update document: %w", err)
	}
	return doc, nil
}

// Delete removes stored objects first; if that fails the rows stay so the keys are not lost.
func (s *documentService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	atts, err := s.attachments.ListByOwner(ctx, userID, model.OwnerDocument, id)
	if err != nil {
		return fmt.Errorf("list attachments: %w", err)
	}
	for _, a := range atts {
		if err := s.store.Delete(ctx, a.StorageKey); err != nil {
			return fmt.Errorf("delete storage: %w", err)
		}
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
