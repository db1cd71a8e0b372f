package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskdesk/internal/letter"
	"taskdesk/internal/model"
	"taskdesk/internal/repository"
)

// LetterExport is a rendered letter packaged as an .eml file.
type LetterExport struct {
	FileName string
	Data     []byte
}

// LetterService fills documents with recipient data.
type LetterService interface {
	Render(ctx context.Context, userID, docID, recipientID string) (*letter.Rendered, error)
	// Export renders the letter and packages it as an RFC 5322 message to all of the recipient's emails.
	Export(ctx context.Context, userID, docID, recipientID string) (*LetterExport, error)
}

type letterService struct {
	docs       repository.DocumentRepository
	recipients repository.RecipientRepository
	from       string
	loc        *time.Location
	now        func() time.Time
}

// NewLetterService constructs a new LetterService. from is the sender address of exported
// letters and may be empty; dates are formatted in loc.
func NewLetterService(docs repository.DocumentRepository, recipients repository.RecipientRepository, from string, loc *time.Location) LetterService {
	if loc == nil {
		loc = time.UTC
	}
	return &letterService{docs: docs, recipients: recipients, from: from, loc: loc, now: time.Now}
}

func (s *letterService) load(ctx context.Context, userID, docID, recipientID string) (*model.Document, *model.Recipient, error) {
	if recipientID == "" {
		return nil, nil, ErrRecipientRequired
	}
	doc, err := s.docs.FindByID(ctx, userID, docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	rc, err := s.recipients.FindByID(ctx, userID, recipientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return doc, rc, nil
}

func (s *letterService) Render(ctx context.Context, userID, docID, recipientID string) (*letter.Rendered, error) {
	doc, rc, err := s.load(ctx, userID, docID, recipientID)
	if err != nil {
		return nil, err
	}
	out := letter.RenderDocument(doc, rc, s.now().In(s.loc))
	return &out, nil
}

func (s *letterService) Export(ctx context.Context, userID, docID, recipientID string) (*LetterExport, error) {
	doc, rc, err := s.load(ctx, userID, docID, recipientID)
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.loc)
	r := letter.RenderDocument(doc, rc, now)

	var buf bytes.Buffer
	if err := letter.WriteEML(&buf, letter.Message{
		From:    s.from,
		ToName:  rc.FullName,
		To:      rc.Emails,
		Subject: r.Title,
		Body:    r.Content,
		Date:    now,
	}); err != nil {
		return nil, fmt.Errorf("export letter: %w", err)
	}
	return &LetterExport{FileName: sanitizeFileName(r.Title) + ".eml", Data: buf.Bytes()}, nil
}
