package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskdesk/internal/model"
	"taskdesk/internal/repository"
	"taskdesk/internal/storage"
)

// DefaultContentType is stored when an upload does not name one.
const DefaultContentType = "application/octet-stream"

// UploadInput is a base64 encoded file for a task or document.
// FileData may also be a data URL ("data:<type>;base64,<payload>").
type UploadInput struct {
	OwnerKind   model.OwnerKind
	OwnerID     string
	FileName    string
	ContentType string
	FileData    string
}

// AttachmentService defines the use cases for files attached to tasks and documents.
type AttachmentService interface {
	// List returns the owner's attachments newest first.
	List(ctx context.Context, userID string, kind model.OwnerKind, ownerID string) ([]model.Attachment, error)
	// Upload stores the object, saves its metadata and removes the object again if the save fails.
	Upload(ctx context.Context, userID string, in UploadInput) (*model.Attachment, error)
	// Delete removes the object, then its metadata.
	Delete(ctx context.Context, userID, id string) error
	// Download streams the object. The caller closes the reader.
	Download(ctx context.Context, userID, id string) (io.ReadCloser, *model.Attachment, error)
	// URL returns a time-limited download link.
	URL(ctx context.Context, userID, id string) (string, error)
}

type attachmentService struct {
	repo          repository.AttachmentRepository
	tasks         repository.TaskRepository
	docs          repository.DocumentRepository
	store         storage.Storage
	maxBytes      int64
	presignExpiry time.Duration
	now           func() time.Time
}

// NewAttachmentService constructs a new AttachmentService. Uploads larger than maxBytes are rejected.
func NewAttachmentService(
	repo repository.AttachmentRepository,
	tasks repository.TaskRepository,
	docs repository.DocumentRepository,
	store storage.Storage,
	maxBytes int64,
	presignExpiry time.Duration,
) AttachmentService {
	return &attachmentService{
		repo:          repo,
		tasks:         tasks,
		docs:          docs,
		store:         store,
		maxBytes:      maxBytes,
		presignExpiry: presignExpiry,
		now:           time.Now,
	}
}

var fileNameReplacer = strings.NewReplacer("'", "", "/", "_", `\`, "_")

// sanitizeFileName makes name safe to embed in an object key or a header.
func sanitizeFileName(name string) string {
	name = strings.TrimSpace(fileNameReplacer.Replace(name))
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}

// ObjectKey returns the storage key of an attachment.
func ObjectKey(kind model.OwnerKind, ownerID, attachmentID, fileName string) string {
	return fmt.Sprintf("attachments/%s/%s/%s_%s", kind, ownerID, attachmentID, sanitizeFileName(fileName))
}

// decodeFileData decodes a plain base64 payload or a base64 data URL.
// It returns the media type named by a data URL, if any.
func decodeFileData(v string) ([]byte, string, error) {
	var mediaType string
	if rest, ok := strings.CutPrefix(v, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return nil, "", ErrInvalidFileData
		}
		mediaType = strings.TrimSuffix(meta, ";base64")
		v = payload
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(v))
	if err != nil {
		return nil, "", ErrInvalidFileData
	}
	return data, mediaType, nil
}

func (s *attachmentService) ensureOwner(ctx context.Context, userID string, kind model.OwnerKind, ownerID string) error {
	if ownerID == "" {
		return ErrOwnerRequired
	}
	var err error
	switch kind {
	case model.OwnerTask:
		_, err = s.tasks.FindByID(ctx, userID, ownerID)
	case model.OwnerDocument:
		_, err = s.docs.FindByID(ctx, userID, ownerID)
	default:
		return ErrInvalidOwnerKind
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *attachmentService) find(ctx context.Context, userID, id string) (*model.Attachment, error) {
	a, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *attachmentService) List(ctx context.Context, userID string, kind model.OwnerKind, ownerID string) ([]model.Attachment, error) {
	if err := s.ensureOwner(ctx, userID, kind, ownerID); err != nil {
		return nil, err
	}
	atts, err := s.repo.ListByOwner(ctx, userID, kind, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range atts {
		if err := s.fillCdnURL(ctx, &atts[i]); err != nil {
			return nil, err
		}
	}
	return atts, nil
}

// fillCdnURL presigns a link for attachments stored without a public address.
func (s *attachmentService) fillCdnURL(ctx context.Context, a *model.Attachment) error {
	if a.CdnURL != "" {
		return nil
	}
	u, err := s.store.PresignGet(ctx, a.StorageKey, s.presignExpiry)
	if err != nil {
		return fmt.Errorf("presign: %w", err)
	}
	a.CdnURL = u
	return nil
}

func (s *attachmentService) Upload(ctx context.Context, userID string, in UploadInput) (*model.Attachment, error) {
	if strings.TrimSpace(in.FileName) == "" {
		return nil, ErrFileNameRequired
	}
	if in.FileData == "" {
		return nil, ErrFileDataRequired
	}
	if err := s.ensureOwner(ctx, userID, in.OwnerKind, in.OwnerID); err != nil {
		return nil, err
	}

	data, mediaType, err := decodeFileData(in.FileData)
	if err != nil {
		return nil, err
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}
	contentType := strings.TrimSpace(in.ContentType)
	if contentType == "" {
		contentType = mediaType
	}
	if contentType == "" {
		contentType = DefaultContentType
	}

	id := uuid.NewString()
	fileName := sanitizeFileName(strings.TrimSpace(in.FileName))
	key := ObjectKey(in.OwnerKind, in.OwnerID, id, fileName)

	info, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": fileName},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	att, err := s.repo.Create(ctx, &model.Attachment{
		ID:          id,
		UserID:      userID,
		OwnerKind:   in.OwnerKind,
		OwnerID:     in.OwnerID,
		FileName:    fileName,
		FileSize:    int64(len(data)),
		ContentType: contentType,
		StorageKey:  info.Key,
		CdnURL:      s.store.PublicURL(info.Key),
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	if err := s.fillCdnURL(ctx, att); err != nil {
		return nil, err
	}
	return att, nil
}

func (s *attachmentService) Delete(ctx context.Context, userID, id string) error {
	a, err := s.find(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, a.StorageKey); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

func (s *attachmentService) Download(ctx context.Context, userID, id string) (io.ReadCloser, *model.Attachment, error) {
	a, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, a.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("get object: %w", err)
	}
	return rc, a, nil
}

func (s *attachmentService) URL(ctx context.Context, userID, id string) (string, error) {
	a, err := s.find(ctx, userID, id)
	if err != nil {
		return "", err
	}
	u, err := s.store.PresignGet(ctx, a.StorageKey, s.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}
	return u, nil
}
