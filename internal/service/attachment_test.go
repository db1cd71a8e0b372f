package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskdesk/internal/model"
	repoMocks "taskdesk/internal/repository/mocks"
	"taskdesk/internal/storage"
	storeMocks "taskdesk/internal/storage/mocks"
)

type attachmentMocks struct {
	atts  *repoMocks.MockAttachmentRepository
	tasks *repoMocks.MockTaskRepository
	docs  *repoMocks.MockDocumentRepository
	store *storeMocks.MockStorage
}

func newTestAttachmentService(maxBytes int64) (*attachmentService, attachmentMocks) {
	m := attachmentMocks{
		atts:  new(repoMocks.MockAttachmentRepository),
		tasks: new(repoMocks.MockTaskRepository),
		docs:  new(repoMocks.MockDocumentRepository),
		store: new(storeMocks.MockStorage),
	}
	svc := &attachmentService{
		repo:          m.atts,
		tasks:         m.tasks,
		docs:          m.docs,
		store:         m.store,
		maxBytes:      maxBytes,
		presignExpiry: 15 * time.Minute,
		now:           func() time.Time { return fixedNow },
	}
	return svc, m
}

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"report.pdf":          "report.pdf",
		"O'Brien letter.docx": "OBrien letter.docx",
		"../../etc/passwd":    ".._.._etc_passwd",
		`C:\Users\scan.png`:   "C:_Users_scan.png",
		"   ":                 "file",
		"''":                  "file",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFileName(in), in)
	}
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "attachments/task/t1/a1_my_scan.pdf", ObjectKey(model.OwnerTask, "t1", "a1", "my/scan.pdf"))
}

func TestDecodeFileData(t *testing.T) {
	data, mt, err := decodeFileData(base64.StdEncoding.EncodeToString([]byte("hello")))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Empty(t, mt)

	data, mt, err = decodeFileData("data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("hi")))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))
	assert.Equal(t, "text/plain", mt)

	_, _, err = decodeFileData("data:text/plain,hi")
	assert.ErrorIs(t, err, ErrInvalidFileData)
	_, _, err = decodeFileData("%%%")
	assert.ErrorIs(t, err, ErrInvalidFileData)
}

func TestAttachmentService_Upload(t *testing.T) {
	ctx := context.Background()
	payload := base64.StdEncoding.EncodeToString([]byte("hello world"))

	tests := []struct {
		name       string
		maxBytes   int64
		in         UploadInput
		setupMocks func(m attachmentMocks)
		wantErr    error
		wantErrMsg string
		wantCdnURL string
	}{
		{
			name: "happy path",
			in:   UploadInput{OwnerKind: model.OwnerTask, OwnerID: "t1", FileName: "notes.txt", ContentType: "text/plain", FileData: payload},
			setupMocks: func(m attachmentMocks) {
				m.tasks.On("FindByID", ctx, "u1", "t1").Return(&model.Task{ID: "t1"}, nil)
				m.store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "attachments/task/t1/") && strings.HasSuffix(key, "_notes.txt")
				}), mock.Anything, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
					return o.Size == 11 && o.ContentType == "text/plain"
				})).Return(func(_ context.Context, key string, r io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
					b, _ := io.ReadAll(r)
					return storage.ObjectInfo{Key: key, Size: int64(len(b))}
				}, nil)
				m.store.On("PublicURL", mock.Anything).Return("https://cdn.example.com/x")
				m.atts.On("Create", ctx, mock.MatchedBy(func(a *model.Attachment) bool {
					return a.OwnerKind == model.OwnerTask && a.OwnerID == "t1" && a.FileSize == 11 &&
						a.CdnURL == "https://cdn.example.com/x" && strings.HasSuffix(a.StorageKey, a.ID+"_notes.txt")
				})).Return(&model.Attachment{ID: "a1", FileSize: 11, CdnURL: "https://cdn.example.com/x"}, nil)
			},
		},
		{
			name: "file name is sanitised",
			in:   UploadInput{OwnerKind: model.OwnerTask, OwnerID: "t1", FileName: `..\..\evil'/name.pdf`, FileData: payload},
			setupMocks: func(m attachmentMocks) {
				m.tasks.On("FindByID", ctx, "u1", "t1").Return(&model.Task{ID: "t1"}, nil)
				m.store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasSuffix(key, "_.._.._evil_name.pdf")
				}), mock.Anything, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
					return o.Metadata["original-filename"] == ".._.._evil_name.pdf"
				})).Return(storage.ObjectInfo{Key: "k"}, nil)
				m.store.On("PublicURL", "k").Return("https://cdn.example.com/k")
				m.atts.On("Create", ctx, mock.MatchedBy(func(a *model.Attachment) bool {
					return a.FileName == ".._.._evil_name.pdf"
				})).Return(&model.Attachment{ID: "a1", CdnURL: "https://cdn.example.com/k"}, nil)
			},
		},
		{
			name: "private bucket gets a presigned cdn url",
			in:   UploadInput{OwnerKind: model.OwnerTask, OwnerID: "t1", FileName: "a.txt", FileData: payload},
			setupMocks: func(m attachmentMocks) {
				m.tasks.On("FindByID", ctx, "u1", "t1").Return(&model.Task{ID: "t1"}, nil)
				m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{Key: "k"}, nil)
				m.store.On("PublicURL", "k").Return("")
				m.atts.On("Create", ctx, mock.MatchedBy(func(a *model.Attachment) bool {
					return a.CdnURL == ""
				})).Return(&model.Attachment{ID: "a1", StorageKey: "k"}, nil)
				m.store.On("PresignGet", ctx, "k", 15*time.Minute).Return("https://s3/k?sig", nil)
			},
			wantCdnURL: "https://s3/k?sig",
		},
		{
			name: "document owner with default content type",
			in:   UploadInput{OwnerKind: model.OwnerDocument, OwnerID: "d1", FileName: "blob", FileData: payload},
			setupMocks: func(m attachmentMocks) {
				m.docs.On("FindByID", ctx, "u1", "d1").Return(&model.Document{ID: "d1"}, nil)
				m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
					return o.ContentType == DefaultContentType
				})).Return(storage.ObjectInfo{Key: "k"}, nil)
				m.store.On("PublicURL", "k").Return("u")
				m.atts.On("Create", ctx, mock.Anything).Return(&model.Attachment{ID: "a1", CdnURL: "u"}, nil)
			},
		},
		{
			name:     "too large",
			maxBytes: 5,
			in:       UploadInput{OwnerKind: model.OwnerTask, OwnerID: "t1", FileName: "a", FileData: payload},
			setupMocks: func(m attachmentMocks) {
				m.tasks.On("FindByID", ctx, "u1", "t1").Return(&model.Task{ID: "t1"}, nil)
			},
			wantErr: ErrFileTooLarge,
		},
		{
			name: "owner not found",
			in:   UploadInput{OwnerKind: model.OwnerTask, OwnerID: "t9", FileName: "a", FileData: payload},
			setupMocks: func(m attachmentMocks) {
				m.tasks.On("FindByID", ctx, "u1", "t9").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "invalid base64",
			in:   UploadInput{OwnerKind: model.OwnerTask, OwnerID: "t1", FileName: "a", FileData: "not base64!"},
			setupMocks: func(m attachmentMocks) {
				m.tasks.On("FindByID", ctx, "u1", "t1").Return(&model.Task{ID: "t1"}, nil)
			},
			wantErr: ErrInvalidFileData,
		},
		{name: "missing owner", in: UploadInput{OwnerKind: model.OwnerTask, FileName: "a", FileData: payload}, wantErr: ErrOwnerRequired},
		{name: "missing file name", in: UploadInput{OwnerKind: model.OwnerTask, OwnerID: "t1", FileData: payload}, wantErr: ErrFileNameRequired},
		{name: "missing data", in: UploadInput{OwnerKind: model.OwnerTask, OwnerID: "t1", FileName: "a"}, wantErr: ErrFileDataRequired},
		{
			name: "storage error",
			in:   UploadInput{OwnerKind: model.OwnerTask, OwnerID: "t1", FileName: "a", FileData: payload},
			setupMocks: func(m attachmentMocks) {
				m.tasks.On("FindByID", ctx, "u1", "t1").Return(&model.Task{ID: "t1"}, nil)
				m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, errors.New("storage fail"))
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name: "db error rolls back object",
			in:   UploadInput{OwnerKind: model.OwnerTask, OwnerID: "t1", FileName: "a", FileData: payload},
			setupMocks: func(m attachmentMocks) {
				m.tasks.On("FindByID", ctx, "u1", "t1").Return(&model.Task{ID: "t1"}, nil)
				m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(func(_ context.Context, key string, _ io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
					return storage.ObjectInfo{Key: key}
				}, nil)
				m.store.On("PublicURL", mock.Anything).Return("")
				m.atts.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				m.store.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "attachments/task/t1/")
				})).Return(nil)
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name: "db and rollback error",
			in:   UploadInput{OwnerKind: model.OwnerTask, OwnerID: "t1", FileName: "a", FileData: payload},
			setupMocks: func(m attachmentMocks) {
				m.tasks.On("FindByID", ctx, "u1", "t1").Return(&model.Task{ID: "t1"}, nil)
				m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{Key: "k"}, nil)
				m.store.On("PublicURL", "k").Return("")
				m.atts.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				m.store.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
			},
			wantErrMsg: "db save failed: db fail; rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maxBytes := tt.maxBytes
			if maxBytes == 0 {
				maxBytes = 1 << 20
			}
			svc, m := newTestAttachmentService(maxBytes)
			if tt.setupMocks != nil {
				tt.setupMocks(m)
			}

			got, err := svc.Upload(ctx, "u1", tt.in)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
				assert.Nil(t, got)
			default:
				assert.NoError(t, err)
				assert.Equal(t, "a1", got.ID)
				if tt.wantCdnURL != "" {
					assert.Equal(t, tt.wantCdnURL, got.CdnURL)
				}
			}
			m.atts.AssertExpectations(t)
			m.store.AssertExpectations(t)
			m.tasks.AssertExpectations(t)
			m.docs.AssertExpectations(t)
		})
	}
}

func TestAttachmentService_List(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestAttachmentService(0)
	m.docs.On("FindByID", ctx, "u1", "d1").Return(&model.Document{ID: "d1"}, nil)
	m.atts.On("ListByOwner", ctx, "u1", model.OwnerDocument, "d1").Return([]model.Attachment{
		{ID: "a1", StorageKey: "k1"},
		{ID: "a2", StorageKey: "k2", CdnURL: "https://cdn.example.com/k2"},
	}, nil)
	m.store.On("PresignGet", ctx, "k1", 15*time.Minute).Return("https://s3/k1?sig", nil)

	got, err := svc.List(ctx, "u1", model.OwnerDocument, "d1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "https://s3/k1?sig", got[0].CdnURL)
	assert.Equal(t, "https://cdn.example.com/k2", got[1].CdnURL)
	m.store.AssertNumberOfCalls(t, "PresignGet", 1)

	_, err = svc.List(ctx, "u1", model.OwnerKind("user"), "x")
	assert.ErrorIs(t, err, ErrInvalidOwnerKind)
}

func TestAttachmentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("object then row", func(t *testing.T) {
		svc, m := newTestAttachmentService(0)
		m.atts.On("FindByID", ctx, "u1", "a1").Return(&model.Attachment{ID: "a1", StorageKey: "k1"}, nil)
		m.store.On("Delete", ctx, "k1").Return(nil)
		m.atts.On("Delete", ctx, "u1", "a1").Return(nil)

		assert.NoError(t, svc.Delete(ctx, "u1", "a1"))
		m.atts.AssertExpectations(t)
		m.store.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newTestAttachmentService(0)
		m.atts.On("FindByID", ctx, "u1", "a9").Return(nil, sql.ErrNoRows)
		assert.ErrorIs(t, svc.Delete(ctx, "u1", "a9"), ErrNotFound)
	})

	t.Run("storage error keeps row", func(t *testing.T) {
		svc, m := newTestAttachmentService(0)
		m.atts.On("FindByID", ctx, "u1", "a1").Return(&model.Attachment{ID: "a1", StorageKey: "k1"}, nil)
		m.store.On("Delete", ctx, "k1").Return(errors.New("s3 down"))

		assert.EqualError(t, svc.Delete(ctx, "u1", "a1"), "delete storage: s3 down")
		m.atts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAttachmentService_DownloadAndURL(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestAttachmentService(0)
	att := &model.Attachment{ID: "a1", StorageKey: "k1", ContentType: "text/plain"}
	m.atts.On("FindByID", ctx, "u1", "a1").Return(att, nil)
	m.atts.On("FindByID", ctx, "u1", "a2").Return(&model.Attachment{ID: "a2", StorageKey: "k2"}, nil)
	m.store.On("Get", ctx, "k1").Return(io.NopCloser(bytes.NewReader([]byte("hello"))), storage.ObjectInfo{Key: "k1"}, nil)
	m.store.On("Get", ctx, "k2").Return(nil, storage.ObjectInfo{}, storage.ErrNotFound)
	m.store.On("PresignGet", ctx, "k1", 15*time.Minute).Return("https://s3/k1?sig", nil)

	rc, got, err := svc.Download(ctx, "u1", "a1")
	require.NoError(t, err)
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "hello", string(b))
	assert.Equal(t, "text/plain", got.ContentType)

	_, _, err = svc.Download(ctx, "u1", "a2")
	assert.ErrorIs(t, err, ErrNotFound)

	u, err := svc.URL(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.Equal(t, "https://s3/k1?sig", u)
}
