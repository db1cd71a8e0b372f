package model

import (
	"encoding/json"
	"time"
)

// OwnerKind names the entity an attachment belongs to.
type OwnerKind string

const (
	OwnerTask     OwnerKind = "task"
	OwnerDocument OwnerKind = "document"
)

// Attachment is a file stored in object storage and linked to a task or a document.
type Attachment struct {
	ID          string
	UserID      string
	OwnerKind   OwnerKind
	OwnerID     string
	FileName    string
	FileSize    int64
	ContentType string
	StorageKey  string
	CdnURL      string
	CreatedAt   time.Time
}

// MarshalJSON exposes the owner as taskId or docId depending on its kind.
func (a Attachment) MarshalJSON() ([]byte, error) {
	out := struct {
		ID          string    `json:"id"`
		TaskID      string    `json:"taskId,omitempty"`
		DocID       string    `json:"docId,omitempty"`
		FileName    string    `json:"fileName"`
		FileSize    int64     `json:"fileSize"`
		ContentType string    `json:"contentType"`
		CdnURL      string    `json:"cdnUrl"`
		CreatedAt   time.Time `json:"createdAt"`
	}{
		ID:          a.ID,
		FileName:    a.FileName,
		FileSize:    a.FileSize,
		ContentType: a.ContentType,
		CdnURL:      a.CdnURL,
		CreatedAt:   a.CreatedAt,
	}
	switch a.OwnerKind {
	case OwnerTask:
		out.TaskID = a.OwnerID
	case OwnerDocument:
		out.DocID = a.OwnerID
	}
	return json.Marshal(out)
}
