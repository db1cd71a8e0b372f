package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"taskdesk/internal/http/middleware"
	"taskdesk/internal/model"
	"taskdesk/internal/service"
)

type uploadRequest struct {
	TaskID      string `json:"taskId,omitempty"`
	DocID       string `json:"docId,omitempty"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	FileData    string `json:"fileData"`
}

// owner resolves taskId or docId. ok is false when the chosen id is not a UUID.
func (r uploadRequest) owner() (kind model.OwnerKind, id string, ok bool) {
	switch {
	case r.TaskID != "":
		kind, id = model.OwnerTask, r.TaskID
	case r.DocID != "":
		kind, id = model.OwnerDocument, r.DocID
	default:
		return "", "", true
	}
	_, err := uuid.Parse(id)
	return kind, id, err == nil
}

type urlResponse struct {
	URL string `json:"url"`
}

// ListAttachments returns the attachments of the task or document named by :id.
//
//	@Summary	List attachments of a task or document
//	@Tags		files
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Owner ID"
//	@Success	200	{array}		model.Attachment
//	@Failure	404	{object}	errorPayload
//	@Router		/tasks/{id}/attachments [get]
//	@Router		/documents/{id}/attachments [get]
func ListAttachments(svc service.AttachmentService, kind model.OwnerKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return invalidID(c)
		}
		items, err := svc.List(c.UserContext(), middleware.UserID(c), kind, id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(items)
	}
}

// UploadAttachment stores a base64 encoded file for the task or document named by :id.
//
//	@Summary	Upload an attachment to a task or document
//	@Tags		files
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string			true	"Owner ID"
//	@Param		body	body		uploadRequest	true	"File"
//	@Success	201		{object}	model.Attachment
//	@Failure	400		{object}	errorPayload
//	@Failure	413		{object}	errorPayload
//	@Router		/tasks/{id}/attachments [post]
//	@Router		/documents/{id}/attachments [post]
func UploadAttachment(svc service.AttachmentService, kind model.OwnerKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return invalidID(c)
		}
		var req uploadRequest
		if err := decodeBody(c, &req); err != nil {
			return invalidBody(c)
		}
		return upload(c, svc, kind, id, req)
	}
}

// ListFiles lists attachments by the taskId or docId query parameter.
//
//	@Summary	List attachments
//	@Tags		files
//	@Produce	json
//	@Security	BearerAuth
//	@Param		taskId	query		string	false	"Task ID"
//	@Param		docId	query		string	false	"Document ID"
//	@Success	200		{array}		model.Attachment
//	@Failure	400		{object}	errorPayload
//	@Router		/files [get]
func ListFiles(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, id, ok := uploadRequest{TaskID: c.Query("taskId"), DocID: c.Query("docId")}.owner()
		if !ok {
			return invalidID(c)
		}
		if kind == "" {
			return serviceError(c, service.ErrOwnerRequired)
		}
		items, err := svc.List(c.UserContext(), middleware.UserID(c), kind, id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(items)
	}
}

// UploadFile stores a base64 encoded file for the task or document named in the body.
//
//	@Summary	Upload an attachment
//	@Tags		files
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		uploadRequest	true	"File with taskId or docId"
//	@Success	201		{object}	model.Attachment
//	@Failure	400		{object}	errorPayload
//	@Failure	404		{object}	errorPayload
//	@Failure	413		{object}	errorPayload
//	@Router		/files [post]
func UploadFile(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req uploadRequest
		if err := decodeBody(c, &req); err != nil {
			return invalidBody(c)
		}
		kind, id, ok := req.owner()
		if !ok {
			return invalidID(c)
		}
		if kind == "" {
			return serviceError(c, service.ErrOwnerRequired)
		}
		return upload(c, svc, kind, id, req)
	}
}

func upload(c *fiber.Ctx, svc service.AttachmentService, kind model.OwnerKind, ownerID string, req uploadRequest) error {
	a, err := svc.Upload(c.UserContext(), middleware.UserID(c), service.UploadInput{
		OwnerKind:   kind,
		OwnerID:     ownerID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		FileData:    req.FileData,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

// DeleteAttachment removes the stored object and its metadata.
//
//	@Summary	Delete an attachment
//	@Tags		files
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Attachment ID"
//	@Success	200	{object}	okResponse
//	@Failure	404	{object}	errorPayload
//	@Router		/attachments/{id} [delete]
func DeleteAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(okResponse{OK: true})
	}
}

// DownloadAttachment streams the stored object.
//
//	@Summary	Download an attachment
//	@Tags		files
//	@Produce	octet-stream
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Attachment ID"
//	@Success	200	{file}		file
//	@Failure	404	{object}	errorPayload
//	@Router		/attachments/{id}/download [get]
func DownloadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return invalidID(c)
		}
		rc, a, err := svc.Download(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return serviceError(c, err)
		}
		c.Attachment(a.FileName)
		c.Set(fiber.HeaderContentType, a.ContentType)
		return c.SendStream(rc, int(a.FileSize))
	}
}

// AttachmentURL returns a time-limited download link.
//
//	@Summary	Pre-signed attachment URL
//	@Tags		files
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Attachment ID"
//	@Success	200	{object}	urlResponse
//	@Failure	404	{object}	errorPayload
//	@Router		/attachments/{id}/url [get]
func AttachmentURL(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return invalidID(c)
		}
		u, err := svc.URL(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(urlResponse{URL: u})
	}
}
