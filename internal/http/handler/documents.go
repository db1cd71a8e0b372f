package handler

import (
	"github.com/gofiber/fiber/v2"

	"taskdesk/internal/http/middleware"
	"taskdesk/internal/letter"
	"taskdesk/internal/service"
)

type documentRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

func (r documentRequest) toInput() service.DocumentInput {
	return service.DocumentInput{Title: r.Title, Content: r.Content, Category: r.Category}
}

// ListDocuments returns the user's documents, most recently updated first.
//
//	@Summary	List documents
//	@Tags		documents
//	@Produce	json
//	@Security	BearerAuth
//	@Param		category	query	string	false	"letters, internal or other"
//	@Param		q			query	string	false	"Search in title and content"
//	@Success	200			{array}	model.Document
//	@Router		/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext(), middleware.UserID(c), c.Query("category"), c.Query("q"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(items)
	}
}

// GetDocument returns one document.
//
//	@Summary	Get a document
//	@Tags		documents
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Document ID"
//	@Success	200	{object}	model.Document
//	@Failure	404	{object}	errorPayload
//	@Router		/documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return invalidID(c)
		}
		doc, err := svc.Get(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

// CreateDocument adds a document.
//
//	@Summary	Create a document
//	@Tags		documents
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		documentRequest	true	"Document"
//	@Success	201		{object}	model.Document
//	@Failure	400		{object}	errorPayload
//	@Router		/documents [post]
func CreateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req documentRequest
		if err := decodeBody(c, &req); err != nil {
			return invalidBody(c)
		}
		doc, err := svc.Create(c.UserContext(), middleware.UserID(c), req.toInput())
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// UpdateDocument changes the fields present in the body.
//
//	@Summary	Update a document
//	@Tags		documents
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string			true	"Document ID"
//	@Param		body	body		documentRequest	true	"Fields to change"
//	@Success	200		{object}	model.Document
//	@Failure	404		{object}	errorPayload
//	@Router		/documents/{id} [put]
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return invalidID(c)
		}
		var req documentRequest
		if err := decodeBody(c, &req); err != nil {
			return invalidBody(c)
		}
		doc, err := svc.Update(c.UserContext(), middleware.UserID(c), id, req.toInput())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes a document and its attachments.
//
//	@Summary	Delete a document
//	@Tags		documents
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Document ID"
//	@Success	200	{object}	okResponse
//	@Failure	404	{object}	errorPayload
//	@Router		/documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
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

// RenderLetter fills the document's placeholders with a recipient's details.
//
//	@Summary	Render a letter
//	@Tags		documents
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id			path		string	true	"Document ID"
//	@Param		recipientId	query		string	true	"Recipient ID"
//	@Success	200			{object}	letter.Rendered
//	@Failure	404			{object}	errorPayload
//	@Router		/documents/{id}/letter [get]
func RenderLetter(svc service.LetterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return invalidID(c)
		}
		r, err := svc.Render(c.UserContext(), middleware.UserID(c), id, c.Query("recipientId"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(r)
	}
}

// ExportLetter downloads the rendered letter as an .eml message.
//
//	@Summary	Export a letter
//	@Tags		documents
//	@Produce	message/rfc822
//	@Security	BearerAuth
//	@Param		id			path	string	true	"Document ID"
//	@Param		recipientId	query	string	true	"Recipient ID"
//	@Success	200			{file}	file
//	@Failure	404			{object}	errorPayload
//	@Router		/documents/{id}/letter.eml [get]
func ExportLetter(svc service.LetterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return invalidID(c)
		}
		exp, err := svc.Export(c.UserContext(), middleware.UserID(c), id, c.Query("recipientId"))
		if err != nil {
			return serviceError(c, err)
		}
		c.Attachment(exp.FileName)
		c.Set(fiber.HeaderContentType, letter.ContentType)
		return c.Send(exp.Data)
	}
}
