package handler

import (
	"github.com/gofiber/fiber/v2"

	"taskdesk/internal/http/middleware"
	"taskdesk/internal/service"
)

type recipientRequest struct {
	FullName     *string   `json:"fullName"`
	Organization *string   `json:"organization"`
	Position     *string   `json:"position"`
	Address      *string   `json:"address"`
	Emails       emailList `json:"emails" swaggertype:"array,string"`
}

func (r recipientRequest) toInput() service.RecipientInput {
	return service.RecipientInput{
		FullName:     r.FullName,
		Organization: r.Organization,
		Position:     r.Position,
		Address:      r.Address,
		Emails:       r.Emails.Values,
		SetEmails:    r.Emails.Set,
	}
}

// ListRecipients returns the user's recipients ordered by full name.
//
//	@Summary	List recipients
//	@Tags		recipients
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	model.Recipient
//	@Router		/recipients [get]
func ListRecipients(svc service.RecipientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(items)
	}
}

// CreateRecipient adds a recipient. emails may be a list or a single string.
//
//	@Summary	Create a recipient
//	@Tags		recipients
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		recipientRequest	true	"Recipient"
//	@Success	201		{object}	model.Recipient
//	@Failure	400		{object}	errorPayload
//	@Router		/recipients [post]
func CreateRecipient(svc service.RecipientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req recipientRequest
		if err := decodeBody(c, &req); err != nil {
			return invalidBody(c)
		}
		rc, err := svc.Create(c.UserContext(), middleware.UserID(c), req.toInput())
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rc)
	}
}

// UpdateRecipient changes the fields present in the body.
//
//	@Summary	Update a recipient
//	@Tags		recipients
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string				true	"Recipient ID"
//	@Param		body	body		recipientRequest	true	"Fields to change"
//	@Success	200		{object}	model.Recipient
//	@Failure	404		{object}	errorPayload
//	@Router		/recipients/{id} [put]
func UpdateRecipient(svc service.RecipientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return invalidID(c)
		}
		var req recipientRequest
		if err := decodeBody(c, &req); err != nil {
			return invalidBody(c)
		}
		rc, err := svc.Update(c.UserContext(), middleware.UserID(c), id, req.toInput())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(rc)
	}
}

// DeleteRecipient removes a recipient.
//
//	@Summary	Delete a recipient
//	@Tags		recipients
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Recipient ID"
//	@Success	200	{object}	okResponse
//	@Failure	404	{object}	errorPayload
//	@Router		/recipients/{id} [delete]
func DeleteRecipient(svc service.RecipientService) fiber.Handler {
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
