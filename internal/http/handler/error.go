package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"taskdesk/internal/http/middleware"
	"taskdesk/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			return internalError(c, err)
		}

		switch fe.Code {
		case fiber.StatusBadRequest:
			return writeError(c, fe.Code, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, fe.Code, "UNAUTHORIZED", fe.Message)
		case fiber.StatusNotFound:
			return writeError(c, fe.Code, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, fe.Code, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, fe.Code, "PAYLOAD_TOO_LARGE", "request body too large")
		case fiber.StatusInternalServerError:
			return internalError(c, err)
		default:
			code := strings.ToUpper(strings.ReplaceAll(http.StatusText(fe.Code), " ", "_"))
			return writeError(c, fe.Code, code, fe.Message)
		}
	}
}

func internalError(c *fiber.Ctx, err error) error {
	middleware.LoggerFrom(c).Error().Err(err).Msg("request failed")
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

type errorMapping struct {
	err    error
	status int
	code   string
}

// serviceErrors maps service sentinels to responses. The sentinel text is the message.
var serviceErrors = []errorMapping{
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrNothingToUpdate, fiber.StatusBadRequest, "NOTHING_TO_UPDATE"},

	{service.ErrCredentialsRequired, fiber.StatusBadRequest, "CREDENTIALS_REQUIRED"},
	{service.ErrPasswordTooShort, fiber.StatusBadRequest, "PASSWORD_TOO_SHORT"},
	{service.ErrUserExists, fiber.StatusBadRequest, "USER_EXISTS"},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{service.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},

	{service.ErrTitleRequired, fiber.StatusBadRequest, "TITLE_REQUIRED"},
	{service.ErrInvalidPriority, fiber.StatusBadRequest, "INVALID_PRIORITY"},
	{service.ErrInvalidStatus, fiber.StatusBadRequest, "INVALID_STATUS"},
	{service.ErrInvalidDueDate, fiber.StatusBadRequest, "INVALID_DUE_DATE"},
	{service.ErrInvalidDateRange, fiber.StatusBadRequest, "INVALID_DATE_RANGE"},

	{service.ErrFullNameRequired, fiber.StatusBadRequest, "FULL_NAME_REQUIRED"},
	{service.ErrRecipientRequired, fiber.StatusBadRequest, "RECIPIENT_REQUIRED"},

	{service.ErrOwnerRequired, fiber.StatusBadRequest, "OWNER_REQUIRED"},
	{service.ErrFileNameRequired, fiber.StatusBadRequest, "FILE_NAME_REQUIRED"},
	{service.ErrFileDataRequired, fiber.StatusBadRequest, "FILE_DATA_REQUIRED"},
	{service.ErrInvalidFileData, fiber.StatusBadRequest, "INVALID_FILE_DATA"},
	{service.ErrFileTooLarge, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
	{service.ErrInvalidOwnerKind, fiber.StatusBadRequest, "INVALID_OWNER"},
}

// serviceError translates an error returned by a service into a response.
// Unknown errors are logged with the request id and reported as INTERNAL_ERROR.
func serviceError(c *fiber.Ctx, err error) error {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			return writeError(c, m.status, m.code, m.err.Error())
		}
	}
	return internalError(c, err)
}
