package handler

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// okResponse is returned by endpoints that only acknowledge a change.
type okResponse struct {
	OK bool `json:"ok"`
}

// decodeBody unmarshals a JSON request body into v. An empty body leaves v untouched.
// The Content-Type header is not checked.
func decodeBody(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

func invalidBody(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object")
}

// pathID returns the :name route parameter when it is a UUID.
func pathID(c *fiber.Ctx, name string) (string, bool) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

// optString tells an absent JSON field apart from an explicit null.
type optString struct {
	Set   bool
	Value *string
}

func (o *optString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// emailList accepts either a JSON array of strings or a single string.
type emailList struct {
	Set    bool
	Values []string
}

func (e *emailList) UnmarshalJSON(b []byte) error {
	e.Set = true
	switch {
	case string(b) == "null":
		e.Values = nil
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		e.Values = []string{s}
		return nil
	default:
		return json.Unmarshal(b, &e.Values)
	}
}
