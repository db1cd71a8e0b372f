package middleware

import (
	"github.com/gofiber/fiber/v2"

	"taskdesk/internal/auth"
)

const (
	// UserIDLocalKey stores the authenticated user's ID in Fiber's context locals.
	UserIDLocalKey = "user_id"

	// AltAuthorizationHeader carries the token when a proxy strips Authorization.
	AltAuthorizationHeader = "X-Authorization"
)

// TokenVerifier resolves a bearer token to a user ID.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Auth rejects requests without a valid bearer token with 401 and stores the
// user ID under UserIDLocalKey otherwise. The token is read from Authorization,
// then from X-Authorization.
func Auth(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = auth.BearerToken(c.Get(AltAuthorizationHeader))
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}

		userID, err := v.Verify(token)
		if err != nil {
			LoggerFrom(c).Debug().Err(err).Msg("token rejected")
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(UserIDLocalKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user's ID, or "" on public routes.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDLocalKey).(string)
	return id
}
