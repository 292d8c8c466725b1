package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const userIDLocal = "user_id"

// Middleware validates the Authorization header and stores user_id in
// locals. Both "Bearer <token>" and a bare token are accepted.
func (s *Service) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		userID, err := s.ValidateToken(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		c.Locals(userIDLocal, userID)
		return c.Next()
	}
}

// RequireSelf only lets a request through when the route parameter param
// names the authenticated user. It must run after Middleware.
func (s *Service) RequireSelf(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := s.Username(c.Context(), CurrentUser(c))
		if errors.Is(err, ErrUserNotFound) {
			return fiber.NewError(fiber.StatusForbidden, "unknown user")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if username != c.Params(param) {
			return fiber.NewError(fiber.StatusForbidden, "access to another user's data is not allowed")
		}
		return c.Next()
	}
}

// CurrentUser returns the user id stored by Middleware, or "".
func CurrentUser(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDLocal).(string)
	return id
}

func tokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return ""
}
