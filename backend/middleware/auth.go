package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"prashiskshan/backend/models"
	"prashiskshan/backend/services"
	"prashiskshan/backend/utils"
)

const userLocalsKey = "user"

// AuthMiddleware resolves the bearer token to a stored user and keeps it in c.Locals.
func AuthMiddleware(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return utils.UnauthenticatedError("No token, authorization denied")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return utils.UnauthenticatedError("Token is not valid")
		}

		user, err := auth.Authenticate(c.UserContext(), strings.TrimSpace(parts[1]))
		if err != nil {
			return err
		}
		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// Authorize allows the request through only for the listed roles.
func Authorize(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return utils.UnauthenticatedError("No token, authorization denied")
		}
		if !user.Role.In(roles...) {
			return utils.ForbiddenError("Access denied. Insufficient permissions.")
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}
