package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arogyam/health-portal/models"
	"github.com/arogyam/health-portal/utils"
)

// RequireRole checks the role claim set by Protected. Ownership checks on
// individual records stay in the handlers.
func RequireRole(roleName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return unauthenticated(c, "user role not found in context")
		}

		if role != roleName {
			return utils.Fail(c, models.ErrForbidden)
		}

		return c.Next()
	}
}

// RequireAdmin gates the administrative surface.
func RequireAdmin() fiber.Handler {
	return RequireRole(models.RoleAdmin)
}
