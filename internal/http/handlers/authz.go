package handlers

import (
	applog "filmgrid/internal/log"
	"filmgrid/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin guards the admin pages. Anonymous visitors are sent to the
// login form; signed-in non-admins get a 403.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || !auth.IsAdmin(u) {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid})
			return notFound(c, fiber.StatusForbidden, "Access denied")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireAdminAPI is RequireAdmin for JSON routes.
func RequireAdminAPI(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		u, err := auth.CurrentUser(sid)
		if sid == "" || err != nil || !auth.IsAdmin(u) {
			applog.Security(c, "access.denied.api", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}
