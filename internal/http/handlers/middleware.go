package handlers

import (
	"errors"

	applog "filmgrid/internal/log"
	"filmgrid/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler logs err and shows a friendly page. Internal details never
// reach the response body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, msg := fiber.StatusInternalServerError, "Something went wrong. Please try again."
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < 500 {
		code, msg = fe.Code, "We could not handle that request."
		if fe.Code == fiber.StatusNotFound {
			msg = "Page not found"
		}
		applog.Info(c, "server.client_error", map[string]any{"code": fe.Code})
	} else {
		applog.Error(c, "server.error", err, nil)
	}
	// best-effort render
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

// CSRFFailed answers a request that failed the CSRF check.
func CSRFFailed(c *fiber.Ctx, err error) error {
	reason := "mismatch"
	if c.FormValue("csrf") == "" && c.Get("X-Csrf-Token") == "" {
		reason = "missing"
	}
	applog.Security(c, "csrf.fail", map[string]any{"reason": reason})
	return notFound(c, fiber.StatusForbidden, "Security check failed. Please refresh and try again.")
}

// AttachUser puts the signed-in user, if any, into Locals for templates.
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := auth.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	}
}

// ExposeCSRF copies the token set by the csrf middleware to where render
// looks for it.
func ExposeCSRF(c *fiber.Ctx) error {
	if tok, ok := c.Locals("csrf").(string); ok {
		c.Locals("CSRFToken", tok)
	}
	return c.Next()
}
