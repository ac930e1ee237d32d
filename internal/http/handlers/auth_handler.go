package handlers

import (
	"errors"
	"time"

	applog "filmgrid/internal/log"
	"filmgrid/internal/services"
	"filmgrid/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AuthHandler signs admins in and out of the console.
type AuthHandler struct {
	Auth *services.AuthService
}

func sessionCookie(sid string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     "sid",
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  expires,
	}
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(sessionCookie(sid, time.Time{}))
	}
	return sid
}

// GET /login
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

// loginRefused re-renders the form. The email is logged; the password never is.
func loginRefused(c *fiber.Ctx, status int, msg, email, reason string) error {
	applog.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": reason})
	c.Status(status)
	return render(c, "login", fiber.Map{"Err": msg})
}

// POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	const badCreds = "Invalid email or password"
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		return loginRefused(c, fiber.StatusUnauthorized, badCreds, c.FormValue("email"), "bad_format")
	}
	pass := c.FormValue("password")
	if !validate.Password(pass) {
		return loginRefused(c, fiber.StatusUnauthorized, badCreds, email, "bad_password_format")
	}

	sid := ensureSID(c)
	u, err := h.Auth.Login(sid, email, pass)
	switch {
	case errors.Is(err, services.ErrNotAdmin):
		return loginRefused(c, fiber.StatusForbidden, "This account has no admin access", email, "not_admin")
	case err != nil:
		return loginRefused(c, fiber.StatusUnauthorized, badCreds, email, "bad_credentials")
	}

	applog.Audit(c, "auth.login.success", map[string]any{"email": email, "user_id": u.ID})
	return c.Redirect("/admin/")
}

// POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if sid != "" {
		if err := h.Auth.Logout(sid); err != nil {
			applog.Error(c, "auth.logout", err, nil)
		}
	}
	c.Cookie(sessionCookie("", time.Now().Add(-time.Hour)))
	applog.Audit(c, "auth.logout", nil)
	return c.Redirect("/login")
}
