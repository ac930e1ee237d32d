package handlers

import (
	"time"

	applog "filmgrid/internal/log"
	"filmgrid/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// LoginLimit caps POST /login attempts per client. A nil Storage keeps the
// counters in memory.
type LoginLimit struct {
	Max     int
	Window  time.Duration
	Storage fiber.Storage
}

// Mount registers the login, admin and API routes.
func Mount(app *fiber.App, d *Deps, auth *services.AuthService, ll LoginLimit) {
	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/admin/") })

	// Auth routes (login throttled)
	app.Get("/login", d.AuthHandler.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        ll.Max,
		Expiration: ll.Window,
		Storage:    ll.Storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	app.Post("/logout", d.AuthHandler.Logout)

	admin := app.Group("/admin", RequireAdmin(auth))
	admin.Get("/", d.AdminHandler.Dashboard)
	admin.Get("/listings", d.AdminHandler.ListingsPage)
	admin.Post("/listings", d.AdminHandler.CreateListing)
	admin.Post("/listings/:id/active", d.AdminHandler.SetActive)
	admin.Post("/listings/:id/verified", d.AdminHandler.SetVerified)
	admin.Post("/listings/:id/delete", d.AdminHandler.DeleteListing)
	admin.Get("/catalog", d.AdminHandler.CatalogPage)
	admin.Get("/users", d.AdminHandler.UsersPage)

	api := app.Group("/api/v1", RequireAdminAPI(auth))
	api.Get("/listings", d.APIHandler.Listings)
	api.Get("/catalog", d.APIHandler.Tree)
}
