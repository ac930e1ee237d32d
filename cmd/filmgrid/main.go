package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"filmgrid/internal/config"
	"filmgrid/internal/http/handlers"
	applog "filmgrid/internal/log"
	"filmgrid/internal/repos"
	"filmgrid/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
			applog.SetOutput(mw)
		}
	}
	applog.SetLevel(cfg.LogLevel)
	defer applog.Sync()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Shared throttle/csrf state when Redis is configured
	var shared fiber.Storage
	if cfg.RedisAddr != "" {
		rdb, err := repos.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal(err)
		}
		shared = repos.NewKVStore(rdb, "filmgrid:")
		defer shared.Close()
	}

	authSvc := &services.AuthService{Users: repos.NewUserRepo(db), AdminEmails: cfg.AdminEmails}
	deps, err := handlers.NewDeps(db, cfg, authSvc)
	if err != nil {
		log.Fatal(err)
	}
	defer deps.Close()

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: handlers.ErrorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates/headers)
	app.Use(handlers.AttachUser(authSvc))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Storage:    shared,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return p == "/healthz" || strings.HasPrefix(p, "/metrics")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		ContextKey:     "csrf",
		Storage:        shared,
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ErrorHandler:   handlers.CSRFFailed,
	}))
	app.Use(handlers.ExposeCSRF)

	app.Static("/static", "./web/static")

	// ---------- App handlers ----------
	handlers.Mount(app, deps, authSvc, handlers.LoginLimit{Max: 5, Window: 10 * time.Minute, Storage: shared})

	// Health, metrics & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", handlers.Metrics())
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
