package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"filmgrid/internal/config"
	"filmgrid/internal/http/handlers"
	applog "filmgrid/internal/log"
	"filmgrid/internal/repos"
	"filmgrid/internal/services"
)

type testApp struct {
	app   *fiber.App
	db    *sqlx.DB
	users *repos.UserRepo
	deps  *handlers.Deps
}

type appOptions struct {
	loginMax    int
	adminEmails []string
	storage     fiber.Storage
}

// newTestApp wires the real routes the way main does, on an in-memory db.
func newTestApp(t *testing.T, opts appOptions) testApp {
	t.Helper()
	if opts.loginMax == 0 {
		opts.loginMax = 100
	}
	cfg := config.Config{DBDSN: ":memory:", PageSize: 50, AdminEmails: opts.adminEmails}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo, AdminEmails: cfg.AdminEmails}
	deps, err := handlers.NewDeps(db, cfg, authSvc)
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	t.Cleanup(deps.Close)

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine, ErrorHandler: handlers.ErrorHandler})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB
	app.Use(requestid.New())
	app.Use(handlers.AttachUser(authSvc))
	app.Use(csrf.New(csrf.Config{
		KeyLookup: "form:csrf", ContextKey: "csrf", CookieName: "csrf_", CookieSameSite: "Lax",
		Storage: opts.storage, ErrorHandler: handlers.CSRFFailed,
	}))
	app.Use(handlers.ExposeCSRF)

	handlers.Mount(app, deps, authSvc, handlers.LoginLimit{Max: opts.loginMax, Window: time.Minute, Storage: opts.storage})
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", handlers.Metrics())
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})
	return testApp{app: app, db: db, users: userRepo, deps: deps}
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func (a testApp) csrfToken(t *testing.T) string {
	t.Helper()
	resp, err := a.app.Test(httptest.NewRequest("GET", "/login", nil))
	if err != nil {
		t.Fatal(err)
	}
	tok := extractCookie(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

func (a testApp) adminSID(t *testing.T) string {
	t.Helper()
	if err := a.users.BindSession("sid-admin", "u-admin"); err != nil {
		t.Fatalf("bind admin session: %v", err)
	}
	return "sid-admin"
}

func (a testApp) get(t *testing.T, path, sid string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := a.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	return resp, buf.String()
}

func (a testApp) post(t *testing.T, path, sid, tok string, form url.Values) *http.Response {
	t.Helper()
	form.Set("csrf", tok)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := a.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

type logEntry struct {
	Level  string         `json:"level"`
	Kind   string         `json:"kind"`
	Action string         `json:"action"`
	ReqID  string         `json:"req_id"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	applog.SetOutput(&buf)
	defer applog.SetOutput(os.Stdout)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findAction(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
