package handlers

import (
	"errors"
	"net/url"
	"strconv"

	"filmgrid/internal/catalog"
	"filmgrid/internal/domain"
	applog "filmgrid/internal/log"
	"filmgrid/internal/repos"
	"filmgrid/internal/services"
	"filmgrid/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Listings *services.ListingService
	Catalog  *services.CatalogService
	Users    *services.UserService
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	return render(c, "admin_dashboard", fiber.Map{"Stats": h.Catalog.Stats(), "Kinds": domain.Kinds})
}

// errBadParam carries the name of the rejected query or form field.
type errBadParam string

func (e errBadParam) Error() string { return "invalid " + string(e) }

// tableRequest reads the listing table query. An empty kind stays empty.
func tableRequest(c *fiber.Ctx) (services.TableRequest, error) {
	req := services.TableRequest{Page: validate.Page(c.Query("page"))}
	if raw := c.Query("kind"); raw != "" {
		k, ok := validate.Kind(raw)
		if !ok {
			return req, errBadParam("kind")
		}
		req.Kind = k
	}
	if raw := c.Query("q"); raw != "" {
		q, ok := validate.Q(raw)
		if !ok {
			return req, errBadParam("q")
		}
		req.Text = q
	}
	var ok bool
	if req.Category, ok = validate.Label(c.Query("category")); !ok {
		return req, errBadParam("category")
	}
	if req.Brand, ok = validate.Label(c.Query("brand")); !ok {
		return req, errBadParam("brand")
	}
	if req.Status, ok = validate.Status(c.Query("status")); !ok {
		return req, errBadParam("status")
	}
	if raw := c.Query("verified"); raw != "" {
		if _, ok := validate.Bool(raw); !ok {
			return req, errBadParam("verified")
		}
		req.Verified = raw
	}
	return req, nil
}

// pager builds the page links of a table; base already carries the filters.
func pager[T any](p catalog.Page[T], base string) fiber.Map {
	m := fiber.Map{"Number": p.Number, "TotalPages": p.TotalPages, "TotalCount": p.TotalCount}
	link := func(n int) string { return base + "&page=" + strconv.Itoa(n) }
	if p.Number > 1 {
		m["PrevURL"] = link(max(1, min(p.Number-1, p.TotalPages)))
	}
	if p.Number < p.TotalPages {
		m["NextURL"] = link(p.Number + 1)
	}
	return m
}

// GET /admin/listings
func (h *AdminHandler) ListingsPage(c *fiber.Ctx) error {
	req, err := tableRequest(c)
	if req.Kind == "" {
		req.Kind = domain.KindEquipment
	}
	data := fiber.Map{"Kinds": domain.Kinds, "Kind": req.Kind, "Req": req}
	if err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": err.Error()})
		data["Err"] = "Some filters were not valid."
		data["Items"] = []domain.Listing{}
		c.Status(fiber.StatusBadRequest)
		return render(c, "admin_listings", data)
	}
	page := h.Catalog.Table(req)
	data["Items"] = page.Items
	data["Pager"] = pager(page, "/admin/listings?"+tableQuery(req))
	data["Categories"] = h.Catalog.CategoryOptions(req.Kind)
	return render(c, "admin_listings", data)
}

// tableQuery rebuilds the filter part of the URL for pager links.
func tableQuery(req services.TableRequest) string {
	v := url.Values{}
	v.Set("kind", req.Kind)
	for k, s := range map[string]string{"q": req.Text, "category": req.Category, "brand": req.Brand, "status": req.Status, "verified": req.Verified} {
		if s != "" {
			v.Set(k, s)
		}
	}
	return v.Encode()
}

// GET /admin/catalog
func (h *AdminHandler) CatalogPage(c *fiber.Ctx) error {
	kind := domain.KindEquipment
	if raw := c.Query("kind"); raw != "" {
		k, ok := validate.Kind(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "kind"})
			return notFound(c, fiber.StatusBadRequest, "Unknown listing kind")
		}
		kind = k
	}
	category, ok := validate.Label(c.Query("category"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "category"})
		return notFound(c, fiber.StatusBadRequest, "Invalid category")
	}
	return render(c, "admin_catalog", fiber.Map{
		"Kinds":      domain.Kinds,
		"Kind":       kind,
		"Category":   category,
		"Categories": h.Catalog.CategoryOptions(kind),
		"Tree":       h.Catalog.Tree(kind, category),
	})
}

// POST /admin/listings
func (h *AdminHandler) CreateListing(c *fiber.Ctx) error {
	kind, okKind := validate.Kind(c.FormValue("kind"))
	title, okTitle := validate.Name(c.FormValue("title"))
	category, okCat := validate.Label(c.FormValue("category"))
	brand, okBrand := validate.Label(c.FormValue("brand"))
	rate, okRate := validate.Rate(c.FormValue("daily_rate"))
	if !okKind || !okTitle || !okCat || !okBrand || !okRate {
		applog.Security(c, "validation.fail", map[string]any{"form": "listing.create"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid input")
	}
	in := services.NewListing{
		Kind: kind, Category: category, Brand: brand, Title: title,
		DailyRate: rate, Active: c.FormValue("active") != "",
	}
	if u, ok := c.Locals("user").(*domain.User); ok {
		in.OwnerID, in.OwnerName = u.ID, u.Name
	}
	if name, ok := validate.Name(c.FormValue("owner_name")); ok {
		in.OwnerName = name
	}
	l, err := h.Listings.Create(in)
	if err != nil {
		applog.Error(c, "admin.listing.create.fail", err, map[string]any{"kind": kind})
		return c.Status(fiber.StatusBadRequest).SendString("could not create listing")
	}
	applog.Audit(c, "admin.listing.create", map[string]any{"listing_id": l.ID, "kind": kind})
	return c.Redirect("/admin/listings?kind=" + url.QueryEscape(kind))
}

// POST /admin/listings/:id/active
func (h *AdminHandler) SetActive(c *fiber.Ctx) error {
	return h.toggle(c, "active", h.Listings.SetActive)
}

// POST /admin/listings/:id/verified
func (h *AdminHandler) SetVerified(c *fiber.Ctx) error {
	return h.toggle(c, "verified", h.Listings.SetVerified)
}

func (h *AdminHandler) toggle(c *fiber.Ctx, what string, set func(string, bool) error) error {
	id, okID := validate.ID(c.Params("id"))
	v, okV := validate.Bool(c.FormValue("value"))
	if !okID || !okV {
		applog.Security(c, "validation.fail", map[string]any{"form": "listing." + what})
		return c.Status(fiber.StatusBadRequest).SendString("invalid input")
	}
	if err := set(id, v); err != nil {
		return h.writeFailed(c, what, id, err)
	}
	applog.Audit(c, "admin.listing."+what, map[string]any{"listing_id": id, "value": v})
	return c.Redirect(backTo(c))
}

// POST /admin/listings/:id/delete
func (h *AdminHandler) DeleteListing(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing id")
	}
	if err := h.Listings.Delete(id); err != nil {
		return h.writeFailed(c, "delete", id, err)
	}
	applog.Audit(c, "admin.listing.delete", map[string]any{"listing_id": id})
	return c.Redirect(backTo(c))
}

func (h *AdminHandler) writeFailed(c *fiber.Ctx, what, id string, err error) error {
	if errors.Is(err, repos.ErrNotFound) {
		applog.Info(c, "admin.listing."+what+".missing", map[string]any{"listing_id": id})
		return notFound(c, fiber.StatusNotFound, "This listing no longer exists")
	}
	applog.Error(c, "admin.listing."+what+".fail", err, map[string]any{"listing_id": id})
	return c.Status(fiber.StatusInternalServerError).SendString("could not update listing")
}

// backTo returns to the listings table of the submitted kind.
func backTo(c *fiber.Ctx) string {
	if k, ok := validate.Kind(c.FormValue("kind")); ok {
		return "/admin/listings?kind=" + k
	}
	return "/admin/listings"
}

// GET /admin/users
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	text := ""
	if raw := c.Query("q"); raw != "" {
		q, ok := validate.Q(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "q"})
			return notFound(c, fiber.StatusBadRequest, "Enter a valid keyword")
		}
		text = q
	}
	role, ok := validate.Role(c.Query("role"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "role"})
		return notFound(c, fiber.StatusBadRequest, "Unknown role")
	}
	page, err := h.Users.Table(text, role, validate.Page(c.Query("page")))
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return notFound(c, fiber.StatusInternalServerError, "Could not load users")
	}
	q := url.Values{}
	q.Set("q", text)
	q.Set("role", role)
	return render(c, "admin_users", fiber.Map{
		"Users": page.Items, "Pager": pager(page, "/admin/users?"+q.Encode()), "Q": text, "Role": role,
	})
}
