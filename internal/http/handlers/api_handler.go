package handlers

import (
	"filmgrid/internal/catalog"
	applog "filmgrid/internal/log"
	"filmgrid/internal/services"
	"filmgrid/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// APIHandler serves the admin tables as JSON.
type APIHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/listings
func (h *APIHandler) Listings(c *fiber.Ctx) error {
	req, err := tableRequest(c)
	if err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(h.Catalog.Table(req))
}

// GET /api/v1/catalog
func (h *APIHandler) Tree(c *fiber.Ctx) error {
	kind := ""
	if raw := c.Query("kind"); raw != "" {
		k, ok := validate.Kind(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid kind"})
		}
		kind = k
	}
	category, ok := validate.Label(c.Query("category"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid category"})
	}
	tree := h.Catalog.Tree(kind, category)
	return c.JSON(fiber.Map{
		"kind":       kind,
		"categories": tree,
		"total":      countRecords(tree),
	})
}

func countRecords(tree []catalog.CategoryNode) int {
	n := 0
	for _, node := range tree {
		n += node.Count
	}
	return n
}
