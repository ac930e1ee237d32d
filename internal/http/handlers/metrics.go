package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the default Prometheus registry.
func Metrics() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
