package status

import (
	"math/rand"

	"github.com/gofiber/fiber/v2"
)

// Handler is the gateway-status façade for the dashboard. The traffic
// figures are synthesized, not measured.
type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/gateway/status", h.gatewayStatus)
}

type serviceMetrics struct {
	ServiceStatus
	RequestsPerMinute int     `json:"requestsPerMinute"`
	AvgLatencyMs      int     `json:"avgLatencyMs"`
	UptimePercent     float64 `json:"uptimePercent"`
}

func (h *Handler) gatewayStatus(c *fiber.Ctx) error {
	services := h.registry.List()
	out := make([]serviceMetrics, 0, len(services))
	for _, s := range services {
		out = append(out, serviceMetrics{
			ServiceStatus:     s,
			RequestsPerMinute: 50 + rand.Intn(450),
			AvgLatencyMs:      5 + rand.Intn(95),
			UptimePercent:     99.0 + rand.Float64(),
		})
	}
	return c.JSON(fiber.Map{"services": out})
}
