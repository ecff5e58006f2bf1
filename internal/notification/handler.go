package notification

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shoply/shop-backend/internal/user"
)

// Handler exposes the notification feed for the admin dashboard.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/notifications", h.listNotifications)
}

func (h *Handler) listNotifications(c *fiber.Ctx) error {
	if !user.IsAdminFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}
	return c.JSON(h.service.List())
}
