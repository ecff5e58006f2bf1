package payment

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/shoply/shop-backend/internal/order"
	"github.com/shoply/shop-backend/internal/user"
)

type Handler struct {
	service *Service
	orders  order.ServiceInterface
}

func NewHandler(s *Service, orders order.ServiceInterface) *Handler {
	return &Handler{service: s, orders: orders}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/orders/:id<[0-9]+>/payment", h.processPayment)
	app.Get("/api/v1/payments/:id<[0-9]+>", h.getPayment)
	app.Post("/api/v1/payments/:id<[0-9]+>/refund", h.refund)
}

type processPaymentRequest struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	MockSuccess   *bool   `json:"mockSuccess"`
}

type refundRequest struct {
	Amount float64 `json:"amount"`
}

func (h *Handler) processPayment(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orderID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	payload := new(processPaymentRequest)
	if err := c.BodyParser(payload); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	// only the order's owner may pay for it
	ow, err := h.orders.GetWithItems(orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	if ow.Order.UserID != userID && !user.IsAdminFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden"})
	}

	mockSuccess := true
	if payload.MockSuccess != nil {
		mockSuccess = *payload.MockSuccess
	}

	p, err := h.service.Process(orderID, payload.Amount, payload.PaymentMethod, mockSuccess)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicatePayment):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, order.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handler) getPayment(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	paymentID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	p, err := h.service.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "payment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	if !user.IsAdminFromCtx(c) {
		ow, err := h.orders.GetWithItems(p.OrderID)
		if err != nil || ow.Order.UserID != userID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden"})
		}
	}

	return c.JSON(p)
}

func (h *Handler) refund(c *fiber.Ctx) error {
	if !user.IsAdminFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	paymentID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	payload := new(refundRequest)
	if err := c.BodyParser(payload); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	p, err := h.service.Refund(paymentID, payload.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "payment not found"})
		case errors.Is(err, ErrNotRefundable):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.JSON(p)
}
