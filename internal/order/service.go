package order

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoply/shop-backend/internal/cart"
	"github.com/shoply/shop-backend/internal/notification"
	"github.com/shoply/shop-backend/internal/product"
	"github.com/shoply/shop-backend/internal/user"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "order").Logger()

// Notifier is the outbound message channel; its failures never roll back an
// order operation.
type Notifier interface {
	SendOrderConfirmation(userID, orderID int, payload map[string]interface{}) (notification.Notification, error)
	SendOrderStatusUpdate(userID, orderID int, payload map[string]interface{}) (notification.Notification, error)
}

// ServiceInterface is consumed by the payment workflow and the HTTP layer.
type ServiceInterface interface {
	CreateFromCart(userID int, shippingAddress string) (OrderWithItems, error)
	GetWithItems(orderID int) (OrderWithItems, error)
	ListByUser(userID int) ([]Order, error)
	UpdateStatus(orderID int, next Status) (Order, error)
}

type Service struct {
	repo     Repository
	carts    cart.ServiceInterface
	products product.ServiceInterface
	users    user.ServiceInterface
	notifier Notifier
}

func NewService(repo Repository, carts cart.ServiceInterface, products product.ServiceInterface, users user.ServiceInterface, notifier Notifier) *Service {
	return &Service{repo: repo, carts: carts, products: products, users: users, notifier: notifier}
}

// CreateFromCart materializes an order from the user's current cart:
// the cart subtotal becomes the order total, each line's current unit price
// is frozen into an OrderItem, inventory is decremented per line, and the
// cart is emptied. A failed decrement rolls the whole thing back by
// restoring the stock already taken and deleting the order.
func (s *Service) CreateFromCart(userID int, shippingAddress string) (OrderWithItems, error) {
	if strings.TrimSpace(shippingAddress) == "" {
		return OrderWithItems{}, ErrShippingAddress
	}

	cw, err := s.carts.GetCart(userID)
	if err != nil {
		return OrderWithItems{}, err
	}
	if len(cw.Items) == 0 {
		return OrderWithItems{}, ErrEmptyCart
	}

	now := time.Now().UTC().Format(time.RFC3339)
	items := make([]OrderItem, 0, len(cw.Items))
	for _, line := range cw.Items {
		if line.Product == nil {
			return OrderWithItems{}, fmt.Errorf("product %d: %w", line.ProductID, product.ErrNotFound)
		}
		items = append(items, OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
		})
	}

	ord, createdItems, err := s.repo.Create(Order{
		UserID:          userID,
		Status:          StatusPending,
		Total:           cw.Subtotal,
		ShippingAddress: shippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, items)
	if err != nil {
		return OrderWithItems{}, err
	}

	for i, item := range createdItems {
		if err := s.products.DecrementInventory(item.ProductID, item.Quantity); err != nil {
			s.compensate(ord.ID, createdItems[:i])
			return OrderWithItems{}, fmt.Errorf("product %d: %w", item.ProductID, err)
		}
	}

	if err := s.carts.ClearItems(cw.Cart.ID); err != nil {
		logger.Warn().Err(err).Int("cartId", cw.Cart.ID).Msg("could not clear cart after order creation")
	}

	ord.OrderNo = FormatOrderID(ord.ID)

	if _, err := s.notifier.SendOrderConfirmation(userID, ord.ID, map[string]interface{}{
		"orderNo": ord.OrderNo,
		"total":   ord.Total,
	}); err != nil {
		logger.Warn().Err(err).Int("orderId", ord.ID).Msg("order confirmation failed")
	}

	return s.withDetails(ord, createdItems)
}

// compensate undoes a partially applied creation: restores the decrements
// already made and removes the order row with its items.
func (s *Service) compensate(orderID int, decremented []OrderItem) {
	for _, item := range decremented {
		if err := s.products.IncrementInventory(item.ProductID, item.Quantity); err != nil {
			logger.Error().Err(err).Int("productId", item.ProductID).Msg("could not restore inventory")
		}
	}
	if err := s.repo.Delete(orderID); err != nil {
		logger.Error().Err(err).Int("orderId", orderID).Msg("could not delete partially created order")
	}
}

func (s *Service) GetWithItems(orderID int) (OrderWithItems, error) {
	ord, err := s.repo.Get(orderID)
	if err != nil {
		return OrderWithItems{}, err
	}
	items, err := s.repo.GetItems(orderID)
	if err != nil {
		return OrderWithItems{}, err
	}
	ord.OrderNo = FormatOrderID(ord.ID)
	return s.withDetails(ord, items)
}

func (s *Service) ListByUser(userID int) ([]Order, error) {
	orders, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].OrderNo = FormatOrderID(orders[i].ID)
	}
	return orders, nil
}

// UpdateStatus enforces the transition table and fires a status
// notification on success.
func (s *Service) UpdateStatus(orderID int, next Status) (Order, error) {
	if !next.Valid() {
		return Order{}, fmt.Errorf("%q: %w", next, ErrInvalidStatus)
	}

	ord, err := s.repo.Get(orderID)
	if err != nil {
		return Order{}, err
	}
	if !ord.Status.CanTransitionTo(next) {
		return Order{}, fmt.Errorf("%s -> %s: %w", ord.Status, next, ErrInvalidTransition)
	}

	updated, err := s.repo.UpdateStatus(orderID, next, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return Order{}, err
	}
	updated.OrderNo = FormatOrderID(updated.ID)

	if _, err := s.notifier.SendOrderStatusUpdate(updated.UserID, updated.ID, map[string]interface{}{
		"orderNo": updated.OrderNo,
		"status":  string(next),
	}); err != nil {
		logger.Warn().Err(err).Int("orderId", updated.ID).Msg("status notification failed")
	}

	return updated, nil
}

func (s *Service) withDetails(ord Order, items []OrderItem) (OrderWithItems, error) {
	out := OrderWithItems{Order: ord, Items: items}

	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.GetByIDs(ids)
	if err != nil {
		return OrderWithItems{}, err
	}
	byID := make(map[int]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for i := range out.Items {
		if p, ok := byID[out.Items[i].ProductID]; ok {
			prod := p
			out.Items[i].Product = &prod
		}
	}

	if owner, err := s.users.GetByID(ord.UserID); err == nil {
		owner.Password = ""
		out.User = &owner
	}

	return out, nil
}
