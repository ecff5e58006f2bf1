package order

import (
	"fmt"

	"github.com/shoply/shop-backend/internal/product"
	"github.com/shoply/shop-backend/internal/user"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// transitions is the explicit state machine: the happy path advances one
// step at a time and cancellation is reachable from every non-terminal
// state. Completed and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is the persisted purchase. Total is a snapshot of the cart subtotal
// at creation and is never recomputed.
type Order struct {
	ID              int     `json:"orderId"`
	OrderNo         string  `json:"orderNo"`
	UserID          int     `json:"userId"`
	Status          Status  `json:"status"`
	Total           float64 `json:"total"`
	ShippingAddress string  `json:"shippingAddress"`
	CreatedAt       string  `json:"createdAt,omitempty"`
	UpdatedAt       string  `json:"updatedAt,omitempty"`
}

// OrderItem freezes the unit price at order time; later product price
// changes do not touch it.
type OrderItem struct {
	ID        int              `json:"orderItemId"`
	OrderID   int              `json:"orderId"`
	ProductID int              `json:"productId"`
	Quantity  int              `json:"quantity"`
	Price     float64          `json:"price"`
	Product   *product.Product `json:"product,omitempty"`
}

type OrderWithItems struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
	User  *user.User  `json:"user,omitempty"`
}

// FormatOrderID renders the human-readable order number, e.g. 7 -> ORD-0007.
func FormatOrderID(id int) string {
	return fmt.Sprintf("ORD-%04d", id)
}

// ParseOrderID recovers the numeric id from an order number.
func ParseOrderID(orderNo string) (int, error) {
	var id int
	if _, err := fmt.Sscanf(orderNo, "ORD-%d", &id); err != nil {
		return 0, fmt.Errorf("invalid order number %q", orderNo)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid order number %q", orderNo)
	}
	return id, nil
}
