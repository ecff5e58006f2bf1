package order

import (
	"errors"
	"sync"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrShippingAddress   = errors.New("shipping address is required")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("illegal status transition")
)

// Repository provides CRUD primitives; the workflow orchestration lives in
// the service.
type Repository interface {
	Create(ord Order, items []OrderItem) (Order, []OrderItem, error)
	Get(orderID int) (Order, error)
	GetItems(orderID int) ([]OrderItem, error)
	ListByUser(userID int) ([]Order, error)
	UpdateStatus(orderID int, status Status, updatedAt string) (Order, error)
	// Delete removes the order and its items; used only to compensate a
	// failed creation.
	Delete(orderID int) error
}

type InMemoryRepository struct {
	mu         sync.RWMutex
	orders     []Order
	items      []OrderItem
	nextID     int
	nextItemID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, nextItemID: 1}
}

func (r *InMemoryRepository) Create(ord Order, items []OrderItem) (Order, []OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ord.ID = r.nextID
	r.nextID++
	r.orders = append(r.orders, ord)

	created := make([]OrderItem, 0, len(items))
	for _, item := range items {
		item.ID = r.nextItemID
		r.nextItemID++
		item.OrderID = ord.ID
		r.items = append(r.items, item)
		created = append(created, item)
	}
	return ord, created, nil
}

func (r *InMemoryRepository) Get(orderID int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ord := range r.orders {
		if ord.ID == orderID {
			return ord, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) GetItems(orderID int) ([]OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]OrderItem, 0)
	for _, item := range r.items {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.UserID == userID {
			out = append(out, ord)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(orderID int, status Status, updatedAt string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, ord := range r.orders {
		if ord.ID == orderID {
			r.orders[i].Status = status
			r.orders[i].UpdatedAt = updatedAt
			return r.orders[i], nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(orderID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, ord := range r.orders {
		if ord.ID == orderID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			kept := r.items[:0]
			for _, item := range r.items {
				if item.OrderID != orderID {
					kept = append(kept, item)
				}
			}
			r.items = kept
			return nil
		}
	}
	return ErrNotFound
}
