package cart

import (
	"errors"
	"sync"
)

var ErrCartNotFound = errors.New("cart not found")

// Repository provides CRUD primitives only; composition and totals live in
// the service.
type Repository interface {
	GetCartByUser(userID int) (Cart, error)
	CreateCart(userID int, createdAt string) (Cart, error)
	ListItems(cartID int) ([]CartItem, error)
	// AddItem upserts: an existing (cart, product) row is incremented. A
	// resulting quantity <= 0 removes the row.
	AddItem(cartID, productID, qty int) ([]CartItem, error)
	RemoveItem(cartID, productID int) error
	ClearItems(cartID int) error
}

type InMemoryRepository struct {
	mu         sync.RWMutex
	carts      []Cart
	items      []CartItem
	nextCartID int
	nextItemID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextCartID: 1, nextItemID: 1}
}

func (r *InMemoryRepository) GetCartByUser(userID int) (Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ct := range r.carts {
		if ct.UserID == userID {
			return ct, nil
		}
	}
	return Cart{}, ErrCartNotFound
}

func (r *InMemoryRepository) CreateCart(userID int, createdAt string) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// one cart per user
	for _, ct := range r.carts {
		if ct.UserID == userID {
			return ct, nil
		}
	}

	ct := Cart{ID: r.nextCartID, UserID: userID, CreatedAt: createdAt}
	r.nextCartID++
	r.carts = append(r.carts, ct)
	return ct, nil
}

func (r *InMemoryRepository) ListItems(cartID int) ([]CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listItemsLocked(cartID), nil
}

func (r *InMemoryRepository) listItemsLocked(cartID int) []CartItem {
	out := make([]CartItem, 0)
	for _, item := range r.items {
		if item.CartID == cartID {
			out = append(out, item)
		}
	}
	return out
}

func (r *InMemoryRepository) AddItem(cartID, productID, qty int) ([]CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.CartID == cartID && item.ProductID == productID {
			newQty := item.Quantity + qty
			if newQty <= 0 {
				r.items = append(r.items[:i], r.items[i+1:]...)
			} else {
				r.items[i].Quantity = newQty
			}
			return r.listItemsLocked(cartID), nil
		}
	}

	if qty > 0 {
		r.items = append(r.items, CartItem{ID: r.nextItemID, CartID: cartID, ProductID: productID, Quantity: qty})
		r.nextItemID++
	}
	return r.listItemsLocked(cartID), nil
}

func (r *InMemoryRepository) RemoveItem(cartID, productID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.CartID == cartID && item.ProductID == productID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *InMemoryRepository) ClearItems(cartID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	for _, item := range r.items {
		if item.CartID != cartID {
			kept = append(kept, item)
		}
	}
	r.items = kept
	return nil
}
