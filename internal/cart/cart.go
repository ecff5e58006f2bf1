package cart

import "github.com/shoply/shop-backend/internal/product"

// Cart is a user's single active cart. The row survives checkout; only its
// items are deleted.
type Cart struct {
	ID        int    `json:"cartId"`
	UserID    int    `json:"userId"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// CartItem is one product line. At most one row exists per
// (cart, product) pair; adding again increments the quantity.
type CartItem struct {
	ID        int              `json:"cartItemId"`
	CartID    int              `json:"cartId"`
	ProductID int              `json:"productId"`
	Quantity  int              `json:"quantity"`
	Product   *product.Product `json:"product,omitempty"`
}

// CartWithItems is the composed view returned by the API: the cart, its
// enriched lines, and the derived totals.
type CartWithItems struct {
	Cart       Cart       `json:"cart"`
	Items      []CartItem `json:"items"`
	Subtotal   float64    `json:"subtotal"`
	TotalItems int        `json:"totalItems"`
}
