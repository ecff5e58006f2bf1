package product

// Product maps to the `products` table. Inventory is nullable; nil means the
// stock level is not tracked and orders never decrement it.
type Product struct {
	ID          int     `json:"productId"`
	Name        string  `json:"productName"`
	Description string  `json:"productDesc,omitempty"`
	Price       float64 `json:"productPrice"`
	SKU         string  `json:"sku"`
	Inventory   *int    `json:"inventory,omitempty"`
	Category    string  `json:"category,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

// Sort values accepted by the catalog list endpoint.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)
