package cart

import (
	"time"

	"github.com/shoply/shop-backend/internal/product"
)

// ServiceInterface is consumed by the order workflow.
type ServiceInterface interface {
	GetCart(userID int) (CartWithItems, error)
	AddItem(userID, productID, qty int) (CartWithItems, error)
	RemoveItem(userID, productID int) error
	ClearItems(cartID int) error
}

type Service struct {
	repo     Repository
	products product.ServiceInterface
}

func NewService(repo Repository, products product.ServiceInterface) *Service {
	return &Service{repo: repo, products: products}
}

// GetCart composes the cart with its enriched lines and derived totals.
// A user who never added anything has no cart: ErrCartNotFound.
func (s *Service) GetCart(userID int) (CartWithItems, error) {
	if userID <= 0 {
		return CartWithItems{}, ErrCartNotFound
	}

	ct, err := s.repo.GetCartByUser(userID)
	if err != nil {
		return CartWithItems{}, err
	}

	items, err := s.repo.ListItems(ct.ID)
	if err != nil {
		return CartWithItems{}, err
	}

	return s.compose(ct, items)
}

func (s *Service) AddItem(userID, productID, qty int) (CartWithItems, error) {
	if userID <= 0 {
		return CartWithItems{}, ErrCartNotFound
	}
	if _, err := s.products.GetByID(productID); err != nil {
		return CartWithItems{}, err
	}

	ct, err := s.repo.GetCartByUser(userID)
	if err == ErrCartNotFound {
		ct, err = s.repo.CreateCart(userID, time.Now().UTC().Format(time.RFC3339))
	}
	if err != nil {
		return CartWithItems{}, err
	}

	items, err := s.repo.AddItem(ct.ID, productID, qty)
	if err != nil {
		return CartWithItems{}, err
	}

	return s.compose(ct, items)
}

func (s *Service) RemoveItem(userID, productID int) error {
	ct, err := s.repo.GetCartByUser(userID)
	if err != nil {
		return err
	}
	return s.repo.RemoveItem(ct.ID, productID)
}

func (s *Service) ClearItems(cartID int) error {
	return s.repo.ClearItems(cartID)
}

func (s *Service) compose(ct Cart, items []CartItem) (CartWithItems, error) {
	out := CartWithItems{Cart: ct, Items: items}

	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.GetByIDs(ids)
	if err != nil {
		return CartWithItems{}, err
	}
	byID := make(map[int]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for i := range out.Items {
		if p, ok := byID[out.Items[i].ProductID]; ok {
			prod := p
			out.Items[i].Product = &prod
			out.Subtotal += p.Price * float64(out.Items[i].Quantity)
		}
		out.TotalItems += out.Items[i].Quantity
	}
	return out, nil
}
