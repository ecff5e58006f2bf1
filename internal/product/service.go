package product

import (
	"errors"
	"strings"
)

var ErrInvalidProduct = errors.New("invalid product")

// ServiceInterface is consumed by the cart and order packages.
type ServiceInterface interface {
	List(category, sortBy string) ([]Product, error)
	GetByID(id int) (Product, error)
	GetByIDs(ids []int) ([]Product, error)
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)
	DecrementInventory(id int, qty int) error
	IncrementInventory(id int, qty int) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(category, sortBy string) ([]Product, error) {
	return s.repo.List(category, sortBy)
}

func (s *Service) GetByID(id int) (Product, error) {
	if id <= 0 {
		return Product{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}

func (s *Service) GetByIDs(ids []int) ([]Product, error) {
	return s.repo.GetByIDs(ids)
}

func (s *Service) Create(p Product) (Product, error) {
	if err := validate(p); err != nil {
		return Product{}, err
	}
	return s.repo.Create(p)
}

func (s *Service) Update(id int, p Product) (Product, error) {
	if id <= 0 {
		return Product{}, ErrNotFound
	}
	if err := validate(p); err != nil {
		return Product{}, err
	}
	return s.repo.Update(id, p)
}

func (s *Service) DecrementInventory(id int, qty int) error {
	if qty <= 0 {
		return nil
	}
	return s.repo.DecrementInventory(id, qty)
}

func (s *Service) IncrementInventory(id int, qty int) error {
	if qty <= 0 {
		return nil
	}
	return s.repo.IncrementInventory(id, qty)
}

func validate(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidProduct
	}
	if strings.TrimSpace(p.SKU) == "" {
		return ErrInvalidProduct
	}
	if p.Price < 0 {
		return ErrInvalidProduct
	}
	if p.Inventory != nil && *p.Inventory < 0 {
		return ErrInvalidProduct
	}
	return nil
}
