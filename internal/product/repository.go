package product

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound   = errors.New("product not found")
	ErrSKUExists  = errors.New("sku already exists")
	ErrOutOfStock = errors.New("not enough inventory")
)

type Repository interface {
	List(category, sortBy string) ([]Product, error)
	GetByID(id int) (Product, error)
	GetByIDs(ids []int) ([]Product, error)
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)

	// DecrementInventory subtracts qty conditionally: it fails with
	// ErrOutOfStock instead of letting the level go negative, and is a
	// no-op for products with untracked (nil) inventory.
	DecrementInventory(id int, qty int) error
	// IncrementInventory restores stock, used to compensate a partially
	// applied order.
	IncrementInventory(id int, qty int) error
}

type InMemoryRepository struct {
	mu       sync.RWMutex
	products []Product
	nextID   int
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	repo := &InMemoryRepository{
		products: make([]Product, 0, len(seed)),
		nextID:   1,
	}

	maxID := 0
	for _, p := range seed {
		repo.products = append(repo.products, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	repo.nextID = maxID + 1
	return repo
}

func (r *InMemoryRepository) List(category, sortBy string) ([]Product, error) {
	r.mu.RLock()
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	r.mu.RUnlock()

	switch sortBy {
	case SortPriceAsc:
		sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.Slice(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortName:
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) GetByIDs(ids []int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		for _, p := range r.products {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Create(p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.products {
		if existing.SKU == p.SKU {
			return Product{}, ErrSKUExists
		}
	}

	p.ID = r.nextID
	r.nextID++
	r.products = append(r.products, p)
	return p, nil
}

func (r *InMemoryRepository) Update(id int, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.products {
		if existing.ID == id {
			p.ID = id
			r.products[i] = p
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) DecrementInventory(id int, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID != id {
			continue
		}
		if p.Inventory == nil {
			return nil
		}
		if *p.Inventory < qty {
			return ErrOutOfStock
		}
		remaining := *p.Inventory - qty
		r.products[i].Inventory = &remaining
		return nil
	}
	return ErrNotFound
}

func (r *InMemoryRepository) IncrementInventory(id int, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID != id {
			continue
		}
		if p.Inventory == nil {
			return nil
		}
		restored := *p.Inventory + qty
		r.products[i].Inventory = &restored
		return nil
	}
	return ErrNotFound
}
