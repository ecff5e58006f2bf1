package payment

import (
	"errors"
	"sync"
)

var (
	ErrNotFound         = errors.New("payment not found")
	ErrDuplicatePayment = errors.New("payment already exists for order")
	ErrNotRefundable    = errors.New("payment is not refundable")
)

type Repository interface {
	// CreateIfAbsent inserts atomically: the one-payment-per-order
	// invariant must hold even for two concurrent calls, so a plain
	// lookup-before-insert is not enough.
	CreateIfAbsent(p Payment) (Payment, error)
	GetByID(id int) (Payment, error)
	GetByOrderID(orderID int) (Payment, error)
	UpdateStatus(id int, status Status) (Payment, error)
	SetTransactionID(id int, transactionID string) error
}

type InMemoryRepository struct {
	mu      sync.Mutex
	byID    map[int]Payment
	byOrder map[int]int
	nextID  int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:    make(map[int]Payment),
		byOrder: make(map[int]int),
		nextID:  1,
	}
}

func (r *InMemoryRepository) CreateIfAbsent(p Payment) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byOrder[p.OrderID]; exists {
		return Payment{}, ErrDuplicatePayment
	}

	p.ID = r.nextID
	r.nextID++
	r.byID[p.ID] = p
	r.byOrder[p.OrderID] = p.ID
	return p, nil
}

func (r *InMemoryRepository) GetByID(id int) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return Payment{}, ErrNotFound
	}
	return p, nil
}

func (r *InMemoryRepository) GetByOrderID(orderID int) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byOrder[orderID]
	if !ok {
		return Payment{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *InMemoryRepository) UpdateStatus(id int, status Status) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return Payment{}, ErrNotFound
	}
	p.Status = status
	r.byID[id] = p
	return p, nil
}

func (r *InMemoryRepository) SetTransactionID(id int, transactionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	p.TransactionID = transactionID
	r.byID[id] = p
	return nil
}
