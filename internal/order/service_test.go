package order

import (
	"errors"
	"testing"

	"github.com/shoply/shop-backend/internal/cart"
	"github.com/shoply/shop-backend/internal/notification"
	"github.com/shoply/shop-backend/internal/product"
	"github.com/shoply/shop-backend/internal/user"
)

// fakeNotifier records calls; failing lets tests prove notification errors
// never fail the business operation.
type fakeNotifier struct {
	confirmations []int
	statusUpdates []map[string]interface{}
	failing       bool
}

func (f *fakeNotifier) SendOrderConfirmation(userID, orderID int, payload map[string]interface{}) (notification.Notification, error) {
	if f.failing {
		return notification.Notification{}, errors.New("channel down")
	}
	f.confirmations = append(f.confirmations, orderID)
	return notification.Notification{OrderID: orderID, Status: notification.StatusSent}, nil
}

func (f *fakeNotifier) SendOrderStatusUpdate(userID, orderID int, payload map[string]interface{}) (notification.Notification, error) {
	if f.failing {
		return notification.Notification{}, errors.New("channel down")
	}
	f.statusUpdates = append(f.statusUpdates, payload)
	return notification.Notification{OrderID: orderID, Status: notification.StatusSent}, nil
}

func intPtr(v int) *int { return &v }

type testEnv struct {
	orders   *Service
	carts    *cart.Service
	products *product.Service
	notifier *fakeNotifier
	repo     *InMemoryRepository
}

func newTestEnv(seed []product.Product) *testEnv {
	products := product.NewService(product.NewInMemoryRepository(seed))
	carts := cart.NewService(cart.NewInMemoryRepository(), products)
	users := user.NewService(user.NewInMemoryRepository([]user.User{{ID: 1, Username: "alice", Email: "alice@example.com"}}))
	notifier := &fakeNotifier{}
	repo := NewInMemoryRepository()
	return &testEnv{
		orders:   NewService(repo, carts, products, users, notifier),
		carts:    carts,
		products: products,
		notifier: notifier,
		repo:     repo,
	}
}

func TestCreateFromCart_Conservation(t *testing.T) {
	env := newTestEnv([]product.Product{
		{ID: 1, Name: "A", Price: 10.00, SKU: "A-1", Inventory: intPtr(10)},
		{ID: 2, Name: "B", Price: 5.00, SKU: "B-1", Inventory: intPtr(10)},
	})

	if _, err := env.carts.AddItem(1, 1, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.carts.AddItem(1, 2, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}

	ow, err := env.orders.CreateFromCart(1, "1 Main St")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if ow.Order.Total != 25.00 {
		t.Fatalf("expected total 25.00, got %v", ow.Order.Total)
	}
	if ow.Order.Status != StatusPending {
		t.Fatalf("expected pending, got %s", ow.Order.Status)
	}
	if len(ow.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(ow.Items))
	}
	for _, item := range ow.Items {
		want := map[int]float64{1: 10.00, 2: 5.00}[item.ProductID]
		if item.Price != want {
			t.Fatalf("expected snapshot price %v for product %d, got %v", want, item.ProductID, item.Price)
		}
	}

	// cart is emptied, its row survives
	cw, err := env.carts.GetCart(1)
	if err != nil {
		t.Fatalf("cart row should survive: %v", err)
	}
	if len(cw.Items) != 0 {
		t.Fatalf("expected emptied cart, got %d items", len(cw.Items))
	}

	// inventory decremented
	p, _ := env.products.GetByID(1)
	if *p.Inventory != 8 {
		t.Fatalf("expected inventory 8, got %d", *p.Inventory)
	}

	if len(env.notifier.confirmations) != 1 || env.notifier.confirmations[0] != ow.Order.ID {
		t.Fatalf("expected one confirmation for order %d, got %v", ow.Order.ID, env.notifier.confirmations)
	}
}

func TestCreateFromCart_PriceSnapshotSurvivesRepricing(t *testing.T) {
	env := newTestEnv([]product.Product{
		{ID: 1, Name: "A", Price: 10.00, SKU: "A-1", Inventory: intPtr(10)},
	})

	if _, err := env.carts.AddItem(1, 1, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	ow, err := env.orders.CreateFromCart(1, "1 Main St")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// reprice the product after the order was placed
	if _, err := env.products.Update(1, product.Product{Name: "A", Price: 99.00, SKU: "A-1", Inventory: intPtr(9)}); err != nil {
		t.Fatalf("update product: %v", err)
	}

	again, err := env.orders.GetWithItems(ow.Order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if again.Items[0].Price != 10.00 {
		t.Fatalf("snapshot price changed: %v", again.Items[0].Price)
	}
	if again.Order.Total != 10.00 {
		t.Fatalf("order total changed: %v", again.Order.Total)
	}
}

func TestCreateFromCart_EmptyCart(t *testing.T) {
	env := newTestEnv([]product.Product{
		{ID: 1, Name: "A", Price: 10.00, SKU: "A-1", Inventory: intPtr(10)},
	})

	// add then remove to leave an existing-but-empty cart
	if _, err := env.carts.AddItem(1, 1, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.carts.AddItem(1, 1, -1); err != nil {
		t.Fatalf("remove item: %v", err)
	}

	_, err := env.orders.CreateFromCart(1, "1 Main St")
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}

	// no order was created
	if orders, _ := env.repo.ListByUser(1); len(orders) != 0 {
		t.Fatalf("expected no orders, got %d", len(orders))
	}
}

func TestCreateFromCart_NoCart(t *testing.T) {
	env := newTestEnv(nil)
	_, err := env.orders.CreateFromCart(1, "1 Main St")
	if !errors.Is(err, cart.ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestCreateFromCart_MissingShippingAddress(t *testing.T) {
	env := newTestEnv(nil)
	_, err := env.orders.CreateFromCart(1, "   ")
	if !errors.Is(err, ErrShippingAddress) {
		t.Fatalf("expected ErrShippingAddress, got %v", err)
	}
}

func TestCreateFromCart_InventoryBoundary(t *testing.T) {
	env := newTestEnv([]product.Product{
		{ID: 1, Name: "A", Price: 10.00, SKU: "A-1", Inventory: intPtr(1)},
	})

	if _, err := env.carts.AddItem(1, 1, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.orders.CreateFromCart(1, "1 Main St"); err != nil {
		t.Fatalf("first order failed: %v", err)
	}

	p, _ := env.products.GetByID(1)
	if *p.Inventory != 0 {
		t.Fatalf("expected inventory 0, got %d", *p.Inventory)
	}

	// a second order against the same unit is rejected, never negative
	if _, err := env.carts.AddItem(1, 1, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	_, err := env.orders.CreateFromCart(1, "1 Main St")
	if !errors.Is(err, product.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}

	p, _ = env.products.GetByID(1)
	if *p.Inventory != 0 {
		t.Fatalf("inventory went negative or was restored wrongly: %d", *p.Inventory)
	}

	// the rejected order must not linger
	orders, _ := env.repo.ListByUser(1)
	if len(orders) != 1 {
		t.Fatalf("expected exactly 1 order after rejection, got %d", len(orders))
	}
}

func TestCreateFromCart_CompensationRestoresStock(t *testing.T) {
	env := newTestEnv([]product.Product{
		{ID: 1, Name: "A", Price: 10.00, SKU: "A-1", Inventory: intPtr(5)},
		{ID: 2, Name: "B", Price: 5.00, SKU: "B-1", Inventory: intPtr(0)},
	})

	if _, err := env.carts.AddItem(1, 1, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.carts.AddItem(1, 2, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}

	_, err := env.orders.CreateFromCart(1, "1 Main St")
	if !errors.Is(err, product.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}

	// the first line's decrement was rolled back
	p, _ := env.products.GetByID(1)
	if *p.Inventory != 5 {
		t.Fatalf("expected restored inventory 5, got %d", *p.Inventory)
	}
	if orders, _ := env.repo.ListByUser(1); len(orders) != 0 {
		t.Fatalf("expected compensated order to be deleted")
	}

	// the cart is untouched so the user can retry
	cw, err := env.carts.GetCart(1)
	if err != nil || len(cw.Items) != 2 {
		t.Fatalf("expected cart to keep its items, got %+v (%v)", cw.Items, err)
	}
}

func TestCreateFromCart_NotifierFailureDoesNotFailOrder(t *testing.T) {
	env := newTestEnv([]product.Product{
		{ID: 1, Name: "A", Price: 10.00, SKU: "A-1", Inventory: intPtr(10)},
	})
	env.notifier.failing = true

	if _, err := env.carts.AddItem(1, 1, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	ow, err := env.orders.CreateFromCart(1, "1 Main St")
	if err != nil {
		t.Fatalf("order must succeed despite notifier failure: %v", err)
	}
	if ow.Order.Status != StatusPending {
		t.Fatalf("unexpected status %s", ow.Order.Status)
	}
}

func TestUpdateStatus(t *testing.T) {
	env := newTestEnv([]product.Product{
		{ID: 1, Name: "A", Price: 10.00, SKU: "A-1", Inventory: intPtr(10)},
	})
	if _, err := env.carts.AddItem(1, 1, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	ow, err := env.orders.CreateFromCart(1, "1 Main St")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := env.orders.UpdateStatus(ow.Order.ID, StatusProcessing)
	if err != nil {
		t.Fatalf("legal transition rejected: %v", err)
	}
	if updated.Status != StatusProcessing {
		t.Fatalf("expected processing, got %s", updated.Status)
	}
	if len(env.notifier.statusUpdates) != 1 {
		t.Fatalf("expected a status notification")
	}
	if got := env.notifier.statusUpdates[0]["status"]; got != "processing" {
		t.Fatalf("unexpected notification payload status %v", got)
	}

	// illegal jump rejected
	if _, err := env.orders.UpdateStatus(ow.Order.ID, StatusCompleted); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	// unknown value rejected
	if _, err := env.orders.UpdateStatus(ow.Order.ID, Status("teleported")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	// unknown order
	if _, err := env.orders.UpdateStatus(999, StatusProcessing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
