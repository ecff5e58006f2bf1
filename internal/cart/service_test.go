package cart

import (
	"testing"

	"github.com/shoply/shop-backend/internal/product"
)

func intPtr(v int) *int { return &v }

func newTestService() *Service {
	products := product.NewService(product.NewInMemoryRepository([]product.Product{
		{ID: 1, Name: "Notebook", Price: 10.00, SKU: "SKU-1", Inventory: intPtr(5)},
		{ID: 2, Name: "Pen", Price: 5.00, SKU: "SKU-2"},
	}))
	return NewService(NewInMemoryRepository(), products)
}

func TestAddItem_IncrementsExistingLine(t *testing.T) {
	svc := newTestService()

	cw, err := svc.AddItem(7, 1, 2)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if len(cw.Items) != 1 || cw.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", cw.Items)
	}

	// re-adding the same product must increment, not duplicate
	cw, err = svc.AddItem(7, 1, 3)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if len(cw.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(cw.Items))
	}
	if cw.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", cw.Items[0].Quantity)
	}
}

func TestGetCart_DerivedTotals(t *testing.T) {
	svc := newTestService()

	if _, err := svc.AddItem(3, 1, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.AddItem(3, 2, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	cw, err := svc.GetCart(3)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if cw.Subtotal != 25.00 {
		t.Fatalf("expected subtotal 25.00, got %v", cw.Subtotal)
	}
	if cw.TotalItems != 3 {
		t.Fatalf("expected 3 total items, got %d", cw.TotalItems)
	}
	for _, item := range cw.Items {
		if item.Product == nil {
			t.Fatalf("item %d missing product details", item.ProductID)
		}
	}
}

func TestGetCart_NoCart(t *testing.T) {
	svc := newTestService()
	if _, err := svc.GetCart(99); err != ErrCartNotFound {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestAddItem_UnknownProduct(t *testing.T) {
	svc := newTestService()
	if _, err := svc.AddItem(1, 42, 1); err != product.ErrNotFound {
		t.Fatalf("expected product.ErrNotFound, got %v", err)
	}
}

func TestClearItems_KeepsCartRow(t *testing.T) {
	svc := newTestService()

	cw, err := svc.AddItem(5, 1, 1)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := svc.ClearItems(cw.Cart.ID); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	after, err := svc.GetCart(5)
	if err != nil {
		t.Fatalf("expected cart row to survive clearing, got %v", err)
	}
	if len(after.Items) != 0 || after.Subtotal != 0 {
		t.Fatalf("expected empty cart, got %+v", after)
	}
	if after.Cart.ID != cw.Cart.ID {
		t.Fatalf("cart id changed after clear: %d != %d", after.Cart.ID, cw.Cart.ID)
	}
}
