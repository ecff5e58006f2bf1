package payment

import (
	"errors"
	"testing"

	"github.com/shoply/shop-backend/internal/notification"
	"github.com/shoply/shop-backend/internal/order"
)

// fakeOrders tracks status changes made by the payment workflow.
type fakeOrders struct {
	statuses map[int]order.Status
	totals   map[int]float64
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{
		statuses: map[int]order.Status{10: order.StatusPending},
		totals:   map[int]float64{10: 25.00},
	}
}

func (f *fakeOrders) CreateFromCart(userID int, shippingAddress string) (order.OrderWithItems, error) {
	return order.OrderWithItems{}, errors.New("not implemented")
}

func (f *fakeOrders) GetWithItems(orderID int) (order.OrderWithItems, error) {
	status, ok := f.statuses[orderID]
	if !ok {
		return order.OrderWithItems{}, order.ErrNotFound
	}
	return order.OrderWithItems{Order: order.Order{ID: orderID, UserID: 1, Status: status, Total: f.totals[orderID]}}, nil
}

func (f *fakeOrders) ListByUser(userID int) ([]order.Order, error) {
	return nil, nil
}

func (f *fakeOrders) UpdateStatus(orderID int, next order.Status) (order.Order, error) {
	current, ok := f.statuses[orderID]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	if !current.CanTransitionTo(next) {
		return order.Order{}, order.ErrInvalidTransition
	}
	f.statuses[orderID] = next
	return order.Order{ID: orderID, Status: next}, nil
}

var _ order.ServiceInterface = (*fakeOrders)(nil)

type fakeNotifier struct {
	confirmations int
	refunds       int
}

func (f *fakeNotifier) SendPaymentConfirmation(userID, orderID int, payload map[string]interface{}) (notification.Notification, error) {
	f.confirmations++
	return notification.Notification{Status: notification.StatusSent}, nil
}

func (f *fakeNotifier) SendRefundNotice(userID, orderID int, payload map[string]interface{}) (notification.Notification, error) {
	f.refunds++
	return notification.Notification{Status: notification.StatusSent}, nil
}

func TestProcess_SuccessAdvancesOrder(t *testing.T) {
	orders := newFakeOrders()
	notifier := &fakeNotifier{}
	svc := NewService(NewInMemoryRepository(), orders, notifier, nil)

	p, err := svc.Process(10, 25.00, "card", true)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if p.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", p.Status)
	}
	if p.TransactionID == "" {
		t.Fatalf("expected a transaction id")
	}
	if orders.statuses[10] != order.StatusProcessing {
		t.Fatalf("expected order advanced to processing, got %s", orders.statuses[10])
	}
	if notifier.confirmations != 1 {
		t.Fatalf("expected one payment confirmation, got %d", notifier.confirmations)
	}
}

func TestProcess_FailureLeavesOrderAlone(t *testing.T) {
	orders := newFakeOrders()
	notifier := &fakeNotifier{}
	svc := NewService(NewInMemoryRepository(), orders, notifier, nil)

	p, err := svc.Process(10, 25.00, "card", false)
	if err != nil {
		t.Fatalf("process returned error: %v", err)
	}
	if p.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", p.Status)
	}
	if orders.statuses[10] != order.StatusPending {
		t.Fatalf("order status must remain pending, got %s", orders.statuses[10])
	}
	if notifier.confirmations != 0 {
		t.Fatalf("no confirmation expected on failure")
	}
}

func TestProcess_DuplicateGuard(t *testing.T) {
	orders := newFakeOrders()
	repo := NewInMemoryRepository()
	svc := NewService(repo, orders, &fakeNotifier{}, nil)

	if _, err := svc.Process(10, 25.00, "card", true); err != nil {
		t.Fatalf("first payment failed: %v", err)
	}

	_, err := svc.Process(10, 25.00, "card", true)
	if !errors.Is(err, ErrDuplicatePayment) {
		t.Fatalf("expected ErrDuplicatePayment, got %v", err)
	}

	// exactly one payment row exists
	if _, err := repo.GetByOrderID(10); err != nil {
		t.Fatalf("expected the original payment to remain: %v", err)
	}
}

func TestProcess_UnknownOrder(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), newFakeOrders(), &fakeNotifier{}, nil)
	_, err := svc.Process(999, 10.00, "card", true)
	if !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("expected order.ErrNotFound, got %v", err)
	}
}

func TestProcess_DefaultsAmountToOrderTotal(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), newFakeOrders(), &fakeNotifier{}, nil)
	p, err := svc.Process(10, 0, "card", true)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if p.Amount != 25.00 {
		t.Fatalf("expected amount 25.00, got %v", p.Amount)
	}
}

func TestRefund_Reachability(t *testing.T) {
	orders := newFakeOrders()
	notifier := &fakeNotifier{}
	repo := NewInMemoryRepository()
	svc := NewService(repo, orders, notifier, nil)

	// a failed payment cannot be refunded
	failed, err := svc.Process(10, 25.00, "card", false)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if _, err := svc.Refund(failed.ID, 0); !errors.Is(err, ErrNotRefundable) {
		t.Fatalf("expected ErrNotRefundable for failed payment, got %v", err)
	}

	// a pending payment cannot be refunded either
	pending, _ := repo.CreateIfAbsent(Payment{OrderID: 11, Amount: 5, Status: StatusPending})
	if _, err := svc.Refund(pending.ID, 0); !errors.Is(err, ErrNotRefundable) {
		t.Fatalf("expected ErrNotRefundable for pending payment, got %v", err)
	}

	// a completed payment refunds and cancels the order
	orders.statuses[12] = order.StatusPending
	orders.totals[12] = 30.00
	completed, err := svc.Process(12, 30.00, "card", true)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	refunded, err := svc.Refund(completed.ID, 30.00)
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if refunded.Status != StatusRefunded {
		t.Fatalf("expected refunded, got %s", refunded.Status)
	}
	if refunded.Amount != 30.00 {
		t.Fatalf("payment amount must not change on refund, got %v", refunded.Amount)
	}
	if orders.statuses[12] != order.StatusCancelled {
		t.Fatalf("expected order cancelled, got %s", orders.statuses[12])
	}
	if notifier.refunds != 1 {
		t.Fatalf("expected one refund notice, got %d", notifier.refunds)
	}

	// a refunded payment stays refunded
	if _, err := svc.Refund(completed.ID, 0); !errors.Is(err, ErrNotRefundable) {
		t.Fatalf("expected ErrNotRefundable for refunded payment, got %v", err)
	}
}

func TestRefund_UnknownPayment(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), newFakeOrders(), &fakeNotifier{}, nil)
	if _, err := svc.Refund(77, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
