package payment

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shoply/shop-backend/internal/notification"
	"github.com/shoply/shop-backend/internal/order"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "payment").Logger()

// Notifier is the outbound message channel; failures are logged, never
// propagated.
type Notifier interface {
	SendPaymentConfirmation(userID, orderID int, payload map[string]interface{}) (notification.Notification, error)
	SendRefundNotice(userID, orderID int, payload map[string]interface{}) (notification.Notification, error)
}

type Service struct {
	repo     Repository
	orders   order.ServiceInterface
	notifier Notifier
	gateway  Gateway // nil means mock mode
}

func NewService(repo Repository, orders order.ServiceInterface, notifier Notifier, gateway Gateway) *Service {
	return &Service{repo: repo, orders: orders, notifier: notifier, gateway: gateway}
}

// Process attaches the single payment attempt to an order. On a successful
// charge the order advances to processing; on a failed charge the payment is
// recorded as failed and the order is left alone.
func (s *Service) Process(orderID int, amount float64, method string, mockSuccess bool) (Payment, error) {
	ow, err := s.orders.GetWithItems(orderID)
	if err != nil {
		return Payment{}, err
	}

	if amount <= 0 {
		amount = ow.Order.Total
	}
	if strings.TrimSpace(method) == "" {
		method = "card"
	}

	p := Payment{
		OrderID:       orderID,
		Amount:        amount,
		Status:        StatusPending,
		PaymentMethod: method,
		TransactionID: newTransactionID(),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	created, err := s.repo.CreateIfAbsent(p)
	if err == ErrDuplicatePayment {
		return Payment{}, fmt.Errorf("order %d: %w", orderID, ErrDuplicatePayment)
	}
	if err != nil {
		return Payment{}, err
	}

	succeeded := mockSuccess
	if s.gateway != nil {
		txID, chargeErr := s.gateway.Charge(amount, method)
		succeeded = chargeErr == nil
		if chargeErr != nil {
			logger.Warn().Err(chargeErr).Int("orderId", orderID).Msg("gateway charge failed")
		} else if txID != "" {
			if err := s.repo.SetTransactionID(created.ID, txID); err == nil {
				created.TransactionID = txID
			}
		}
	}

	if !succeeded {
		failed, err := s.repo.UpdateStatus(created.ID, StatusFailed)
		if err != nil {
			return Payment{}, err
		}
		failed.TransactionID = created.TransactionID
		return failed, nil
	}

	completed, err := s.repo.UpdateStatus(created.ID, StatusCompleted)
	if err != nil {
		return Payment{}, err
	}

	if _, err := s.orders.UpdateStatus(orderID, order.StatusProcessing); err != nil {
		// the payment stands; the order status is reconciled by hand
		logger.Warn().Err(err).Int("orderId", orderID).Msg("could not advance order after payment")
	}

	if _, err := s.notifier.SendPaymentConfirmation(ow.Order.UserID, orderID, map[string]interface{}{
		"amount":        completed.Amount,
		"transactionId": completed.TransactionID,
	}); err != nil {
		logger.Warn().Err(err).Int("orderId", orderID).Msg("payment confirmation failed")
	}

	return completed, nil
}

// Refund flips a completed payment to refunded and cancels its order. The
// requested amount is only recorded in the notification payload.
func (s *Service) Refund(paymentID int, amount float64) (Payment, error) {
	p, err := s.repo.GetByID(paymentID)
	if err != nil {
		return Payment{}, err
	}
	if p.Status != StatusCompleted {
		return Payment{}, fmt.Errorf("cannot refund payment with status %s: %w", p.Status, ErrNotRefundable)
	}

	refunded, err := s.repo.UpdateStatus(p.ID, StatusRefunded)
	if err != nil {
		return Payment{}, err
	}

	if _, err := s.orders.UpdateStatus(p.OrderID, order.StatusCancelled); err != nil {
		logger.Warn().Err(err).Int("orderId", p.OrderID).Msg("could not cancel order after refund")
	}

	if amount <= 0 {
		amount = p.Amount
	}
	userID := 0
	if ow, err := s.orders.GetWithItems(p.OrderID); err == nil {
		userID = ow.Order.UserID
	}
	if _, err := s.notifier.SendRefundNotice(userID, p.OrderID, map[string]interface{}{
		"amount":        amount,
		"transactionId": refunded.TransactionID,
	}); err != nil {
		logger.Warn().Err(err).Int("paymentId", p.ID).Msg("refund notification failed")
	}

	return refunded, nil
}

func (s *Service) GetByID(paymentID int) (Payment, error) {
	return s.repo.GetByID(paymentID)
}

func (s *Service) GetByOrderID(orderID int) (Payment, error) {
	return s.repo.GetByOrderID(orderID)
}

func newTransactionID() string {
	return "txn_" + uuid.NewString()
}
