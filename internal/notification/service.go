package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "notification").Logger()

// Service is the fire-and-forget message channel. When a kafka writer is
// configured each record is also published as a JSON event; otherwise the
// message is only logged. Send failures mark the record failed but are never
// returned to business callers in a way that should abort their operation.
type Service struct {
	mu      sync.Mutex
	records []Notification
	nextID  int

	emailEnabled bool
	writer       *kafka.Writer
}

func NewService(emailEnabled bool, writer *kafka.Writer) *Service {
	return &Service{nextID: 1, emailEnabled: emailEnabled, writer: writer}
}

func (s *Service) SendOrderConfirmation(userID, orderID int, payload map[string]interface{}) (Notification, error) {
	msg := fmt.Sprintf("Your order has been placed. Order #%d", orderID)
	return s.send(TypeOrderConfirmation, userID, orderID, msg, payload)
}

func (s *Service) SendOrderStatusUpdate(userID, orderID int, payload map[string]interface{}) (Notification, error) {
	status, _ := payload["status"].(string)
	msg := fmt.Sprintf("Order #%d status changed to %s", orderID, status)
	return s.send(TypeStatusUpdate, userID, orderID, msg, payload)
}

func (s *Service) SendPaymentConfirmation(userID, orderID int, payload map[string]interface{}) (Notification, error) {
	msg := fmt.Sprintf("Payment received for order #%d", orderID)
	return s.send(TypePaymentConfirmation, userID, orderID, msg, payload)
}

func (s *Service) SendRefundNotice(userID, orderID int, payload map[string]interface{}) (Notification, error) {
	msg := fmt.Sprintf("A refund has been issued for order #%d", orderID)
	return s.send(TypeRefund, userID, orderID, msg, payload)
}

// List returns the recorded notifications, newest last.
func (s *Service) List() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Service) send(t Type, userID, orderID int, msg string, payload map[string]interface{}) (Notification, error) {
	n := Notification{
		UserID:    userID,
		OrderID:   orderID,
		Type:      t,
		Message:   msg,
		Payload:   payload,
		Status:    StatusSent,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if !s.emailEnabled {
		n.Status = StatusFailed
	}

	if s.writer != nil {
		if err := s.publish(n); err != nil {
			logger.Warn().Err(err).Int("orderId", orderID).Msg("failed to publish notification event")
			n.Status = StatusFailed
		}
	}

	s.mu.Lock()
	n.ID = s.nextID
	s.nextID++
	s.records = append(s.records, n)
	s.mu.Unlock()

	logger.Info().
		Str("type", string(t)).
		Int("userId", userID).
		Int("orderId", orderID).
		Str("status", n.Status).
		Msg(msg)

	return n, nil
}

func (s *Service) publish(n Notification) error {
	value, err := json.Marshal(n)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(n.OrderID)),
		Value: value,
	})
}
