package notification

type Type string

const (
	TypeOrderConfirmation   Type = "order_confirmation"
	TypeStatusUpdate        Type = "status_update"
	TypePaymentConfirmation Type = "payment_confirmation"
	TypeRefund              Type = "refund"
)

const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Notification records one outbound message attempt.
type Notification struct {
	ID        int                    `json:"notificationId"`
	UserID    int                    `json:"userId"`
	OrderID   int                    `json:"orderId"`
	Type      Type                   `json:"type"`
	Message   string                 `json:"message"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Status    string                 `json:"status"`
	CreatedAt string                 `json:"createdAt"`
}
