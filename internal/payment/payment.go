package payment

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// Payment is the single payment attempt attached to an order. Amount is not
// reduced by refunds; a refund only flips the status.
type Payment struct {
	ID            int     `json:"paymentId"`
	OrderID       int     `json:"orderId"`
	Amount        float64 `json:"amount"`
	Status        Status  `json:"status"`
	PaymentMethod string  `json:"paymentMethod"`
	TransactionID string  `json:"transactionId"`
	CreatedAt     string  `json:"createdAt,omitempty"`
}
