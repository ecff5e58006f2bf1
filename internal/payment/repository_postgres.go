package payment

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const selectPaymentColumns = `payment_id, order_id, amount, status, payment_method, transaction_id, created_at`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateIfAbsent relies on the unique index on payments.order_id: the
// conflicting insert returns no row, which is the duplicate signal. Two
// concurrent inserts cannot both succeed.
func (r *PostgresRepository) CreateIfAbsent(p Payment) (Payment, error) {
	err := r.db.QueryRow(`INSERT INTO payments (order_id, amount, status, payment_method, transaction_id, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (order_id) DO NOTHING
        RETURNING payment_id`,
		p.OrderID, p.Amount, string(p.Status), p.PaymentMethod, p.TransactionID, p.CreatedAt).Scan(&p.ID)
	if err == sql.ErrNoRows {
		return Payment{}, ErrDuplicatePayment
	}
	if err != nil {
		return Payment{}, err
	}
	return p, nil
}

func (r *PostgresRepository) GetByID(id int) (Payment, error) {
	row := r.db.QueryRow(`SELECT `+selectPaymentColumns+` FROM payments WHERE payment_id = $1`, id)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return Payment{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) GetByOrderID(orderID int) (Payment, error) {
	row := r.db.QueryRow(`SELECT `+selectPaymentColumns+` FROM payments WHERE order_id = $1`, orderID)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return Payment{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) UpdateStatus(id int, status Status) (Payment, error) {
	row := r.db.QueryRow(`UPDATE payments SET status = $2 WHERE payment_id = $1
        RETURNING `+selectPaymentColumns, id, string(status))
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return Payment{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) SetTransactionID(id int, transactionID string) error {
	res, err := r.db.Exec(`UPDATE payments SET transaction_id = $2 WHERE payment_id = $1`, id, transactionID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row rowScanner) (Payment, error) {
	var p Payment
	var status string
	var method, txID, createdAt sql.NullString
	if err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &status, &method, &txID, &createdAt); err != nil {
		return Payment{}, err
	}
	p.Status = Status(status)
	p.PaymentMethod = method.String
	p.TransactionID = txID.String
	p.CreatedAt = createdAt.String
	return p, nil
}
