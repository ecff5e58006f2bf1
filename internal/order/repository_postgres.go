package order

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const selectOrderColumns = `order_id, user_id, status, total, shipping_address, created_at, updated_at`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ord Order, items []OrderItem) (Order, []OrderItem, error) {
	err := r.db.QueryRow(`INSERT INTO orders (user_id, status, total, shipping_address, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING order_id`,
		ord.UserID, string(ord.Status), ord.Total, ord.ShippingAddress, ord.CreatedAt, ord.UpdatedAt).Scan(&ord.ID)
	if err != nil {
		return Order{}, nil, err
	}

	created := make([]OrderItem, 0, len(items))
	for _, item := range items {
		item.OrderID = ord.ID
		err := r.db.QueryRow(`INSERT INTO order_items (order_id, product_id, quantity, price)
            VALUES ($1,$2,$3,$4)
            RETURNING order_item_id`,
			item.OrderID, item.ProductID, item.Quantity, item.Price).Scan(&item.ID)
		if err != nil {
			return Order{}, nil, err
		}
		created = append(created, item)
	}
	return ord, created, nil
}

func (r *PostgresRepository) Get(orderID int) (Order, error) {
	row := r.db.QueryRow(`SELECT `+selectOrderColumns+` FROM orders WHERE order_id = $1`, orderID)
	ord, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	return ord, err
}

func (r *PostgresRepository) GetItems(orderID int) ([]OrderItem, error) {
	rows, err := r.db.Query(`SELECT order_item_id, order_id, product_id, quantity, price
        FROM order_items WHERE order_id = $1 ORDER BY order_item_id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItem, 0)
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+selectOrderColumns+` FROM orders WHERE user_id = $1 ORDER BY order_id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(orderID int, status Status, updatedAt string) (Order, error) {
	row := r.db.QueryRow(`UPDATE orders SET status = $2, updated_at = $3 WHERE order_id = $1
        RETURNING `+selectOrderColumns, orderID, string(status), updatedAt)
	ord, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	return ord, err
}

func (r *PostgresRepository) Delete(orderID int) error {
	if _, err := r.db.Exec(`DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return err
	}
	_, err := r.db.Exec(`DELETE FROM orders WHERE order_id = $1`, orderID)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (Order, error) {
	var ord Order
	var status string
	var address, createdAt, updatedAt sql.NullString
	if err := row.Scan(&ord.ID, &ord.UserID, &status, &ord.Total, &address, &createdAt, &updatedAt); err != nil {
		return Order{}, err
	}
	ord.Status = Status(status)
	ord.ShippingAddress = address.String
	ord.CreatedAt = createdAt.String
	ord.UpdatedAt = updatedAt.String
	ord.OrderNo = FormatOrderID(ord.ID)
	return ord, nil
}
