package cart

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetCartByUser(userID int) (Cart, error) {
	var ct Cart
	var createdAt sql.NullString
	err := r.db.QueryRow(`SELECT cart_id, user_id, created_at FROM carts WHERE user_id = $1`, userID).
		Scan(&ct.ID, &ct.UserID, &createdAt)
	if err == sql.ErrNoRows {
		return Cart{}, ErrCartNotFound
	}
	if err != nil {
		return Cart{}, err
	}
	ct.CreatedAt = createdAt.String
	return ct, nil
}

func (r *PostgresRepository) CreateCart(userID int, createdAt string) (Cart, error) {
	// carts.user_id is unique; ON CONFLICT makes get-or-create atomic
	var ct Cart
	err := r.db.QueryRow(`INSERT INTO carts (user_id, created_at)
        VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
        RETURNING cart_id, user_id`, userID, createdAt).Scan(&ct.ID, &ct.UserID)
	if err != nil {
		return Cart{}, err
	}
	ct.CreatedAt = createdAt
	return ct, nil
}

func (r *PostgresRepository) ListItems(cartID int) ([]CartItem, error) {
	rows, err := r.db.Query(`SELECT cart_item_id, cart_id, product_id, quantity
        FROM cart_items WHERE cart_id = $1 ORDER BY cart_item_id`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]CartItem, 0)
	for rows.Next() {
		var item CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) AddItem(cartID, productID, qty int) ([]CartItem, error) {
	if qty > 0 {
		// the unique (cart_id, product_id) pair turns a re-add into an
		// increment instead of a duplicate row
		_, err := r.db.Exec(`INSERT INTO cart_items (cart_id, product_id, quantity)
            VALUES ($1, $2, $3)
            ON CONFLICT (cart_id, product_id)
            DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
			cartID, productID, qty)
		if err != nil {
			return nil, err
		}
	} else if qty < 0 {
		if _, err := r.db.Exec(`UPDATE cart_items SET quantity = quantity + $3
            WHERE cart_id = $1 AND product_id = $2`, cartID, productID, qty); err != nil {
			return nil, err
		}
	}

	// drop rows whose quantity fell to zero or below
	if _, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = $1 AND quantity <= 0`, cartID); err != nil {
		return nil, err
	}

	return r.ListItems(cartID)
}

func (r *PostgresRepository) RemoveItem(cartID, productID int) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	return err
}

func (r *PostgresRepository) ClearItems(cartID int) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return err
}
