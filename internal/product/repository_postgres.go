package product

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const selectProductColumns = `product_id, product_name, product_desc, product_price, sku, inventory, category, created_at, updated_at`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(category, sortBy string) ([]Product, error) {
	query := `SELECT ` + selectProductColumns + ` FROM products`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	switch sortBy {
	case SortPriceAsc:
		query += ` ORDER BY product_price ASC`
	case SortPriceDesc:
		query += ` ORDER BY product_price DESC`
	case SortName:
		query += ` ORDER BY product_name ASC`
	default:
		query += ` ORDER BY product_id`
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	row := r.db.QueryRow(`SELECT `+selectProductColumns+` FROM products WHERE product_id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

// GetByIDs returns products matching ids, ordered the same way as the slice.
func (r *PostgresRepository) GetByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	rows, err := r.db.Query(`SELECT `+selectProductColumns+` FROM products
        WHERE product_id = ANY($1::int[])
        ORDER BY array_position($1::int[], product_id)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	var skuExists bool
	if err := r.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM products WHERE sku = $1)`, p.SKU).Scan(&skuExists); err != nil {
		return Product{}, err
	}
	if skuExists {
		return Product{}, ErrSKUExists
	}

	err := r.db.QueryRow(`INSERT INTO products (product_name, product_desc, product_price, sku, inventory, category, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING product_id`,
		p.Name, p.Description, p.Price, p.SKU, p.Inventory, nullIfEmpty(p.Category), p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	res, err := r.db.Exec(`UPDATE products SET product_name = $1, product_desc = $2, product_price = $3, inventory = $4, category = $5, updated_at = $6
        WHERE product_id = $7`,
		p.Name, p.Description, p.Price, p.Inventory, nullIfEmpty(p.Category), p.UpdatedAt, id)
	if err != nil {
		return Product{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if affected == 0 {
		return Product{}, ErrNotFound
	}
	p.ID = id
	return p, nil
}

// DecrementInventory is the stock guard: the conditional WHERE makes the
// decrement atomic, so a zero-rows result means there was not enough stock
// (or the product does not exist).
func (r *PostgresRepository) DecrementInventory(id int, qty int) error {
	res, err := r.db.Exec(`UPDATE products SET inventory = inventory - $2
        WHERE product_id = $1 AND inventory >= $2`, id, qty)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// distinguish out-of-stock from untracked inventory and missing rows
	var inventory sql.NullInt64
	err = r.db.QueryRow(`SELECT inventory FROM products WHERE product_id = $1`, id).Scan(&inventory)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !inventory.Valid {
		return nil
	}
	return ErrOutOfStock
}

func (r *PostgresRepository) IncrementInventory(id int, qty int) error {
	res, err := r.db.Exec(`UPDATE products SET inventory = inventory + $2
        WHERE product_id = $1 AND inventory IS NOT NULL`, id, qty)
	if err != nil {
		return err
	}
	_, err = res.RowsAffected()
	return err
}

func collectProducts(rows *sql.Rows) ([]Product, error) {
	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	var desc, category, createdAt, updatedAt sql.NullString
	var inventory sql.NullInt64
	if err := row.Scan(&p.ID, &p.Name, &desc, &p.Price, &p.SKU, &inventory, &category, &createdAt, &updatedAt); err != nil {
		return Product{}, err
	}
	p.Description = desc.String
	p.Category = category.String
	p.CreatedAt = createdAt.String
	p.UpdatedAt = updatedAt.String
	if inventory.Valid {
		level := int(inventory.Int64)
		p.Inventory = &level
	}
	return p, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
