package user

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const selectUserColumns = `user_id, username, email, password, first_name, last_name, admin, created_at`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() []User {
	rows, err := r.db.Query(`SELECT ` + selectUserColumns + ` FROM users ORDER BY user_id`)
	if err != nil {
		return []User{}
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			continue
		}
		users = append(users, u)
	}
	return users
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	row := r.db.QueryRow(`SELECT `+selectUserColumns+` FROM users WHERE user_id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	row := r.db.QueryRow(`SELECT `+selectUserColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) GetByUsername(username string) (User, error) {
	row := r.db.QueryRow(`SELECT `+selectUserColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) Create(u User) (User, error) {
	err := r.db.QueryRow(`INSERT INTO users (username, email, password, first_name, last_name, admin, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING user_id`,
		u.Username, u.Email, u.Password, u.FirstName, u.LastName, u.Admin, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	var firstName, lastName, createdAt sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &firstName, &lastName, &u.Admin, &createdAt); err != nil {
		return User{}, err
	}
	u.FirstName = firstName.String
	u.LastName = lastName.String
	u.CreatedAt = createdAt.String
	return u, nil
}
