package payment

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCreateIfAbsent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	p := Payment{OrderID: 10, Amount: 25.0, Status: StatusPending, PaymentMethod: "card", TransactionID: "txn_x", CreatedAt: "t"}

	// first insert returns the new id
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(10, 25.0, "pending", "card", "txn_x", "t").
		WillReturnRows(sqlmock.NewRows([]string{"payment_id"}).AddRow(1))
	created, err := repo.CreateIfAbsent(p)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("expected id 1, got %d", created.ID)
	}

	// conflicting insert returns no row, which is the duplicate signal
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(10, 25.0, "pending", "card", "txn_x", "t").
		WillReturnRows(sqlmock.NewRows([]string{"payment_id"}))
	_, err = repo.CreateIfAbsent(p)
	if err != ErrDuplicatePayment {
		t.Fatalf("expected ErrDuplicatePayment, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM payments WHERE payment_id").
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"payment_id", "order_id", "amount", "status", "payment_method", "transaction_id", "created_at"}))

	if _, err := repo.GetByID(9); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateStatus_ReturnsRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows([]string{"payment_id", "order_id", "amount", "status", "payment_method", "transaction_id", "created_at"}).
		AddRow(1, 10, 25.0, "completed", "card", "txn_x", "t")
	mock.ExpectQuery("UPDATE payments SET status").
		WithArgs(1, "completed").
		WillReturnRows(rows)

	p, err := repo.UpdateStatus(1, StatusCompleted)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if p.Status != StatusCompleted || p.OrderID != 10 {
		t.Fatalf("unexpected payment %+v", p)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
