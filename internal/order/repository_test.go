package order

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullOrderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "external_reference", "status", "total", "currency",
		"payer_email", "payer_name", "payer_surname", "payer_phone",
		"mercado_pago_id", "payment_method", "payment_type",
		"transaction_amount", "net_received_amount", "total_paid_amount",
		"date_approved", "payment_last_updated", "created_at", "updated_at",
	})
}

func TestRepository_EnsureOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	newOrder := func() *Order {
		return &Order{
			ExternalReference: "ORD-20250310-abcdef012345",
			Status:            StatusPending,
			Total:             25,
			Currency:          "ARS",
			PayerEmail:        "buyer@example.com",
			Items: []Item{
				{ProductID: 7, Name: "Confesiones", Author: "San Agustin", UnitPrice: 10, Quantity: 1},
				{ProductID: 9, Name: "Biblia", Author: "", UnitPrice: 7.5, Quantity: 2},
			},
		}
	}

	t.Run("Inserts Order And Items", func(t *testing.T) {
		o := newOrder()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(o.ExternalReference, o.Status, o.Total, o.Currency,
				o.PayerEmail, o.PayerName, o.PayerSurname, o.PayerPhone).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WithArgs(uint(42), uint(7), "Confesiones", "San Agustin", 10.0, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WithArgs(uint(42), uint(9), "Biblia", "", 7.5, 2).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectCommit()

		err := repo.EnsureOrder(ctx, o)
		assert.NoError(t, err)
		assert.Equal(t, uint(42), o.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Existing Reference Is A NoOp", func(t *testing.T) {
		o := newOrder()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(o.ExternalReference, o.Status, o.Total, o.Currency,
				o.PayerEmail, o.PayerName, o.PayerSurname, o.PayerPhone).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectCommit()

		err := repo.EnsureOrder(ctx, o)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert Failure Rolls Back", func(t *testing.T) {
		o := newOrder()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnError(errors.New("db down"))
		mock.ExpectRollback()

		err := repo.EnsureOrder(ctx, o)
		assert.Error(t, err)
	})
}

func TestRepository_ApplyPayment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	ref := "ORD-20250310-abcdef012345"
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	approvedSnap := PaymentSnapshot{
		MercadoPagoID:     987654321,
		Status:            StatusApproved,
		PaymentMethod:     "visa",
		PaymentType:       "credit_card",
		TransactionAmount: 25,
		NetReceivedAmount: 23.7,
		TotalPaidAmount:   25,
		DateApproved:      &now,
		LastUpdated:       &now,
	}

	lockQuery := `SELECT id, status, payment_last_updated FROM orders WHERE external_reference = \$1 FOR UPDATE`

	t.Run("First Approval Updates Order And Stock", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(ref).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "payment_last_updated"}).
				AddRow(42, "pending", nil))
		mock.ExpectExec(`UPDATE orders SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT product_id, quantity FROM order_items`).
			WithArgs(uint(42)).
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).
				AddRow(7, 1).
				AddRow(9, 2))
		mock.ExpectExec(`UPDATE products`).
			WithArgs(1, uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE products`).
			WithArgs(2, uint(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		res, err := repo.ApplyPayment(ctx, ref, approvedSnap)
		require.NoError(t, err)
		assert.True(t, res.Applied)
		assert.True(t, res.StockAdjusted)
		assert.Equal(t, StatusApproved, res.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Repeat Approval Skips Stock", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(ref).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "payment_last_updated"}).
				AddRow(42, "approved", now.Add(-time.Minute)))
		mock.ExpectExec(`UPDATE orders SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		res, err := repo.ApplyPayment(ctx, ref, approvedSnap)
		require.NoError(t, err)
		assert.True(t, res.Applied)
		assert.False(t, res.StockAdjusted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Stale Snapshot Commits Without Update", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(ref).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "payment_last_updated"}).
				AddRow(42, "approved", now.Add(time.Hour)))
		mock.ExpectCommit()

		res, err := repo.ApplyPayment(ctx, ref, approvedSnap)
		require.NoError(t, err)
		assert.False(t, res.Applied)
		assert.Equal(t, StatusApproved, res.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Reference", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs("ORD-nope").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.ApplyPayment(ctx, "ORD-nope", approvedSnap)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("Stock Underflow Does Not Fail The Merge", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(ref).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "payment_last_updated"}).
				AddRow(42, "pending", nil))
		mock.ExpectExec(`UPDATE orders SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT product_id, quantity FROM order_items`).
			WithArgs(uint(42)).
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).
				AddRow(7, 5))
		mock.ExpectExec(`UPDATE products`).
			WithArgs(5, uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		res, err := repo.ApplyPayment(ctx, ref, approvedSnap)
		require.NoError(t, err)
		assert.True(t, res.Applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetByReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM orders WHERE external_reference = \$1`).
			WithArgs("ORD-1").
			WillReturnRows(fullOrderRows().AddRow(
				42, "ORD-1", "approved", 25.0, "ARS",
				"buyer@example.com", "Ana", "Perez", "",
				987654321, "visa", "credit_card",
				25.0, 23.7, 25.0,
				now, now, now, now,
			))
		mock.ExpectQuery(`SELECT id, order_id, product_id, name, author, unit_price, quantity`).
			WithArgs(uint(42)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "name", "author", "unit_price", "quantity"}).
				AddRow(1, 42, 7, "Confesiones", "San Agustin", 10.0, 1))

		o, err := repo.GetByReference(ctx, "ORD-1")
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, o.Status)
		assert.Len(t, o.Items, 1)
		require.NotNil(t, o.MercadoPagoID)
		assert.Equal(t, int64(987654321), *o.MercadoPagoID)
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM orders WHERE external_reference = \$1`).
			WithArgs("ORD-missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByReference(ctx, "ORD-missing")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_UpdateAdminFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Partial Update", func(t *testing.T) {
		st := StatusDelivered
		email := "new@example.com"

		mock.ExpectExec(`UPDATE orders SET status = \$1, payer_email = \$2, updated_at = now\(\) WHERE id = \$3`).
			WithArgs(st, email, uint(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateAdminFields(ctx, 42, AdminUpdate{Status: &st, PayerEmail: &email})
		assert.NoError(t, err)
	})

	t.Run("No Fields Is A NoOp", func(t *testing.T) {
		err := repo.UpdateAdminFields(ctx, 42, AdminUpdate{})
		assert.NoError(t, err)
	})

	t.Run("Missing Order", func(t *testing.T) {
		st := StatusCancelled

		mock.ExpectExec(`UPDATE orders SET`).
			WithArgs(st, uint(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateAdminFields(ctx, 99, AdminUpdate{Status: &st})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
