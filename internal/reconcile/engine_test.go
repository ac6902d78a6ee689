package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"libreria-be/internal/order"
	"libreria-be/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) ApplyPayment(ctx context.Context, ref string, snap order.PaymentSnapshot) (order.ApplyResult, error) {
	args := m.Called(ctx, ref, snap)
	return args.Get(0).(order.ApplyResult), args.Error(1)
}

type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) GetPayment(ctx context.Context, id int64) (*payment.PaymentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentRecord), args.Error(1)
}

func approvedRecord(ref string) *payment.PaymentRecord {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	return &payment.PaymentRecord{
		ID:                987654321,
		Status:            "approved",
		ExternalReference: ref,
		PaymentMethod:     "visa",
		PaymentType:       "credit_card",
		TransactionAmount: 25,
		DateApproved:      &now,
		LastUpdated:       &now,
	}
}

func TestEngine_ProcessPaymentNotification(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies Authoritative Payment", func(t *testing.T) {
		orders := new(MockOrderStore)
		payments := new(MockLookup)
		engine := NewEngine(orders, payments)

		payments.On("GetPayment", ctx, int64(987654321)).Return(approvedRecord("ORD-1"), nil)
		orders.On("ApplyPayment", ctx, "ORD-1", mock.MatchedBy(func(s order.PaymentSnapshot) bool {
			return s.MercadoPagoID == 987654321 && s.Status == order.StatusApproved
		})).Return(order.ApplyResult{Applied: true, StockAdjusted: true, Status: order.StatusApproved}, nil)

		err := engine.ProcessPaymentNotification(ctx, 987654321)
		assert.NoError(t, err)
		assert.Equal(t, uint64(1), engine.Stats().Processed)
		orders.AssertExpectations(t)
	})

	t.Run("Lookup Failure Is Retryable", func(t *testing.T) {
		orders := new(MockOrderStore)
		payments := new(MockLookup)
		engine := NewEngine(orders, payments)

		payments.On("GetPayment", ctx, int64(1)).Return(nil, errors.New("mp unavailable"))

		err := engine.ProcessPaymentNotification(ctx, 1)
		assert.Error(t, err)
		orders.AssertNotCalled(t, "ApplyPayment")
	})

	t.Run("Missing Reference Is Acknowledged", func(t *testing.T) {
		orders := new(MockOrderStore)
		payments := new(MockLookup)
		engine := NewEngine(orders, payments)

		rec := approvedRecord("")
		payments.On("GetPayment", ctx, int64(1)).Return(rec, nil)

		err := engine.ProcessPaymentNotification(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, uint64(1), engine.Stats().Skipped)
		orders.AssertNotCalled(t, "ApplyPayment")
	})

	t.Run("Unknown Status Is Acknowledged", func(t *testing.T) {
		orders := new(MockOrderStore)
		payments := new(MockLookup)
		engine := NewEngine(orders, payments)

		rec := approvedRecord("ORD-1")
		rec.Status = "refunded"
		payments.On("GetPayment", ctx, int64(1)).Return(rec, nil)

		err := engine.ProcessPaymentNotification(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, uint64(1), engine.Stats().Skipped)
		orders.AssertNotCalled(t, "ApplyPayment")
	})

	t.Run("Missing Order Is Acknowledged And Counted", func(t *testing.T) {
		orders := new(MockOrderStore)
		payments := new(MockLookup)
		engine := NewEngine(orders, payments)

		payments.On("GetPayment", ctx, int64(1)).Return(approvedRecord("ORD-ghost"), nil)
		orders.On("ApplyPayment", ctx, "ORD-ghost", mock.Anything).
			Return(order.ApplyResult{}, order.ErrOrderNotFound)

		err := engine.ProcessPaymentNotification(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, uint64(1), engine.Stats().Orphaned)
	})

	t.Run("Store Failure Is Retryable", func(t *testing.T) {
		orders := new(MockOrderStore)
		payments := new(MockLookup)
		engine := NewEngine(orders, payments)

		payments.On("GetPayment", ctx, int64(1)).Return(approvedRecord("ORD-1"), nil)
		orders.On("ApplyPayment", ctx, "ORD-1", mock.Anything).
			Return(order.ApplyResult{}, errors.New("deadlock"))

		err := engine.ProcessPaymentNotification(ctx, 1)
		assert.Error(t, err)
		assert.Equal(t, uint64(0), engine.Stats().Processed)
	})

	t.Run("Stale Merge Counts As Skipped", func(t *testing.T) {
		orders := new(MockOrderStore)
		payments := new(MockLookup)
		engine := NewEngine(orders, payments)

		payments.On("GetPayment", ctx, int64(1)).Return(approvedRecord("ORD-1"), nil)
		orders.On("ApplyPayment", ctx, "ORD-1", mock.Anything).
			Return(order.ApplyResult{Applied: false, Status: order.StatusApproved}, nil)

		err := engine.ProcessPaymentNotification(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, uint64(1), engine.Stats().Skipped)
	})

	t.Run("Delivery Time Is Accumulated", func(t *testing.T) {
		orders := new(MockOrderStore)
		payments := new(MockLookup)
		engine := NewEngine(orders, payments)

		payments.On("GetPayment", ctx, int64(1)).Return(approvedRecord("ORD-1"), nil).
			Run(func(mock.Arguments) { time.Sleep(2 * time.Millisecond) })
		orders.On("ApplyPayment", ctx, "ORD-1", mock.Anything).
			Return(order.ApplyResult{Applied: true, Status: order.StatusApproved}, nil)

		err := engine.ProcessPaymentNotification(ctx, 1)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, engine.Stats().MergeMS, uint64(2))
	})
}
