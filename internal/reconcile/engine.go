package reconcile

import (
	"context"
	"errors"
	"fmt"

	"libreria-be/internal/logger"
	"libreria-be/internal/metrics"
	"libreria-be/internal/order"
	"libreria-be/internal/payment"

	"go.uber.org/zap"
)

// OrderStore is the slice of the order repository the engine needs.
type OrderStore interface {
	ApplyPayment(ctx context.Context, ref string, snap order.PaymentSnapshot) (order.ApplyResult, error)
}

// Engine merges verified, authoritative payment records into local orders.
// It is stateless; all shared state lives in the order store, which holds a
// row lock per external reference during the merge.
type Engine struct {
	orders   OrderStore
	payments payment.Lookup

	processed metrics.Counter
	skipped   metrics.Counter
	orphaned  metrics.Counter
	mergeMS   metrics.Counter
}

func NewEngine(orders OrderStore, payments payment.Lookup) *Engine {
	return &Engine{orders: orders, payments: payments}
}

// Stats exposes reconciliation counters for operational monitoring; the
// orphaned count in particular must be watched, it measures webhooks arriving
// for orders that were never durably created.
type Stats struct {
	Processed uint64 `json:"processed"`
	Skipped   uint64 `json:"skipped"`
	Orphaned  uint64 `json:"orphaned"`
	// MergeMS is the cumulative wall time, in milliseconds, spent handling
	// deliveries end to end (lookup plus merge).
	MergeMS uint64 `json:"merge_ms"`
}

func (e *Engine) Stats() Stats {
	return Stats{
		Processed: e.processed.Load(),
		Skipped:   e.skipped.Load(),
		Orphaned:  e.orphaned.Load(),
		MergeMS:   e.mergeMS.Load(),
	}
}

// ProcessPaymentNotification handles one webhook delivery: fetch the
// authoritative record for paymentID, then merge it into the matching order.
//
// A nil return means the delivery is settled and may be acknowledged with
// 200, including the order-missing case. A non-nil return means the webhook
// must NOT be acknowledged so the gateway retries it later.
func (e *Engine) ProcessPaymentNotification(ctx context.Context, paymentID int64) error {
	log := logger.FromCtx(ctx).With(zap.Int64("payment_id", paymentID))

	timer := metrics.StartTimer()
	defer func() {
		e.mergeMS.Add(uint64(timer.Elapsed().Milliseconds()))
	}()

	// The webhook body is never trusted as payment data; the gateway's
	// payments API is the source of truth.
	rec, err := e.payments.GetPayment(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("fetch authoritative payment: %w", err)
	}

	if rec.ExternalReference == "" {
		// Payment not initiated by our checkout (no reference tag); nothing
		// to reconcile against.
		log.Warn("payment has no external reference, ignoring")
		e.skipped.Inc()
		return nil
	}

	status, ok := order.ParseStatus(rec.Status)
	if !ok {
		log.Warn("unrecognized payment status, ignoring", zap.String("status", rec.Status))
		e.skipped.Inc()
		return nil
	}

	snap := order.PaymentSnapshot{
		MercadoPagoID:     rec.ID,
		Status:            status,
		PaymentMethod:     rec.PaymentMethod,
		PaymentType:       rec.PaymentType,
		TransactionAmount: rec.TransactionAmount,
		NetReceivedAmount: rec.NetReceivedAmount,
		TotalPaidAmount:   rec.TotalPaidAmount,
		DateApproved:      rec.DateApproved,
		LastUpdated:       rec.LastUpdated,
	}

	res, err := e.orders.ApplyPayment(ctx, rec.ExternalReference, snap)
	if errors.Is(err, order.ErrOrderNotFound) {
		// Known gap: the checkout's DB write can fail after the gateway
		// preference succeeded. The delivery is acknowledged anyway and the
		// orphaned counter flags it for manual replay.
		log.Warn("no order for payment reference",
			zap.String("external_reference", rec.ExternalReference),
		)
		e.orphaned.Inc()
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply payment to order: %w", err)
	}

	if !res.Applied {
		e.skipped.Inc()
		return nil
	}

	e.processed.Inc()
	return nil
}
