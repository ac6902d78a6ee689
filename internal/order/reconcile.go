package order

import "time"

// PaymentSnapshot is the authoritative payment state being merged into an
// order. Merging it is a pure overwrite, so applying the same snapshot twice
// yields the same final state.
type PaymentSnapshot struct {
	MercadoPagoID     int64
	Status            Status
	PaymentMethod     string
	PaymentType       string
	TransactionAmount float64
	NetReceivedAmount float64
	TotalPaidAmount   float64
	DateApproved      *time.Time
	LastUpdated       *time.Time
}

// Decision is the outcome of evaluating a snapshot against the current order
// state. It is computed inside the merge transaction, while the order row is
// locked, so two concurrent deliveries for the same reference cannot both
// adjust stock.
type Decision struct {
	Apply       bool
	NextStatus  Status
	AdjustStock bool
}

// Decide evaluates the merge of snap into an order currently at status
// current whose stored snapshot was last updated at storedLastUpdated.
//
// Ordering guard: gateway delivery order is not guaranteed, so a snapshot
// strictly older than the stored one is skipped instead of downgrading the
// order. Snapshots without any ordering signal are applied unconditionally.
//
// Stock guard: stock is adjusted only on the first transition into approved.
// The merge itself is idempotent, so this is what keeps duplicate approved
// deliveries from decrementing stock more than once.
func Decide(current Status, storedLastUpdated *time.Time, snap PaymentSnapshot) Decision {
	if incoming := snap.OrderingSignal(); storedLastUpdated != nil && incoming != nil && incoming.Before(*storedLastUpdated) {
		return Decision{Apply: false}
	}

	next := snap.Status

	// delivered is a local admin state layered on top of approved; a repeat
	// approved notification carries no new lifecycle information.
	if current == StatusDelivered && next == StatusApproved {
		next = StatusDelivered
	}

	return Decision{
		Apply:       true,
		NextStatus:  next,
		AdjustStock: next == StatusApproved && current != StatusApproved,
	}
}

// OrderingSignal returns the snapshot timestamp used for the recency check.
func (s PaymentSnapshot) OrderingSignal() *time.Time {
	if s.LastUpdated != nil {
		return s.LastUpdated
	}
	return s.DateApproved
}
