package payment

import (
	"context"
	"time"
)

// PaymentRecord is the authoritative view of a transaction as reported by the
// gateway's payments API. The webhook body is only a notification that
// something changed; this record is what gets merged into the order.
type PaymentRecord struct {
	ID                int64
	Status            string
	StatusDetail      string
	ExternalReference string
	PaymentMethod     string
	PaymentType       string
	TransactionAmount float64
	NetReceivedAmount float64
	TotalPaidAmount   float64
	DateApproved      *time.Time
	LastUpdated       *time.Time
	PayerEmail        string
}

// PreferenceItem is one line of the cart as handed to the gateway. The unit
// price always comes from the catalog, never from client input.
type PreferenceItem struct {
	ID        string
	Title     string
	Author    string
	Quantity  int
	UnitPrice float64
}

type Payer struct {
	Name    string
	Surname string
	Email   string
}

type PreferenceInput struct {
	ExternalReference string
	Items             []PreferenceItem
	Payer             *Payer
}

// Preference is the redirect target the buyer is sent to.
type Preference struct {
	ID                string
	InitPoint         string
	ExternalReference string
}

// Lookup fetches the authoritative payment state from the gateway.
type Lookup interface {
	GetPayment(ctx context.Context, id int64) (*PaymentRecord, error)
}

// Gateway is the outbound half: creates the payment preference the buyer is
// redirected to, tagged with our external reference and webhook URL.
type Gateway interface {
	Lookup
	CreatePreference(ctx context.Context, in PreferenceInput) (*Preference, error)
}
