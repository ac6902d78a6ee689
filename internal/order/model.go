package order

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusDelivered Status = "delivered"
)

// ParseStatus maps a raw status string to a known Status. Gateway statuses
// outside the order lifecycle (in_process, in_mediation) collapse to pending.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusDelivered:
		return Status(s), true
	}
	switch s {
	case "in_process", "in_mediation", "authorized":
		return StatusPending, true
	}
	return "", false
}

// Order is the persisted record of a checkout. Items, total and payer fields
// are a snapshot taken at creation time; later catalog edits never alter a
// historical order. Payment fields are populated only by reconciliation.
type Order struct {
	ID                uint    `json:"id"`
	ExternalReference string  `json:"external_reference"`
	Status            Status  `json:"status"`
	Total             float64 `json:"total"`
	Currency          string  `json:"currency"`
	Items             []Item  `json:"items,omitempty"`

	PayerEmail   string `json:"payer_email"`
	PayerName    string `json:"payer_name"`
	PayerSurname string `json:"payer_surname"`
	PayerPhone   string `json:"payer_phone"`

	MercadoPagoID      *int64     `json:"mercado_pago_id,omitempty"`
	PaymentMethod      *string    `json:"payment_method,omitempty"`
	PaymentType        *string    `json:"payment_type,omitempty"`
	TransactionAmount  *float64   `json:"transaction_amount,omitempty"`
	NetReceivedAmount  *float64   `json:"net_received_amount,omitempty"`
	TotalPaidAmount    *float64   `json:"total_paid_amount,omitempty"`
	DateApproved       *time.Time `json:"date_approved,omitempty"`
	PaymentLastUpdated *time.Time `json:"payment_last_updated,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is one purchased line, copied from the catalog at checkout time.
type Item struct {
	ID        uint    `json:"id"`
	OrderID   uint    `json:"order_id"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Author    string  `json:"author"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}
