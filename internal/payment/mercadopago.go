package payment

import (
	"context"
	"fmt"
	"time"

	"libreria-be/internal/logger"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	mppreference "github.com/mercadopago/sdk-go/pkg/preference"
	"go.uber.org/zap"
)

const (
	currencyID     = "ARS"
	gatewayTimeout = 10 * time.Second
)

// MercadoPagoGateway wraps the official SDK clients. It is constructed once
// in main and injected where needed; clients are never package-level globals.
type MercadoPagoGateway struct {
	payments    mppayment.Client
	preferences mppreference.Client

	notificationURL string
	successURL      string
	pendingURL      string
	failureURL      string
	timeout         time.Duration
}

type MercadoPagoOptions struct {
	// NotificationURL is where the gateway posts payment webhooks.
	NotificationURL string
	SuccessURL      string
	PendingURL      string
	FailureURL      string
}

func NewMercadoPagoGateway(accessToken string, opts MercadoPagoOptions) (*MercadoPagoGateway, error) {
	if accessToken == "" {
		return nil, ErrMissingAccessToken
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercado pago sdk config: %w", err)
	}

	return &MercadoPagoGateway{
		payments:        mppayment.NewClient(cfg),
		preferences:     mppreference.NewClient(cfg),
		notificationURL: opts.NotificationURL,
		successURL:      opts.SuccessURL,
		pendingURL:      opts.PendingURL,
		failureURL:      opts.FailureURL,
		timeout:         gatewayTimeout,
	}, nil
}

// GetPayment fetches the authoritative payment record. The call is bounded so
// a stuck gateway surfaces as a retryable error to the webhook caller instead
// of hanging the handler.
func (g *MercadoPagoGateway) GetPayment(ctx context.Context, id int64) (*PaymentRecord, error) {
	log := logger.FromCtx(ctx).With(zap.Int64("payment_id", id))

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.payments.Get(ctx, int(id))
	if err != nil {
		log.Error("mercado pago payment lookup failed", zap.Error(err))
		return nil, fmt.Errorf("payment lookup: %w", err)
	}

	log.Info("mercado pago payment fetched",
		zap.String("status", resp.Status),
		zap.String("external_reference", resp.ExternalReference),
	)

	return &PaymentRecord{
		ID:                int64(resp.ID),
		Status:            resp.Status,
		StatusDetail:      resp.StatusDetail,
		ExternalReference: resp.ExternalReference,
		PaymentMethod:     resp.PaymentMethodID,
		PaymentType:       resp.PaymentTypeID,
		TransactionAmount: resp.TransactionAmount,
		NetReceivedAmount: resp.TransactionDetails.NetReceivedAmount,
		TotalPaidAmount:   resp.TransactionDetails.TotalPaidAmount,
		DateApproved:      timePtr(resp.DateApproved),
		LastUpdated:       timePtr(resp.DateLastUpdated),
		PayerEmail:        resp.Payer.Email,
	}, nil
}

// CreatePreference registers the checkout with the gateway and returns the
// redirect target for the buyer, tagged with our external reference.
func (g *MercadoPagoGateway) CreatePreference(ctx context.Context, in PreferenceInput) (*Preference, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("external_reference", in.ExternalReference),
		zap.Int("item_count", len(in.Items)),
	)

	items := make([]mppreference.ItemRequest, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, mppreference.ItemRequest{
			ID:          it.ID,
			Title:       it.Title,
			Description: it.Author,
			Quantity:    it.Quantity,
			CurrencyID:  currencyID,
			UnitPrice:   it.UnitPrice,
		})
	}

	req := mppreference.Request{
		Items:             items,
		ExternalReference: in.ExternalReference,
		NotificationURL:   g.notificationURL,
		BackURLs: &mppreference.BackURLsRequest{
			Success: g.successURL,
			Pending: g.pendingURL,
			Failure: g.failureURL,
		},
	}
	if in.Payer != nil {
		req.Payer = &mppreference.PayerRequest{
			Name:    in.Payer.Name,
			Surname: in.Payer.Surname,
			Email:   in.Payer.Email,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.preferences.Create(ctx, req)
	if err != nil {
		log.Error("mercado pago preference create failed", zap.Error(err))
		return nil, fmt.Errorf("preference create: %w", err)
	}

	log.Info("mercado pago preference created", zap.String("preference_id", resp.ID))

	return &Preference{
		ID:                resp.ID,
		InitPoint:         resp.InitPoint,
		ExternalReference: resp.ExternalReference,
	}, nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
