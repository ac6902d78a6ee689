package checkout

import (
	"context"
	"fmt"

	"libreria-be/internal/logger"
	"libreria-be/internal/order"
	"libreria-be/internal/payment"
	"libreria-be/internal/product"
	"libreria-be/internal/utils"

	"go.uber.org/zap"
)

const currency = "ARS"

type ItemInput struct {
	ProductID uint `json:"id"`
	Quantity  int  `json:"quantity"`
}

type PayerInput struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type Input struct {
	Items []ItemInput `json:"items"`
	Payer *PayerInput `json:"payer,omitempty"`
}

// Result is what the storefront needs to redirect the buyer.
type Result struct {
	PreferenceID      string  `json:"id"`
	InitPoint         string  `json:"init_point"`
	ExternalReference string  `json:"external_reference"`
	Total             float64 `json:"total"`
}

// ProductReader is the slice of the product repository the checkout needs.
type ProductReader interface {
	GetByIDs(ctx context.Context, ids []uint) ([]*product.Product, error)
}

// OrderWriter persists the pending order snapshot.
type OrderWriter interface {
	EnsureOrder(ctx context.Context, o *order.Order) error
}

type Service interface {
	Checkout(ctx context.Context, input Input) (*Result, error)
}

type service struct {
	products ProductReader
	orders   OrderWriter
	gateway  payment.Gateway
}

func NewService(products ProductReader, orders OrderWriter, gateway payment.Gateway) Service {
	return &service{products: products, orders: orders, gateway: gateway}
}

// Checkout creates the gateway preference and the pending order for a cart.
//
// The external reference is generated first; it is the single join key
// between the local order and the gateway's transaction. The preference call
// and the order insert are not transactional across the network boundary: if
// the insert fails the buyer still gets the redirect URL, and reconciliation
// retries will find the order once it exists.
func (s *service) Checkout(ctx context.Context, input Input) (*Result, error) {
	log := logger.FromCtx(ctx).With(zap.Int("item_count", len(input.Items)))

	lines, total, err := s.priceCart(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	ref := utils.NewOrderReference()
	log = log.With(zap.String("external_reference", ref), zap.Float64("total", total))

	prefInput := payment.PreferenceInput{
		ExternalReference: ref,
		Items:             make([]payment.PreferenceItem, 0, len(lines)),
	}
	for _, l := range lines {
		prefInput.Items = append(prefInput.Items, payment.PreferenceItem{
			ID:        fmt.Sprintf("%d", l.product.ID),
			Title:     l.product.Name,
			Author:    l.product.Author,
			Quantity:  l.quantity,
			UnitPrice: l.product.Price,
		})
	}
	if input.Payer != nil {
		prefInput.Payer = &payment.Payer{
			Name:    input.Payer.Name,
			Surname: input.Payer.Surname,
			Email:   input.Payer.Email,
		}
	}

	pref, err := s.gateway.CreatePreference(ctx, prefInput)
	if err != nil {
		log.Error("preference creation failed", zap.Error(err))
		return nil, fmt.Errorf("create payment preference: %w", err)
	}

	o := &order.Order{
		ExternalReference: ref,
		Status:            order.StatusPending,
		Total:             total,
		Currency:          currency,
	}
	for _, l := range lines {
		o.Items = append(o.Items, order.Item{
			ProductID: l.product.ID,
			Name:      l.product.Name,
			Author:    l.product.Author,
			UnitPrice: l.product.Price,
			Quantity:  l.quantity,
		})
	}
	if input.Payer != nil {
		o.PayerEmail = input.Payer.Email
		o.PayerName = input.Payer.Name
		o.PayerSurname = input.Payer.Surname
		o.PayerPhone = input.Payer.Phone
	}

	if err := s.orders.EnsureOrder(ctx, o); err != nil {
		// Deliberately non-fatal: the preference already exists, so the buyer
		// gets their redirect. Retried webhooks reconcile once the order is
		// re-created; the gap is logged for operational follow-up.
		log.Error("pending order persist failed, returning preference anyway", zap.Error(err))
	}

	log.Info("checkout created", zap.String("preference_id", pref.ID))

	return &Result{
		PreferenceID:      pref.ID,
		InitPoint:         pref.InitPoint,
		ExternalReference: ref,
		Total:             total,
	}, nil
}

type cartLine struct {
	product  *product.Product
	quantity int
}

// priceCart validates the items and computes the total server-side from
// catalog unit prices; nothing beyond ids and quantities is trusted from the
// client.
func (s *service) priceCart(ctx context.Context, items []ItemInput) ([]cartLine, float64, error) {
	if len(items) == 0 {
		return nil, 0, utils.NewValidationError(utils.FieldError{
			Field: "items", Message: "must not be empty",
		})
	}

	ids := make([]uint, 0, len(items))
	for i, it := range items {
		if it.ProductID == 0 {
			return nil, 0, utils.NewValidationError(utils.FieldError{
				Field: fmt.Sprintf("items[%d].id", i), Message: "is required",
			})
		}
		if it.Quantity <= 0 {
			return nil, 0, utils.NewValidationError(utils.FieldError{
				Field: fmt.Sprintf("items[%d].quantity", i), Message: "must be greater than zero",
			})
		}
		ids = append(ids, it.ProductID)
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("load products: %w", err)
	}

	byID := make(map[uint]*product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]cartLine, 0, len(items))
	total := 0.0
	for i, it := range items {
		p, ok := byID[it.ProductID]
		if !ok || !p.Active {
			return nil, 0, utils.NewValidationError(utils.FieldError{
				Field: fmt.Sprintf("items[%d].id", i), Message: "unknown product",
			})
		}
		lines = append(lines, cartLine{product: p, quantity: it.Quantity})
		total += p.Price * float64(it.Quantity)
	}

	return lines, total, nil
}
