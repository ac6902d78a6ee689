package order

import (
	"context"

	"libreria-be/internal/logger"
	"libreria-be/internal/utils"

	"go.uber.org/zap"
)

// UpdateInput is the partial admin mutation accepted over HTTP.
type UpdateInput struct {
	Status       *string `json:"status,omitempty"`
	PayerEmail   *string `json:"payerEmail,omitempty"`
	PayerName    *string `json:"payerName,omitempty"`
	PayerSurname *string `json:"payerSurname,omitempty"`
	PayerPhone   *string `json:"payerPhone,omitempty"`
}

type Service interface {
	GetOrder(ctx context.Context, id uint) (*Order, error)
	GetOrderByReference(ctx context.Context, ref string) (*Order, error)
	ListOrders(ctx context.Context, status *Status, limit, page *int32) ([]*Order, error)

	// AdminUpdate applies a partial order mutation. Status overrides are
	// validated against the lifecycle: delivered is only reachable from
	// approved, via exactly this path, never via webhook.
	AdminUpdate(ctx context.Context, id uint, input UpdateInput) (*Order, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetOrder(ctx context.Context, id uint) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetOrderByReference(ctx context.Context, ref string) (*Order, error) {
	return s.repo.GetByReference(ctx, ref)
}

func (s *service) ListOrders(ctx context.Context, status *Status, limit, page *int32) ([]*Order, error) {
	return s.repo.List(ctx, status, limit, page)
}

var adminStatuses = map[Status]bool{
	StatusPending:   true,
	StatusApproved:  true,
	StatusRejected:  true,
	StatusCancelled: true,
	StatusDelivered: true,
}

func (s *service) AdminUpdate(ctx context.Context, id uint, input UpdateInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(zap.Uint("order_id", id))

	upd := AdminUpdate{
		PayerEmail:   input.PayerEmail,
		PayerName:    input.PayerName,
		PayerSurname: input.PayerSurname,
		PayerPhone:   input.PayerPhone,
	}

	if input.Status != nil {
		st := Status(*input.Status)
		if !adminStatuses[st] {
			return nil, utils.NewValidationError(utils.FieldError{
				Field:   "status",
				Message: "must be one of pending, approved, rejected, cancelled, delivered",
			})
		}

		if st == StatusDelivered {
			current, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if current.Status != StatusApproved {
				return nil, ErrNotDeliverable
			}
		}
		upd.Status = &st
	}

	if input.PayerEmail != nil && *input.PayerEmail == "" {
		return nil, utils.NewValidationError(utils.FieldError{
			Field:   "payerEmail",
			Message: "must not be empty",
		})
	}

	if err := s.repo.UpdateAdminFields(ctx, id, upd); err != nil {
		log.Error("admin order update failed", zap.Error(err))
		return nil, err
	}

	log.Info("order updated by admin")
	return s.repo.GetByID(ctx, id)
}
