package contact

import (
	"context"
	"strings"

	"libreria-be/internal/logger"
	"libreria-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Submit(ctx context.Context, input NewContact) (*Contact, error)
	List(ctx context.Context, limit, page *int32) ([]*Contact, error)
}

type service struct {
	repo   Repository
	mailer Mailer
}

func NewService(repo Repository, mailer Mailer) Service {
	return &service{repo: repo, mailer: mailer}
}

func (s *service) Submit(ctx context.Context, input NewContact) (*Contact, error) {
	var fields []utils.FieldError
	if strings.TrimSpace(input.Name) == "" {
		fields = append(fields, utils.FieldError{Field: "name", Message: "must not be empty"})
	}
	if strings.TrimSpace(input.Email) == "" || !strings.Contains(input.Email, "@") {
		fields = append(fields, utils.FieldError{Field: "email", Message: "must be a valid email"})
	}
	if strings.TrimSpace(input.Message) == "" {
		fields = append(fields, utils.FieldError{Field: "message", Message: "must not be empty"})
	}
	if len(fields) > 0 {
		return nil, utils.NewValidationError(fields...)
	}

	c, err := s.repo.Insert(ctx, input)
	if err != nil {
		return nil, err
	}

	// Notification failure must not fail the intake; the message is stored.
	if err := s.mailer.Send(c); err != nil {
		logger.FromCtx(ctx).Error("contact notification failed",
			zap.Uint("contact_id", c.ID),
			zap.Error(err),
		)
	}

	return c, nil
}

func (s *service) List(ctx context.Context, limit, page *int32) ([]*Contact, error) {
	return s.repo.List(ctx, limit, page)
}
