package user

import (
	"context"
	"errors"

	"libreria-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	// Login verifies credentials and issues a session token carrying the
	// user's role claim.
	Login(ctx context.Context, email, password string) (string, *User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Login(ctx context.Context, email, password string) (string, *User, error) {
	log := logger.FromCtx(ctx).With(zap.String("email", email))

	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !CheckPasswordHash(password, u.PasswordHash) {
		log.Warn("login failed: bad password")
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateJWT(u.ID, u.Role, u.Email)
	if err != nil {
		return "", nil, err
	}

	log.Info("login succeeded", zap.Uint("user_id", u.ID), zap.String("role", u.Role))
	return token, u, nil
}
