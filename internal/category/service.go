package category

import (
	"context"

	"libreria-be/internal/utils"
)

type Service interface {
	GetCategories(ctx context.Context, filter *string, limit, page *int32) ([]*Category, error)
	AddCategory(ctx context.Context, name string) (*Category, error)
	UpdateCategory(ctx context.Context, id uint, name string) (*Category, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetCategories(ctx context.Context, filter *string, limit, page *int32) ([]*Category, error) {
	return s.repo.GetCategories(ctx, filter, limit, page)
}

func (s *service) AddCategory(ctx context.Context, name string) (*Category, error) {
	if name == "" {
		return nil, utils.NewValidationError(utils.FieldError{Field: "name", Message: "must not be empty"})
	}
	return s.repo.AddCategory(ctx, name)
}

func (s *service) UpdateCategory(ctx context.Context, id uint, name string) (*Category, error) {
	if name == "" {
		return nil, utils.NewValidationError(utils.FieldError{Field: "name", Message: "must not be empty"})
	}
	return s.repo.UpdateCategory(ctx, id, name)
}
