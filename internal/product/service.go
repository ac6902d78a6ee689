package product

import (
	"context"

	"libreria-be/internal/utils"
)

type Service interface {
	GetProducts(ctx context.Context, opts QueryOptions) ([]*Product, error)
	GetProductByID(ctx context.Context, id uint) (*Product, error)
	Create(ctx context.Context, input NewProduct) (*Product, error)
	Update(ctx context.Context, id uint, input UpdateProduct) (*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProducts(ctx context.Context, opts QueryOptions) ([]*Product, error) {
	return s.repo.GetProducts(ctx, opts)
}

func (s *service) GetProductByID(ctx context.Context, id uint) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func validateNewProduct(input NewProduct) error {
	var fields []utils.FieldError
	if input.Name == "" {
		fields = append(fields, utils.FieldError{Field: "name", Message: "must not be empty"})
	}
	if input.CategoryID == 0 {
		fields = append(fields, utils.FieldError{Field: "category_id", Message: "is required"})
	}
	if input.Price < 0 {
		fields = append(fields, utils.FieldError{Field: "price", Message: "must not be negative"})
	}
	if input.Stock < 0 {
		fields = append(fields, utils.FieldError{Field: "stock", Message: "must not be negative"})
	}
	if len(fields) > 0 {
		return utils.NewValidationError(fields...)
	}
	return nil
}

func (s *service) Create(ctx context.Context, input NewProduct) (*Product, error) {
	if err := validateNewProduct(input); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, input)
}

func (s *service) Update(ctx context.Context, id uint, input UpdateProduct) (*Product, error) {
	var fields []utils.FieldError
	if input.Name != nil && *input.Name == "" {
		fields = append(fields, utils.FieldError{Field: "name", Message: "must not be empty"})
	}
	if input.Price != nil && *input.Price < 0 {
		fields = append(fields, utils.FieldError{Field: "price", Message: "must not be negative"})
	}
	if input.Stock != nil && *input.Stock < 0 {
		fields = append(fields, utils.FieldError{Field: "stock", Message: "must not be negative"})
	}
	if len(fields) > 0 {
		return nil, utils.NewValidationError(fields...)
	}
	return s.repo.Update(ctx, id, input)
}
