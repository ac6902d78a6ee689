package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"libreria-be/internal/logger"
	"libreria-be/internal/utils"

	"go.uber.org/zap"
)

var ErrCategoryNotFound = errors.New("category not found")

type Repository interface {
	GetCategories(ctx context.Context, filter *string, limit, page *int32) ([]*Category, error)
	AddCategory(ctx context.Context, name string) (*Category, error)
	UpdateCategory(ctx context.Context, id uint, name string) (*Category, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetCategories(
	ctx context.Context,
	filter *string,
	limit *int32,
	page *int32,
) ([]*Category, error) {

	finalLimit := int32(20)
	finalPage := int32(1)
	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	if page != nil && *page > 0 {
		finalPage = *page
	}
	finalOffset := (finalPage - 1) * finalLimit

	query := `
		SELECT c.id, c.name, c.slug, c.created_at
		FROM categories c
	`

	where := []string{}
	args := []interface{}{}

	if filter != nil && *filter != "" {
		where = append(where, fmt.Sprintf("c.name ILIKE $%d", len(args)+1))
		args = append(args, "%"+*filter+"%")
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	query += " ORDER BY c.name ASC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, finalLimit, finalOffset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("DB query failed GetCategories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}

	return categories, rows.Err()
}

func (r *repository) AddCategory(ctx context.Context, name string) (*Category, error) {
	log := logger.FromCtx(ctx).With(zap.String("category_name", name))

	if name == "" {
		log.Warn("AddCategory validation failed: empty name")
		return nil, errors.New("category name cannot be empty")
	}

	query := `
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		RETURNING id, name, slug, created_at
	`

	var c Category
	err := r.db.QueryRowContext(ctx, query, name, utils.Slugify(name)).
		Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if err != nil {
		log.Error("AddCategory insert failed", zap.Error(err))
		return nil, err
	}

	log.Info("category created", zap.Uint("category_id", c.ID))
	return &c, nil
}

func (r *repository) UpdateCategory(ctx context.Context, id uint, name string) (*Category, error) {
	if name == "" {
		return nil, errors.New("category name cannot be empty")
	}

	query := `
		UPDATE categories
		SET name = $1, slug = $2
		WHERE id = $3
		RETURNING id, name, slug, created_at
	`

	var c Category
	err := r.db.QueryRowContext(ctx, query, name, utils.Slugify(name), id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
