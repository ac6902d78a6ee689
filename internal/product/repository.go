package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"libreria-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

var ErrProductNotFound = errors.New("product not found")

type Repository interface {
	GetProducts(ctx context.Context, opts QueryOptions) ([]*Product, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	// GetByIDs loads the products referenced by a checkout so unit prices
	// come from the catalog, never from client input.
	GetByIDs(ctx context.Context, ids []uint) ([]*Product, error)
	Create(ctx context.Context, input NewProduct) (*Product, error)
	Update(ctx context.Context, id uint, input UpdateProduct) (*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	p.id, p.category_id, p.name, p.author, p.description,
	p.price, p.stock, p.image_url, p.active, p.created_at, p.updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Author, &p.Description,
		&p.Price, &p.Stock, &p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetProducts(ctx context.Context, opts QueryOptions) ([]*Product, error) {
	finalLimit := int32(20)
	finalPage := int32(1)
	if opts.Limit != nil && *opts.Limit > 0 {
		finalLimit = *opts.Limit
	}
	if opts.Page != nil && *opts.Page > 0 {
		finalPage = *opts.Page
	}
	finalOffset := (finalPage - 1) * finalLimit

	query := `SELECT ` + productColumns + ` FROM products p`

	where := []string{}
	args := []interface{}{}

	if opts.Filter != nil && *opts.Filter != "" {
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.author ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+*opts.Filter+"%")
	}
	if opts.CategoryID != nil {
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)+1))
		args = append(args, *opts.CategoryID)
	}
	if opts.OnlyActive {
		where = append(where, "p.active = true")
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	query += " ORDER BY p.name ASC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, finalLimit, finalOffset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("DB query failed GetProducts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (r *repository) GetByIDs(ctx context.Context, ids []uint) ([]*Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	int64IDs := make([]int64, 0, len(ids))
	for _, id := range ids {
		int64IDs = append(int64IDs, int64(id))
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.id = ANY($1)`,
		pq.Array(int64IDs),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) Create(ctx context.Context, input NewProduct) (*Product, error) {
	log := logger.FromCtx(ctx).With(zap.String("product_name", input.Name))

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO products (category_id, name, author, description, price, stock, image_url, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,true)
		RETURNING `+strings.ReplaceAll(productColumns, "p.", "")+`
	`,
		input.CategoryID, input.Name, input.Author, input.Description,
		input.Price, input.Stock, input.ImageURL,
	)

	p, err := scanProduct(row)
	if err != nil {
		log.Error("product insert failed", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.Uint("product_id", p.ID))
	return p, nil
}

func (r *repository) Update(ctx context.Context, id uint, input UpdateProduct) (*Product, error) {
	set := []string{}
	args := []interface{}{}

	add := func(col string, val interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)+1))
		args = append(args, val)
	}

	if input.CategoryID != nil {
		add("category_id", *input.CategoryID)
	}
	if input.Name != nil {
		add("name", *input.Name)
	}
	if input.Author != nil {
		add("author", *input.Author)
	}
	if input.Description != nil {
		add("description", *input.Description)
	}
	if input.Price != nil {
		add("price", *input.Price)
	}
	if input.Stock != nil {
		add("stock", *input.Stock)
	}
	if input.ImageURL != nil {
		add("image_url", *input.ImageURL)
	}
	if input.Active != nil {
		add("active", *input.Active)
	}

	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	set = append(set, "updated_at = now()")
	query := fmt.Sprintf(
		"UPDATE products SET %s WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args)+1, strings.ReplaceAll(productColumns, "p.", ""),
	)
	args = append(args, id)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}
