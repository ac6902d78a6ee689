package contact

import (
	"context"
	"database/sql"
)

type Repository interface {
	Insert(ctx context.Context, c NewContact) (*Contact, error)
	List(ctx context.Context, limit, page *int32) ([]*Contact, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, c NewContact) (*Contact, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO contacts (name, email, phone, message)
		VALUES ($1,$2,$3,$4)
		RETURNING id, name, email, phone, message, created_at
	`, c.Name, c.Email, c.Phone, c.Message)

	var out Contact
	if err := row.Scan(&out.ID, &out.Name, &out.Email, &out.Phone, &out.Message, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repository) List(ctx context.Context, limit, page *int32) ([]*Contact, error) {
	finalLimit := int32(20)
	finalPage := int32(1)
	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	if page != nil && *page > 0 {
		finalPage = *page
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, message, created_at
		FROM contacts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, finalLimit, (finalPage-1)*finalLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Message, &c.CreatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, &c)
	}
	return contacts, rows.Err()
}
