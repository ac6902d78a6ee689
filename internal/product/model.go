package product

import "time"

// Product is one item of the bookstore catalog. Orders copy name, author and
// unit price into their own rows at checkout time, so editing a product never
// rewrites history.
type Product struct {
	ID          uint      `json:"id"`
	CategoryID  uint      `json:"category_id"`
	Name        string    `json:"name"`
	Author      string    `json:"author"`
	Description *string   `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type NewProduct struct {
	CategoryID  uint    `json:"category_id"`
	Name        string  `json:"name"`
	Author      string  `json:"author"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// UpdateProduct is a partial mutation; nil fields are left untouched.
type UpdateProduct struct {
	CategoryID  *uint    `json:"category_id,omitempty"`
	Name        *string  `json:"name,omitempty"`
	Author      *string  `json:"author,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

type QueryOptions struct {
	Filter     *string
	CategoryID *uint
	OnlyActive bool
	Limit      *int32
	Page       *int32
}
