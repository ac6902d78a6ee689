package order

import "errors"

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrNotDeliverable = errors.New("only approved orders can be marked delivered")
)
