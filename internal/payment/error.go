package payment

import "errors"

var (
	ErrMissingSignature   = errors.New("missing webhook signature headers")
	ErrMalformedSignature = errors.New("malformed webhook signature header")
	ErrInvalidSignature   = errors.New("invalid webhook signature")

	ErrMissingAccessToken = errors.New("missing mercado pago access token")
)
