package payment

import "errors"

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrMissingFields   = errors.New("missing required payment fields")
	ErrInvalidAmount   = errors.New("invalid payment amount")
)
