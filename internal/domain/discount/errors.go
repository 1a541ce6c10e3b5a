package discount

import "errors"

var (
	ErrDiscountNotFound = errors.New("discount not found")
	ErrCodeExists       = errors.New("discount code already exists")
	ErrMissingFields    = errors.New("missing required discount fields")
	ErrInvalidAmount    = errors.New("invalid discount amount")
	ErrInvalidCode      = errors.New("invalid discount code")
)
