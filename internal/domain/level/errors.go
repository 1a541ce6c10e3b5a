package level

import "errors"

var (
	ErrLevelNotFound = errors.New("subscription level not found")
	ErrNameRequired  = errors.New("subscription level name is required")
	ErrInvalidPrice  = errors.New("invalid price")
)
