package member

import "errors"

var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrLoginExists        = errors.New("login already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidStatus      = errors.New("invalid member status")
	ErrInvalidSignup      = errors.New("invalid signup method")
	ErrExpirationInPast   = errors.New("expiration date is in the past")
	ErrInvalidCredentials = errors.New("invalid login or password")
)
