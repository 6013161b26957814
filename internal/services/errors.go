package services

import "errors"

// Service-level error taxonomy. Handlers map these onto HTTP statuses;
// anything else surfaces as an internal error.
var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUpstreamService    = errors.New("upstream service error")
)
