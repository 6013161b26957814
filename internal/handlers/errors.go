package handlers

import (
	"errors"
	"net/http"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/services"
)

// MapErrorToHTTPStatus translates the service error taxonomy into an error
// code and HTTP status. Unknown errors stay internal.
func MapErrorToHTTPStatus(err error) (string, int) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return "VALIDATION_ERROR", http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return "INVALID_CREDENTIALS", http.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		return "NOT_FOUND", http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyExists):
		return "ALREADY_EXISTS", http.StatusConflict
	case errors.Is(err, services.ErrUpstreamService):
		return "UPSTREAM_ERROR", http.StatusBadGateway
	default:
		return "INTERNAL_ERROR", http.StatusInternalServerError
	}
}
