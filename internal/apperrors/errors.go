package apperrors

import (
	"errors"
	"net/http"
)

// Sentinel errors shared by repositories and handlers. Handlers translate
// them to HTTP status codes with StatusFor; repositories wrap them with
// context via fmt.Errorf and %w.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrConflict         = errors.New("conflict")
	ErrPayloadTooLarge  = errors.New("payload too large")
	ErrInvalidOperation = errors.New("invalid operation")
)

// StatusFor maps a domain error to its HTTP status code. Unknown errors are
// treated as internal.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidOperation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
