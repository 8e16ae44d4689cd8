package feedback

import (
	"errors"
	"net/http"
)

// Domain errors for feedback operations.
var (
	ErrNotFound      = errors.New("classification not found")
	ErrMisconfigured = errors.New("feedback storage not configured")
	ErrInvalidQuery  = errors.New("invalid feedback query")
)

// MapHTTPStatus maps feedback domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidQuery) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrMisconfigured) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
