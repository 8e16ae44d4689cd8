package classifications

import (
	"errors"
	"net/http"
)

// ErrModelNotReady indicates the scorer could not produce probabilities.
var ErrModelNotReady = errors.New("model not ready")

// MapHTTPStatus maps classification errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrModelNotReady) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
