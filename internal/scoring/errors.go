package scoring

import "errors"

var (
	// ErrNotReady indicates the scorer cannot serve requests (breaker open or backend unavailable).
	ErrNotReady = errors.New("scorer not ready")
	// ErrInvalidResponse indicates the inference server returned a malformed result.
	ErrInvalidResponse = errors.New("invalid scorer response")
	// ErrInvalidMetadata indicates the model metadata file is missing required values.
	ErrInvalidMetadata = errors.New("invalid model metadata")
)
