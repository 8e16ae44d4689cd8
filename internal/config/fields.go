package config

import (
	"fmt"
	"time"
)

// overlay copies v into dst unless v is the zero value.
func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

// fallback sets dst to v when dst is still the zero value.
func fallback[T comparable](dst *T, v T) {
	var zero T
	if *dst == zero {
		*dst = v
	}
}

// durations validates named duration strings in order and reports the first
// that does not parse.
func durations(fields ...[2]string) error {
	for _, f := range fields {
		if _, err := time.ParseDuration(f[1]); err != nil {
			return fmt.Errorf("invalid %s: %w", f[0], err)
		}
	}
	return nil
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
