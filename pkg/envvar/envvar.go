// Package envvar applies environment variable overrides to config fields.
// An empty variable name, or a variable that is unset or empty, leaves the
// field unchanged. Values that fail to parse are ignored so that validation
// reports on the field's file or default value.
package envvar

import (
	"os"
	"strconv"
	"strings"
)

// String sets *dst to the value of name.
func String(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

// Int sets *dst to the integer value of name.
func Int(dst *int, name string) {
	if v, ok := lookup(name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Float sets *dst to the float value of name.
func Float(dst *float64, name string) {
	if v, ok := lookup(name); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

// Bool sets *dst to the strconv.ParseBool value of name.
func Bool(dst *bool, name string) {
	if v, ok := lookup(name); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// BoolPtr is Bool for optional switches: a parsed value replaces *dst with a
// fresh pointer.
func BoolPtr(dst **bool, name string) {
	if v, ok := lookup(name); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = &b
		}
	}
}

// List sets *dst to the comma-separated items of name, trimmed, with blanks dropped.
func List(dst *[]string, name string) {
	v, ok := lookup(name)
	if !ok {
		return
	}

	items := make([]string, 0, strings.Count(v, ",")+1)
	for item := range strings.SplitSeq(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	*dst = items
}

func lookup(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	v := os.Getenv(name)
	return v, v != ""
}
