// Package middleware provides the HTTP middleware used by modules: CORS,
// access logging, and Chain for composing them in order.
package middleware

import (
	"net/http"
	"slices"
)

// Func wraps an http.Handler.
type Func func(http.Handler) http.Handler

// Chain is an ordered middleware stack. The first element is the outermost.
type Chain []Func

// Then wraps h with every middleware in the chain.
func (c Chain) Then(h http.Handler) http.Handler {
	for _, mw := range slices.Backward(c) {
		h = mw(h)
	}
	return h
}
