// Package module mounts self-contained HTTP handlers under single-segment
// path prefixes and dispatches between them, native routes, and a root module.
package module

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/JaimeStill/autou/pkg/middleware"
)

// ErrInvalidPrefix is returned by New for prefixes that are not of the form "/name".
var ErrInvalidPrefix = errors.New("invalid module prefix")

// Module serves an inner router behind its own middleware chain. Requests
// arriving through Serve have the prefix stripped first.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.Chain

	once    sync.Once
	handler http.Handler
}

// New creates a Module for a single-segment prefix such as "/api".
func New(prefix string, router http.Handler) (*Module, error) {
	name, ok := strings.CutPrefix(prefix, "/")
	if !ok || name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrefix, prefix)
	}
	return &Module{
		prefix: prefix,
		router: router,
	}, nil
}

// Handler returns the inner router wrapped in the middleware chain. The chain
// is fixed on first use; later calls to Use have no effect.
func (m *Module) Handler() http.Handler {
	m.once.Do(func() {
		m.handler = m.middleware.Then(m.router)
	})
	return m.handler
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Serve strips the prefix and dispatches to Handler.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	inner := req.Clone(req.Context())
	inner.URL.Path = strings.TrimPrefix(req.URL.Path, m.prefix)
	if inner.URL.Path == "" {
		inner.URL.Path = "/"
	}
	inner.URL.RawPath = ""
	m.Handler().ServeHTTP(w, inner)
}

// Use appends mw to the middleware chain.
func (m *Module) Use(mw middleware.Func) {
	m.middleware = append(m.middleware, mw)
}
