package module

import (
	"net/http"
	"strings"
)

// Router resolves a request in three steps: a module mounted on the first
// path segment, then a native route, then the root module if one is set.
type Router struct {
	modules map[string]*Module
	native  *http.ServeMux
	root    *Module
}

func NewRouter() *Router {
	return &Router{
		modules: map[string]*Module{},
		native:  http.NewServeMux(),
	}
}

// HandleNative registers an unprefixed route such as /readyz or /metrics.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// Mount serves m under its prefix. Mounting a second module on the same
// prefix replaces the first.
func (r *Router) Mount(m *Module) {
	r.modules[m.prefix] = m
}

// MountRoot also serves m, with paths left intact, for requests no prefixed
// module or native route claims.
func (r *Router) MountRoot(m *Module) {
	r.root = m
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	trimTrailingSlash(req)

	if m, ok := r.modules[firstSegment(req.URL.Path)]; ok {
		m.Serve(w, req)
		return
	}

	if r.root != nil {
		if _, pattern := r.native.Handler(req); pattern == "" {
			r.root.Handler().ServeHTTP(w, req)
			return
		}
	}

	r.native.ServeHTTP(w, req)
}

// firstSegment returns "/api" for "/api/feedback" and "/api".
func firstSegment(path string) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return "/" + seg
}

func trimTrailingSlash(req *http.Request) {
	if p := req.URL.Path; len(p) > 1 {
		req.URL.Path = strings.TrimRight(p, "/")
		if req.URL.Path == "" {
			req.URL.Path = "/"
		}
	}
}
