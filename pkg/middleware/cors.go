package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// CORS answers preflight requests itself and decorates simple requests from
// allowed origins. "*" in Origins allows every origin. The handler is a
// pass-through when CORS is disabled or no origins are listed.
func CORS(cfg *CORSConfig) Func {
	if !cfg.IsEnabled() || len(cfg.Origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	wildcard := slices.Contains(cfg.Origins, "*")
	credentials := cfg.CredentialsAllowed()
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := ""
	if cfg.MaxAge > 0 {
		maxAge = strconv.Itoa(cfg.MaxAge)
	}

	allowOrigin := func(h http.Header, origin string) {
		// browsers reject a literal * alongside credentials
		if wildcard && !credentials {
			h.Set("Access-Control-Allow-Origin", "*")
			return
		}
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := origin != "" && (wildcard || slices.Contains(cfg.Origins, origin))

			preflight := r.Method == http.MethodOptions &&
				r.Header.Get("Access-Control-Request-Method") != ""
			if preflight && !allowed {
				http.Error(w, "disallowed CORS origin", http.StatusBadRequest)
				return
			}

			if allowed {
				h := w.Header()
				allowOrigin(h, origin)
				if credentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if preflight {
					h.Set("Access-Control-Allow-Methods", methods)
					h.Set("Access-Control-Allow-Headers", headers)
					if maxAge != "" {
						h.Set("Access-Control-Max-Age", maxAge)
					}
					w.WriteHeader(http.StatusOK)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
