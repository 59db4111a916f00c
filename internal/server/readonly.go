package server

import (
	"net/http"
	"strings"
)

// ReadOnlyMiddleware rejects every request other than GET, HEAD and OPTIONS
// whose path starts with one of prefixes. An empty prefix list guards every
// path.
func ReadOnlyMiddleware(prefixes []string) Middleware {
	guarded := func(path string) bool {
		if len(prefixes) == 0 {
			return true
		}
		for _, p := range prefixes {
			if strings.HasPrefix(path, p) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			if !guarded(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			MethodNotAllowed(w, "server is in read-only mode", r.URL.Path)
		})
	}
}
