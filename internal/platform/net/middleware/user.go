package middleware

import (
	"net/http"

	pnet "dragoman/internal/platform/net"
)

// UserContext lifts the caller-supplied X-User-ID header onto context so
// handlers can attribute requests and feedback reports
func UserContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if uid := r.Header.Get("X-User-ID"); uid != "" {
				r = r.WithContext(pnet.WithUser(r.Context(), uid))
			}
			next.ServeHTTP(w, r)
		})
	}
}
