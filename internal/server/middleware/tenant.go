package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequireTenant refuses requests that carry no school. The tenant comes only
// from the tid claim of the JWT verified by Auth, never from a header or the
// request body, so a request without one is answered 403 before any
// template or document handler runs.
func RequireTenant() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tid, ok := TenantIDFromContext(r.Context()); !ok || tid == uuid.Nil {
				w.Header().Set("Content-Type", "application/problem+json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"title":"Forbidden","status":403,"detail":"valid tenant required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
