package middleware

import "net/http"

// Role constants define the supported user roles.
const (
	RoleAdmin   = "admin"
	RoleStaff   = "staff"
	RoleTeacher = "teacher"
	RoleViewer  = "viewer"
)

// RequireRole rejects requests whose role is not one of roles. It runs after
// Auth: an empty role is 401, a role outside the set is 403.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok || role == "" {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			if _, match := allowed[role]; !match {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"insufficient permissions"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

