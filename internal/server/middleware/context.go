package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// Request context keys set by Auth from the verified token's tid, uid and
// role claims.
const (
	ContextKeyTenantID contextKey = "tenant_id"
	ContextKeyUserID   contextKey = "user_id"
	ContextKeyUserRole contextKey = "role"
)

// TenantIDFromContext returns the school (tenant) every template and
// document lookup of the request is scoped to.
func TenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyTenantID).(uuid.UUID)
	return v, ok
}

// UserIDFromContext returns the acting user, recorded as the actor of
// template audit entries.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return v, ok
}

// RoleFromContext returns the caller's role, checked by RequireRole.
func RoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeyUserRole).(string)
	return v, ok
}
