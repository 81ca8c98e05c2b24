package v1

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/schooldocs/internal/documents"
	"github.com/gosuda/schooldocs/internal/domain"
	"github.com/gosuda/schooldocs/internal/server/middleware"
)

// httpError maps a service error onto the API's status codes. what names the
// resource in not-found messages.
func httpError(err error, what string) error {
	var pending *documents.PendingFeesError

	switch {
	case errors.As(err, &pending):
		return huma.Error403Forbidden(pending.Error(), &huma.ErrorDetail{
			Message:  "outstanding fee balance",
			Location: "pendingAmount",
			Value:    pending.Amount.StringFixed(2),
		})
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(what + " not found")
	case errors.Is(err, domain.ErrBadRequest):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, domain.ErrConflict):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, domain.ErrRender):
		return huma.Error502BadGateway(err.Error())
	default:
		return huma.Error500InternalServerError("failed to process "+what, err)
	}
}

// caller is the authenticated principal of a request.
type caller struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Role     string
}

func callerFrom(ctx context.Context) (caller, error) {
	tenantID, ok := middleware.TenantIDFromContext(ctx)
	if !ok || tenantID == uuid.Nil {
		return caller{}, huma.Error403Forbidden("missing tenant context")
	}
	userID, _ := middleware.UserIDFromContext(ctx)
	role, _ := middleware.RoleFromContext(ctx)

	return caller{TenantID: tenantID, UserID: userID, Role: role}, nil
}

func adminFrom(ctx context.Context) (caller, error) {
	c, err := callerFrom(ctx)
	if err != nil {
		return caller{}, err
	}
	if c.Role != middleware.RoleAdmin {
		return caller{}, huma.Error403Forbidden("admin role required")
	}
	return c, nil
}
