package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded for template mutations.
const (
	AuditTemplateCreated    = "template.created"
	AuditTemplateUpdated    = "template.updated"
	AuditTemplateDefaultSet = "template.default_set"
	AuditTemplateDeleted    = "template.deleted"
)

// TenantChannel is the pub/sub channel carrying a tenant's template change
// events.
func TenantChannel(tenantID uuid.UUID) string {
	return "tenant:" + tenantID.String()
}

type AuditEntry struct {
	ID         uuid.UUID      `json:"id"`
	TenantID   uuid.UUID      `json:"tenantId"`
	ActorType  string         `json:"actorType"` // "user", "system"
	ActorID    string         `json:"actorId"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"` // "template"
	ResourceID uuid.UUID      `json:"resourceId"`
	Details    map[string]any `json:"details"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type AuditRepository interface {
	Record(ctx context.Context, entry *AuditEntry) error
	ListByResource(ctx context.Context, tenantID uuid.UUID, resource string, resourceID uuid.UUID) ([]*AuditEntry, error)
}
