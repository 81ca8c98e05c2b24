package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/schooldocs/internal/domain"
)

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Record(ctx context.Context, entry *domain.AuditEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("auditRepo.Record: marshal details: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO template_audit_log (id, tenant_id, actor_type, actor_id, action, resource, resource_id, details, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.TenantID, entry.ActorType, entry.ActorID,
		entry.Action, entry.Resource, entry.ResourceID,
		details, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("auditRepo.Record: %w", err)
	}

	return nil
}

// ListByResource returns the history of one template, newest first.
func (r *AuditRepo) ListByResource(ctx context.Context, tenantID uuid.UUID, resource string, resourceID uuid.UUID) ([]*domain.AuditEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, actor_type, actor_id, action, resource, resource_id, details, created_at
		 FROM template_audit_log WHERE tenant_id = $1 AND resource = $2 AND resource_id = $3
		 ORDER BY created_at DESC
		 LIMIT 200`,
		tenantID, resource, resourceID,
	)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.ListByResource: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		e, scanErr := scanAuditEntry(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("auditRepo.ListByResource: %w", scanErr)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("auditRepo.ListByResource: rows: %w", err)
	}

	return entries, nil
}

func scanAuditEntry(row pgx.Row) (*domain.AuditEntry, error) {
	var (
		e       domain.AuditEntry
		details []byte
	)

	if err := row.Scan(
		&e.ID, &e.TenantID, &e.ActorType, &e.ActorID, &e.Action,
		&e.Resource, &e.ResourceID, &details, &e.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &e.Details); err != nil {
			return nil, fmt.Errorf("unmarshal details: %w", err)
		}
	}

	return &e, nil
}
