package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/schooldocs/internal/domain"
)

const templateColumns = `id, tenant_id, document_type, name, html_body, css_body, extracted_variables,
		        is_default, version, created_by, updated_by, active, created_at, updated_at`

type TemplateRepo struct {
	pool *pgxpool.Pool
}

func NewTemplateRepo(pool *pgxpool.Pool) *TemplateRepo {
	return &TemplateRepo{pool: pool}
}

// lockType serializes version assignment and default-flag changes for one
// (tenant, document type) until the transaction ends.
func lockType(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, docType domain.DocumentType) error {
	_, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`,
		tenantID.String()+":"+string(docType),
	)
	if err != nil {
		return fmt.Errorf("lock defaults: %w", err)
	}
	return nil
}

// unsetSiblingDefaults clears is_default on every other template of the type.
// Callers hold lockType.
func unsetSiblingDefaults(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, docType domain.DocumentType, keep uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE templates SET is_default = false, updated_at = now()
		 WHERE tenant_id = $1 AND document_type = $2 AND id <> $3 AND is_default`,
		tenantID, docType, keep,
	)
	if err != nil {
		return fmt.Errorf("unset sibling defaults: %w", err)
	}
	return nil
}

// Create inserts t with the next version of its (tenant, document type),
// counting deleted templates, and writes that version back into t.Version.
func (r *TemplateRepo) Create(ctx context.Context, t *domain.Template) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockType(ctx, tx, t.TenantID, t.DocumentType); err != nil {
			return err
		}

		err := tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(version), 0) + 1 FROM templates WHERE tenant_id = $1 AND document_type = $2`,
			t.TenantID, t.DocumentType,
		).Scan(&t.Version)
		if err != nil {
			return fmt.Errorf("next version: %w", err)
		}

		if t.IsDefault {
			if err := unsetSiblingDefaults(ctx, tx, t.TenantID, t.DocumentType, t.ID); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO templates (`+templateColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			t.ID, t.TenantID, t.DocumentType, t.Name, t.HTMLBody, t.CSSBody, t.ExtractedVariables,
			t.IsDefault, t.Version, t.CreatedBy, t.UpdatedBy, t.Active, t.CreatedAt, t.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("templateRepo.Create: %w", err)
	}

	return nil
}

func (r *TemplateRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Template, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+templateColumns+`
		 FROM templates WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)

	t, err := scanTemplate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("templateRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("templateRepo.GetByID: %w", err)
	}

	return t, nil
}

func (r *TemplateRepo) GetDefault(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType) (*domain.Template, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+templateColumns+`
		 FROM templates
		 WHERE tenant_id = $1 AND document_type = $2 AND is_default AND active`,
		tenantID, docType,
	)

	t, err := scanTemplate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("templateRepo.GetDefault: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("templateRepo.GetDefault: %w", err)
	}

	return t, nil
}

func (r *TemplateRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, filter domain.TemplateFilter) ([]*domain.Template, error) {
	var docType *string
	if filter.DocumentType != nil {
		s := string(*filter.DocumentType)
		docType = &s
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+templateColumns+`
		 FROM templates
		 WHERE tenant_id = $1 AND active AND ($2::text IS NULL OR document_type = $2)
		 ORDER BY is_default DESC, created_at DESC
		 LIMIT 500`,
		tenantID, docType,
	)
	if err != nil {
		return nil, fmt.Errorf("templateRepo.ListByTenant: %w", err)
	}
	defer rows.Close()

	var list []*domain.Template
	for rows.Next() {
		t, scanErr := scanTemplate(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("templateRepo.ListByTenant: scan: %w", scanErr)
		}
		list = append(list, t)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("templateRepo.ListByTenant: rows: %w", err)
	}

	return list, nil
}

func (r *TemplateRepo) Update(ctx context.Context, t *domain.Template) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if t.IsDefault {
			if err := lockType(ctx, tx, t.TenantID, t.DocumentType); err != nil {
				return err
			}
			if err := unsetSiblingDefaults(ctx, tx, t.TenantID, t.DocumentType, t.ID); err != nil {
				return err
			}
		}

		err := tx.QueryRow(ctx,
			`UPDATE templates
			 SET name = $1, html_body = $2, css_body = $3, extracted_variables = $4,
			     is_default = $5, version = version + 1, updated_by = $6, updated_at = $7
			 WHERE tenant_id = $8 AND id = $9 AND active
			 RETURNING version`,
			t.Name, t.HTMLBody, t.CSSBody, t.ExtractedVariables,
			t.IsDefault, t.UpdatedBy, t.UpdatedAt, t.TenantID, t.ID,
		).Scan(&t.Version)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("templateRepo.Update: %w", err)
	}

	return nil
}

func (r *TemplateRepo) SetDefault(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	// The type is read before taking the advisory lock; row locks are only
	// taken after it, in the same order as Create and Update.
	var docType domain.DocumentType
	err := r.pool.QueryRow(ctx,
		`SELECT document_type FROM templates WHERE tenant_id = $1 AND id = $2 AND active`,
		tenantID, id,
	).Scan(&docType)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("templateRepo.SetDefault: %w", domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("templateRepo.SetDefault: %w", err)
	}

	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockType(ctx, tx, tenantID, docType); err != nil {
			return err
		}
		if err := unsetSiblingDefaults(ctx, tx, tenantID, docType, id); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx,
			`UPDATE templates SET is_default = true, updated_by = $1, updated_at = now()
			 WHERE tenant_id = $2 AND id = $3 AND active`,
			actorID, tenantID, id,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			// Deleted meanwhile; roll back the sibling reset.
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("templateRepo.SetDefault: %w", err)
	}

	return nil
}

func (r *TemplateRepo) SoftDelete(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE templates SET active = false, is_default = false, updated_by = $1, updated_at = now()
		 WHERE tenant_id = $2 AND id = $3 AND active`,
		actorID, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("templateRepo.SoftDelete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("templateRepo.SoftDelete: %w", domain.ErrNotFound)
	}

	return nil
}

func scanTemplate(row pgx.Row) (*domain.Template, error) {
	var t domain.Template

	err := row.Scan(
		&t.ID, &t.TenantID, &t.DocumentType, &t.Name, &t.HTMLBody, &t.CSSBody, &t.ExtractedVariables,
		&t.IsDefault, &t.Version, &t.CreatedBy, &t.UpdatedBy, &t.Active, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if t.ExtractedVariables == nil {
		t.ExtractedVariables = []string{}
	}

	return &t, nil
}
