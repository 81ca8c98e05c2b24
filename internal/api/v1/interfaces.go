package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/schooldocs/internal/domain"
	"github.com/gosuda/schooldocs/internal/render"
	"github.com/gosuda/schooldocs/internal/templates"
	"github.com/gosuda/schooldocs/internal/variables"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Schools() domain.SchoolRepository
	Students() domain.StudentRepository
	Fees() domain.FeeRepository
	Examinations() domain.ExaminationRepository
	Results() domain.ResultRepository
	Audit() domain.AuditRepository
}

// TemplateService abstracts template management for handler testing.
// *templates.Service satisfies this interface.
type TemplateService interface {
	Create(ctx context.Context, p templates.CreateParams) (*domain.Template, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, p templates.UpdateParams) (*domain.Template, error)
	SetDefault(ctx context.Context, tenantID, id, actorID uuid.UUID) error
	SoftDelete(ctx context.Context, tenantID, id, actorID uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, docType *domain.DocumentType) ([]*domain.Template, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.Template, error)
	GetDefault(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType) (*domain.Template, error)
}

// Renderer abstracts the render engine for handler testing.
// *render.Engine satisfies this interface.
type Renderer interface {
	Preview(ctx context.Context, html, css string) (*render.Preview, error)
	Render(ctx context.Context, req render.Request) (*render.Document, error)
	RenderTemplate(ctx context.Context, t *domain.Template, data variables.Data) (*render.Document, error)
}
