package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/schooldocs/internal/domain"
	"github.com/gosuda/schooldocs/internal/render"
	"github.com/gosuda/schooldocs/internal/server/middleware"
	"github.com/gosuda/schooldocs/internal/templates"
	"github.com/gosuda/schooldocs/internal/variables"
)

// ---------------------------------------------------------------------------
// Context helpers inject tenant, user and role the way the auth middleware does.
// ---------------------------------------------------------------------------

func tenantCtx(tenantID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyTenantID, tenantID)
	return ctx
}

func staffCtx(tenantID uuid.UUID) context.Context {
	ctx := tenantCtx(tenantID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, middleware.RoleStaff)
	return ctx
}

func adminCtx(tenantID, userID uuid.UUID) context.Context {
	ctx := tenantCtx(tenantID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, middleware.RoleAdmin)
	return ctx
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	schools      domain.SchoolRepository
	students     domain.StudentRepository
	fees         domain.FeeRepository
	examinations domain.ExaminationRepository
	results      domain.ResultRepository
	audit        domain.AuditRepository
}

func (m *mockDataStore) Schools() domain.SchoolRepository           { return m.schools }
func (m *mockDataStore) Students() domain.StudentRepository         { return m.students }
func (m *mockDataStore) Fees() domain.FeeRepository                 { return m.fees }
func (m *mockDataStore) Examinations() domain.ExaminationRepository { return m.examinations }
func (m *mockDataStore) Results() domain.ResultRepository           { return m.results }
func (m *mockDataStore) Audit() domain.AuditRepository              { return m.audit }

// ---------------------------------------------------------------------------
// Mock school-side repositories
// ---------------------------------------------------------------------------

type mockSchoolRepo struct {
	getByTenantFunc func(ctx context.Context, tenantID uuid.UUID) (*domain.School, error)
}

func (m *mockSchoolRepo) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*domain.School, error) {
	return m.getByTenantFunc(ctx, tenantID)
}

type mockStudentRepo struct {
	getByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Student, error)
}

func (m *mockStudentRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Student, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

type mockFeeRepo struct {
	getByIDFunc       func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Fee, error)
	listByStudentFunc func(ctx context.Context, tenantID, studentID uuid.UUID) ([]*domain.Fee, error)
}

func (m *mockFeeRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Fee, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockFeeRepo) ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]*domain.Fee, error) {
	return m.listByStudentFunc(ctx, tenantID, studentID)
}

type mockExaminationRepo struct {
	getByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Examination, error)
}

func (m *mockExaminationRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Examination, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

type mockResultRepo struct {
	getByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Result, error)
}

func (m *mockResultRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Result, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

type mockAuditRepo struct {
	recordFunc         func(ctx context.Context, entry *domain.AuditEntry) error
	listByResourceFunc func(ctx context.Context, tenantID uuid.UUID, resource string, resourceID uuid.UUID) ([]*domain.AuditEntry, error)
}

func (m *mockAuditRepo) Record(ctx context.Context, entry *domain.AuditEntry) error {
	return m.recordFunc(ctx, entry)
}

func (m *mockAuditRepo) ListByResource(ctx context.Context, tenantID uuid.UUID, resource string, resourceID uuid.UUID) ([]*domain.AuditEntry, error) {
	return m.listByResourceFunc(ctx, tenantID, resource, resourceID)
}

// ---------------------------------------------------------------------------
// Mock TemplateService
// ---------------------------------------------------------------------------

type mockTemplateService struct {
	createFunc     func(ctx context.Context, p templates.CreateParams) (*domain.Template, error)
	updateFunc     func(ctx context.Context, tenantID, id uuid.UUID, p templates.UpdateParams) (*domain.Template, error)
	setDefaultFunc func(ctx context.Context, tenantID, id, actorID uuid.UUID) error
	softDeleteFunc func(ctx context.Context, tenantID, id, actorID uuid.UUID) error
	listFunc       func(ctx context.Context, tenantID uuid.UUID, docType *domain.DocumentType) ([]*domain.Template, error)
	getFunc        func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Template, error)
	getDefaultFunc func(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType) (*domain.Template, error)
}

func (m *mockTemplateService) Create(ctx context.Context, p templates.CreateParams) (*domain.Template, error) {
	return m.createFunc(ctx, p)
}

func (m *mockTemplateService) Update(ctx context.Context, tenantID, id uuid.UUID, p templates.UpdateParams) (*domain.Template, error) {
	return m.updateFunc(ctx, tenantID, id, p)
}

func (m *mockTemplateService) SetDefault(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	return m.setDefaultFunc(ctx, tenantID, id, actorID)
}

func (m *mockTemplateService) SoftDelete(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	return m.softDeleteFunc(ctx, tenantID, id, actorID)
}

func (m *mockTemplateService) List(ctx context.Context, tenantID uuid.UUID, docType *domain.DocumentType) ([]*domain.Template, error) {
	return m.listFunc(ctx, tenantID, docType)
}

func (m *mockTemplateService) Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.Template, error) {
	return m.getFunc(ctx, tenantID, id)
}

func (m *mockTemplateService) GetDefault(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType) (*domain.Template, error) {
	return m.getDefaultFunc(ctx, tenantID, docType)
}

// ---------------------------------------------------------------------------
// Mock Renderer
// ---------------------------------------------------------------------------

type mockRenderer struct {
	previewFunc        func(ctx context.Context, html, css string) (*render.Preview, error)
	renderFunc         func(ctx context.Context, req render.Request) (*render.Document, error)
	renderTemplateFunc func(ctx context.Context, t *domain.Template, data variables.Data) (*render.Document, error)
}

func (m *mockRenderer) Preview(ctx context.Context, html, css string) (*render.Preview, error) {
	return m.previewFunc(ctx, html, css)
}

func (m *mockRenderer) Render(ctx context.Context, req render.Request) (*render.Document, error) {
	return m.renderFunc(ctx, req)
}

func (m *mockRenderer) RenderTemplate(ctx context.Context, t *domain.Template, data variables.Data) (*render.Document, error) {
	return m.renderTemplateFunc(ctx, t, data)
}

// echoRenderer substitutes data into the template HTML without a browser.
func echoRenderer() *mockRenderer {
	return &mockRenderer{
		renderTemplateFunc: func(_ context.Context, t *domain.Template, data variables.Data) (*render.Document, error) {
			out, unresolved := variables.Compile(t.HTMLBody, data)
			return &render.Document{HTML: out, PDFBase64: "JVBERi0=", Unresolved: unresolved}, nil
		},
	}
}
