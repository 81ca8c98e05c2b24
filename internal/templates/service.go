// Package templates manages per-tenant document templates: versioning, the
// single-default rule per document type, soft deletion and audit.
package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/schooldocs/internal/domain"
	"github.com/gosuda/schooldocs/internal/variables"
)

// Cache is a read-through cache of templates by id. Get reports the entry's
// generation, a miss being (nil, gen, nil). Delete bumps the generation, and
// Set is a no-op once the generation has moved past gen, so a read racing a
// mutation cannot cache the copy it loaded before the mutation.
type Cache interface {
	Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.Template, int64, error)
	Set(ctx context.Context, t *domain.Template, gen int64) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// PubSubPublisher abstracts the Redis pub/sub publish operation.
type PubSubPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Service is the template store consumed by the HTTP layer and the render engine.
type Service struct {
	repo   domain.TemplateRepository
	audit  domain.AuditRepository
	cache  Cache           // optional
	pubsub PubSubPublisher // optional
	now    func() time.Time
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithCache enables the read-through cache.
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithPublisher enables tenant change events.
func WithPublisher(p PubSubPublisher) Option {
	return func(s *Service) { s.pubsub = p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a template Service. audit may be nil.
func NewService(repo domain.TemplateRepository, audit domain.AuditRepository, opts ...Option) *Service {
	s := &Service{repo: repo, audit: audit, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateParams struct {
	TenantID     uuid.UUID
	DocumentType domain.DocumentType
	Name         string
	HTML         string
	CSS          string
	IsDefault    bool
	ActorID      uuid.UUID
}

type UpdateParams struct {
	Name      string
	HTML      string
	CSS       string
	IsDefault bool
	ActorID   uuid.UUID
}

// Create stores a new template. The repository assigns its version, which
// continues after the highest version already used for the tenant and
// document type.
func (s *Service) Create(ctx context.Context, p CreateParams) (*domain.Template, error) {
	if !p.DocumentType.Valid() {
		return nil, fmt.Errorf("templates.Create: unknown document type %q: %w", p.DocumentType, domain.ErrBadRequest)
	}
	if err := validateContent(p.Name, p.HTML); err != nil {
		return nil, fmt.Errorf("templates.Create: %w", err)
	}

	now := s.now()
	t := &domain.Template{
		ID:                 uuid.New(),
		TenantID:           p.TenantID,
		DocumentType:       p.DocumentType,
		Name:               strings.TrimSpace(p.Name),
		HTMLBody:           p.HTML,
		CSSBody:            p.CSS,
		ExtractedVariables: variables.Extract(p.HTML),
		IsDefault:          p.IsDefault,
		CreatedBy:          p.ActorID,
		UpdatedBy:          p.ActorID,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("templates.Create: %w", err)
	}
	if t.IsDefault && s.cache != nil {
		s.invalidateType(ctx, t.TenantID, t.DocumentType)
	}

	s.changed(ctx, t.TenantID, t.ID, p.ActorID, domain.AuditTemplateCreated, map[string]any{
		"document_type": t.DocumentType,
		"version":       t.Version,
		"is_default":    t.IsDefault,
	})

	log.Info().
		Str("tenant_id", t.TenantID.String()).
		Str("template_id", t.ID.String()).
		Str("document_type", string(t.DocumentType)).
		Int("version", t.Version).
		Msg("templates: created")

	return t, nil
}

// Update replaces a template's content. The repository bumps the template's
// own version by one. Passing IsDefault=false never clears an existing default.
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, p UpdateParams) (*domain.Template, error) {
	if err := validateContent(p.Name, p.HTML); err != nil {
		return nil, fmt.Errorf("templates.Update: %w", err)
	}

	existing, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("templates.Update: %w", err)
	}
	if !existing.Active {
		return nil, fmt.Errorf("templates.Update: template is deleted: %w", domain.ErrNotFound)
	}

	becameDefault := p.IsDefault && !existing.IsDefault

	existing.Name = strings.TrimSpace(p.Name)
	existing.HTMLBody = p.HTML
	existing.CSSBody = p.CSS
	existing.ExtractedVariables = variables.Extract(p.HTML)
	existing.IsDefault = existing.IsDefault || p.IsDefault
	existing.UpdatedBy = p.ActorID
	existing.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("templates.Update: %w", err)
	}
	if becameDefault && s.cache != nil {
		s.invalidateType(ctx, tenantID, existing.DocumentType)
	}

	s.changed(ctx, tenantID, id, p.ActorID, domain.AuditTemplateUpdated, map[string]any{
		"version":        existing.Version,
		"became_default": becameDefault,
	})

	return existing, nil
}

// SetDefault makes the template the default for its document type and clears
// the flag on its siblings.
func (s *Service) SetDefault(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	if err := s.repo.SetDefault(ctx, tenantID, id, actorID); err != nil {
		return fmt.Errorf("templates.SetDefault: %w", err)
	}

	// Siblings lost their flag too; their cached copies are stale.
	if s.cache != nil {
		if t, err := s.repo.GetByID(ctx, tenantID, id); err == nil {
			s.invalidateType(ctx, tenantID, t.DocumentType)
		}
	}

	s.changed(ctx, tenantID, id, actorID, domain.AuditTemplateDefaultSet, nil)
	return nil
}

// SoftDelete deactivates the template. No sibling is promoted when the deleted
// template was the default; the type has no default until one is set.
func (s *Service) SoftDelete(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, tenantID, id, actorID); err != nil {
		return fmt.Errorf("templates.SoftDelete: %w", err)
	}

	s.changed(ctx, tenantID, id, actorID, domain.AuditTemplateDeleted, nil)
	return nil
}

// List returns active templates, default first then newest first.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, docType *domain.DocumentType) ([]*domain.Template, error) {
	if docType != nil && !docType.Valid() {
		return nil, fmt.Errorf("templates.List: unknown document type %q: %w", *docType, domain.ErrBadRequest)
	}

	list, err := s.repo.ListByTenant(ctx, tenantID, domain.TemplateFilter{DocumentType: docType})
	if err != nil {
		return nil, fmt.Errorf("templates.List: %w", err)
	}
	return list, nil
}

// Get loads a template by id. Deleted templates are returned too so that
// historical documents can still be rendered.
func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.Template, error) {
	var (
		gen       int64
		fillCache bool
	)
	if s.cache != nil {
		cached, g, err := s.cache.Get(ctx, tenantID, id)
		switch {
		case err != nil:
			// Without a generation the copy cannot be stored safely.
			log.Warn().Err(err).Str("template_id", id.String()).Msg("templates.Get: cache read failed")
		case cached != nil:
			return cached, nil
		default:
			gen, fillCache = g, true
		}
	}

	t, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("templates.Get: %w", err)
	}

	if fillCache {
		if err := s.cache.Set(ctx, t, gen); err != nil {
			log.Warn().Err(err).Str("template_id", id.String()).Msg("templates.Get: cache write failed")
		}
	}
	return t, nil
}

// GetDefault returns the tenant's default template for a document type.
func (s *Service) GetDefault(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType) (*domain.Template, error) {
	t, err := s.repo.GetDefault(ctx, tenantID, docType)
	if err != nil {
		return nil, fmt.Errorf("templates.GetDefault: %w", err)
	}
	return t, nil
}

func validateContent(name, html string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required: %w", domain.ErrBadRequest)
	}
	if strings.TrimSpace(html) == "" {
		return fmt.Errorf("html is required: %w", domain.ErrBadRequest)
	}
	return nil
}

// changed runs the post-mutation side effects. None of them fail the mutation.
func (s *Service) changed(ctx context.Context, tenantID, id, actorID uuid.UUID, action string, details map[string]any) {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, tenantID, id); err != nil {
			log.Warn().Err(err).Str("template_id", id.String()).Msg("templates: cache invalidation failed")
		}
	}

	if s.audit != nil {
		if details == nil {
			details = map[string]any{}
		}
		entry := &domain.AuditEntry{
			ID:         uuid.New(),
			TenantID:   tenantID,
			ActorType:  "user",
			ActorID:    actorID.String(),
			Action:     action,
			Resource:   "template",
			ResourceID: id,
			Details:    details,
			CreatedAt:  s.now(),
		}
		if err := s.audit.Record(ctx, entry); err != nil {
			log.Error().Err(err).Str("action", action).Str("template_id", id.String()).Msg("templates: failed to record audit entry")
		}
	}

	if s.pubsub != nil {
		evt := map[string]string{
			"type":        action,
			"template_id": id.String(),
		}
		payload, err := json.Marshal(evt)
		if err == nil {
			channel := domain.TenantChannel(tenantID)
			if pubErr := s.pubsub.Publish(ctx, channel, payload); pubErr != nil {
				log.Error().Err(pubErr).Str("channel", channel).Msg("templates: failed to publish change event")
			}
		}
	}
}

// invalidateType drops cached copies of every active template of a type.
func (s *Service) invalidateType(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType) {
	siblings, err := s.repo.ListByTenant(ctx, tenantID, domain.TemplateFilter{DocumentType: &docType})
	if err != nil {
		log.Warn().Err(err).Msg("templates: listing siblings for cache invalidation failed")
		return
	}
	for _, sib := range siblings {
		if delErr := s.cache.Delete(ctx, tenantID, sib.ID); delErr != nil {
			log.Warn().Err(delErr).Str("template_id", sib.ID.String()).Msg("templates: cache invalidation failed")
		}
	}
}
