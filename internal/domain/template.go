package domain

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocumentTypeFeeReceipt  DocumentType = "FEE_RECEIPT"
	DocumentTypeAdmitCard   DocumentType = "ADMIT_CARD"
	DocumentTypeResultCard  DocumentType = "RESULT_CARD"
	DocumentTypeNotice      DocumentType = "NOTICE"
	DocumentTypeCertificate DocumentType = "CERTIFICATE"
)

// ValidDocumentTypes is the canonical set of document types.
var ValidDocumentTypes = []DocumentType{ //nolint:gochecknoglobals // canonical enum list
	DocumentTypeFeeReceipt,
	DocumentTypeAdmitCard,
	DocumentTypeResultCard,
	DocumentTypeNotice,
	DocumentTypeCertificate,
}

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	return slices.Contains(ValidDocumentTypes, t)
}

type Template struct {
	ID                 uuid.UUID    `json:"id"`
	TenantID           uuid.UUID    `json:"tenantId"`
	DocumentType       DocumentType `json:"documentType"`
	Name               string       `json:"name"`
	HTMLBody           string       `json:"htmlBody"`
	CSSBody            string       `json:"cssBody"`
	ExtractedVariables []string     `json:"extractedVariables"`
	IsDefault          bool         `json:"isDefault"`
	Version            int          `json:"version"` // monotonic per template identity
	CreatedBy          uuid.UUID    `json:"createdBy"`
	UpdatedBy          uuid.UUID    `json:"updatedBy"`
	Active             bool         `json:"active"` // false once soft-deleted
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// TemplateFilter narrows ListByTenant. A nil DocumentType lists every type.
type TemplateFilter struct {
	DocumentType *DocumentType
}

// TemplateRepository persists templates. Implementations must keep at most one
// active default per (tenant, document type): Create and Update with IsDefault
// set, and SetDefault, clear the flag on siblings in the same transaction.
// Create assigns the highest version ever used for the (tenant, document type)
// plus one, atomically with the insert; Update increments the stored version
// by one. Both write the new version back into t.Version.
type TemplateRepository interface {
	Create(ctx context.Context, t *Template) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Template, error)
	GetDefault(ctx context.Context, tenantID uuid.UUID, docType DocumentType) (*Template, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, filter TemplateFilter) ([]*Template, error)
	Update(ctx context.Context, t *Template) error
	SetDefault(ctx context.Context, tenantID, id, actorID uuid.UUID) error
	SoftDelete(ctx context.Context, tenantID, id, actorID uuid.UUID) error
}
