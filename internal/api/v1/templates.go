package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/schooldocs/internal/domain"
	"github.com/gosuda/schooldocs/internal/templates"
)

type CreateTemplateInput struct {
	Body struct {
		DocumentType domain.DocumentType `json:"documentType" enum:"FEE_RECEIPT,ADMIT_CARD,RESULT_CARD,NOTICE,CERTIFICATE" doc:"Document type"`
		Name         string              `json:"name" minLength:"1" maxLength:"255" doc:"Template name"`
		HTML         string              `json:"html" doc:"Template HTML with {{path}} placeholders"`
		CSS          string              `json:"css,omitempty" doc:"Template CSS"`
		IsDefault    bool                `json:"isDefault,omitempty" doc:"Make this the default for its document type"`
	}
}

type TemplateOutput struct {
	Body *domain.Template
}

type ListTemplatesInput struct {
	DocumentType string `query:"document_type" doc:"Filter by document type (FEE_RECEIPT, ADMIT_CARD, RESULT_CARD, NOTICE, CERTIFICATE)"`
}

type ListTemplatesOutput struct {
	Body []*domain.Template
}

type TemplateIDInput struct {
	ID uuid.UUID `path:"id" doc:"Template ID"`
}

type UpdateTemplateInput struct {
	ID   uuid.UUID `path:"id" doc:"Template ID"`
	Body struct {
		Name      string `json:"name" minLength:"1" maxLength:"255" doc:"Template name"`
		HTML      string `json:"html" doc:"Template HTML"`
		CSS       string `json:"css,omitempty" doc:"Template CSS"`
		IsDefault bool   `json:"isDefault,omitempty" doc:"Make this the default; false leaves the current flag unchanged"`
	}
}

type TemplateHistoryOutput struct {
	Body []*domain.AuditEntry
}

func RegisterTemplateRoutes(api huma.API, svc TemplateService, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-template",
		Method:      http.MethodPost,
		Path:        "/templates",
		Summary:     "Create a document template",
		Tags:        []string{"Templates"},
	}, func(ctx context.Context, input *CreateTemplateInput) (*TemplateOutput, error) {
		c, err := adminFrom(ctx)
		if err != nil {
			return nil, err
		}

		t, err := svc.Create(ctx, templates.CreateParams{
			TenantID:     c.TenantID,
			DocumentType: input.Body.DocumentType,
			Name:         input.Body.Name,
			HTML:         input.Body.HTML,
			CSS:          input.Body.CSS,
			IsDefault:    input.Body.IsDefault,
			ActorID:      c.UserID,
		})
		if err != nil {
			return nil, httpError(err, "template")
		}

		return &TemplateOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-templates",
		Method:      http.MethodGet,
		Path:        "/templates",
		Summary:     "List active templates, default first",
		Tags:        []string{"Templates"},
	}, func(ctx context.Context, input *ListTemplatesInput) (*ListTemplatesOutput, error) {
		c, err := callerFrom(ctx)
		if err != nil {
			return nil, err
		}

		var docType *domain.DocumentType
		if input.DocumentType != "" {
			dt := domain.DocumentType(input.DocumentType)
			docType = &dt
		}

		list, err := svc.List(ctx, c.TenantID, docType)
		if err != nil {
			return nil, httpError(err, "templates")
		}
		if list == nil {
			list = []*domain.Template{}
		}

		return &ListTemplatesOutput{Body: list}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-template",
		Method:      http.MethodGet,
		Path:        "/templates/{id}",
		Summary:     "Get a template by ID, including deleted ones",
		Tags:        []string{"Templates"},
	}, func(ctx context.Context, input *TemplateIDInput) (*TemplateOutput, error) {
		c, err := callerFrom(ctx)
		if err != nil {
			return nil, err
		}

		t, err := svc.Get(ctx, c.TenantID, input.ID)
		if err != nil {
			return nil, httpError(err, "template")
		}

		return &TemplateOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-template",
		Method:      http.MethodPut,
		Path:        "/templates/{id}",
		Summary:     "Replace a template's content and bump its version",
		Tags:        []string{"Templates"},
	}, func(ctx context.Context, input *UpdateTemplateInput) (*TemplateOutput, error) {
		c, err := adminFrom(ctx)
		if err != nil {
			return nil, err
		}

		t, err := svc.Update(ctx, c.TenantID, input.ID, templates.UpdateParams{
			Name:      input.Body.Name,
			HTML:      input.Body.HTML,
			CSS:       input.Body.CSS,
			IsDefault: input.Body.IsDefault,
			ActorID:   c.UserID,
		})
		if err != nil {
			return nil, httpError(err, "template")
		}

		return &TemplateOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-default-template",
		Method:      http.MethodPost,
		Path:        "/templates/{id}/set-default",
		Summary:     "Make a template the default for its document type",
		Tags:        []string{"Templates"},
	}, func(ctx context.Context, input *TemplateIDInput) (*TemplateOutput, error) {
		c, err := adminFrom(ctx)
		if err != nil {
			return nil, err
		}

		if err := svc.SetDefault(ctx, c.TenantID, input.ID, c.UserID); err != nil {
			return nil, httpError(err, "template")
		}

		t, err := svc.Get(ctx, c.TenantID, input.ID)
		if err != nil {
			return nil, httpError(err, "template")
		}

		return &TemplateOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-template",
		Method:      http.MethodDelete,
		Path:        "/templates/{id}",
		Summary:     "Soft-delete a template",
		Tags:        []string{"Templates"},
	}, func(ctx context.Context, input *TemplateIDInput) (*struct{}, error) {
		c, err := adminFrom(ctx)
		if err != nil {
			return nil, err
		}

		if err := svc.SoftDelete(ctx, c.TenantID, input.ID, c.UserID); err != nil {
			return nil, httpError(err, "template")
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "template-history",
		Method:      http.MethodGet,
		Path:        "/templates/{id}/history",
		Summary:     "List the audit trail of a template",
		Tags:        []string{"Templates"},
	}, func(ctx context.Context, input *TemplateIDInput) (*TemplateHistoryOutput, error) {
		c, err := adminFrom(ctx)
		if err != nil {
			return nil, err
		}

		entries, err := store.Audit().ListByResource(ctx, c.TenantID, "template", input.ID)
		if err != nil {
			return nil, httpError(err, "template history")
		}
		if entries == nil {
			entries = []*domain.AuditEntry{}
		}

		return &TemplateHistoryOutput{Body: entries}, nil
	})
}
