package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/schooldocs/internal/render"
)

type PreviewTemplateInput struct {
	Body struct {
		HTML string `json:"html" doc:"Template HTML"`
		CSS  string `json:"css,omitempty" doc:"Template CSS"`
	}
}

type PreviewTemplateOutput struct {
	Body *render.Preview
}

type RenderTemplateInput struct {
	Body struct {
		TemplateID *uuid.UUID     `json:"templateId,omitempty" doc:"Stored template to render"`
		HTML       string         `json:"html,omitempty" doc:"Raw HTML, used when templateId is absent"`
		CSS        string         `json:"css,omitempty" doc:"Raw CSS, used with html"`
		Data       map[string]any `json:"data,omitempty" doc:"Values substituted into {{path}} placeholders"`
	}
}

type DocumentOutput struct {
	Body *render.Document
}

func RegisterRenderRoutes(api huma.API, renderer Renderer) {
	huma.Register(api, huma.Operation{
		OperationID: "preview-template",
		Method:      http.MethodPost,
		Path:        "/templates/preview",
		Summary:     "Preview HTML with built-in sample data",
		Tags:        []string{"Rendering"},
	}, func(ctx context.Context, input *PreviewTemplateInput) (*PreviewTemplateOutput, error) {
		if _, err := callerFrom(ctx); err != nil {
			return nil, err
		}

		p, err := renderer.Preview(ctx, input.Body.HTML, input.Body.CSS)
		if err != nil {
			return nil, httpError(err, "preview")
		}

		return &PreviewTemplateOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "render-template",
		Method:      http.MethodPost,
		Path:        "/templates/render",
		Summary:     "Render a template or raw HTML to PDF",
		Tags:        []string{"Rendering"},
	}, func(ctx context.Context, input *RenderTemplateInput) (*DocumentOutput, error) {
		c, err := callerFrom(ctx)
		if err != nil {
			return nil, err
		}

		doc, err := renderer.Render(ctx, render.Request{
			TenantID:   c.TenantID,
			TemplateID: input.Body.TemplateID,
			HTML:       input.Body.HTML,
			CSS:        input.Body.CSS,
			Data:       input.Body.Data,
		})
		if err != nil {
			return nil, httpError(err, "template")
		}

		return &DocumentOutput{Body: doc}, nil
	})
}
