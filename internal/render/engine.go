// Package render turns templates and data into standalone HTML documents and
// A4 PDFs.
package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/schooldocs/internal/domain"
	"github.com/gosuda/schooldocs/internal/variables"
)

// TemplateLoader loads a template by id. Inactive templates are returned so
// that historical documents stay renderable.
type TemplateLoader interface {
	Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.Template, error)
}

// Rasterizer prints a composed HTML document to PDF.
type Rasterizer interface {
	Rasterize(ctx context.Context, html string) ([]byte, error)
}

// Request is a single render call. Exactly one of TemplateID and HTML is used;
// TemplateID wins when both are set.
type Request struct {
	TenantID   uuid.UUID
	TemplateID *uuid.UUID
	HTML       string
	CSS        string
	Data       variables.Data
}

// Document is the output of Render.
type Document struct {
	HTML       string   `json:"html"`
	PDFBase64  string   `json:"pdf"`
	Unresolved []string `json:"unresolvedVariables"`
}

// Preview is the output of Engine.Preview.
type Preview struct {
	HTML      string   `json:"html"`
	Variables []string `json:"variables"`
}

type Engine struct {
	templates TemplateLoader
	raster    Rasterizer
}

func NewEngine(templates TemplateLoader, raster Rasterizer) *Engine {
	return &Engine{templates: templates, raster: raster}
}

// Preview fills html with SampleData and composes it with css. Variables are
// extracted from the original html.
func (e *Engine) Preview(_ context.Context, html, css string) (*Preview, error) {
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("render.Preview: html is required: %w", domain.ErrBadRequest)
	}

	return &Preview{
		HTML:      Compose(variables.Resolve(html, SampleData()), css),
		Variables: variables.Extract(html),
	}, nil
}

// Render substitutes req.Data into the template and rasterizes the result.
// Data is required; a nil map is rejected before anything is loaded.
func (e *Engine) Render(ctx context.Context, req Request) (*Document, error) {
	if req.Data == nil {
		return nil, fmt.Errorf("render.Render: data is required: %w", domain.ErrBadRequest)
	}

	html, css := req.HTML, req.CSS
	if req.TemplateID != nil {
		t, err := e.templates.Get(ctx, req.TenantID, *req.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("render.Render: %w", err)
		}
		html, css = t.HTMLBody, t.CSSBody
	}
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("render.Render: html or template id is required: %w", domain.ErrBadRequest)
	}

	return e.compile(ctx, html, css, req.Data)
}

// RenderTemplate renders an already loaded template.
func (e *Engine) RenderTemplate(ctx context.Context, t *domain.Template, data variables.Data) (*Document, error) {
	if data == nil {
		return nil, fmt.Errorf("render.RenderTemplate: data is required: %w", domain.ErrBadRequest)
	}
	return e.compile(ctx, t.HTMLBody, t.CSSBody, data)
}

func (e *Engine) compile(ctx context.Context, html, css string, data variables.Data) (*Document, error) {
	body, unresolved := variables.Compile(html, data)
	doc := Compose(body, css)

	start := time.Now()
	pdf, err := e.raster.Rasterize(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("render.Render: %w", err)
	}

	log.Debug().
		Int("pdf_bytes", len(pdf)).
		Int("unresolved", len(unresolved)).
		Dur("duration", time.Since(start)).
		Msg("render: document rasterized")

	return &Document{
		HTML:       body,
		PDFBase64:  base64.StdEncoding.EncodeToString(pdf),
		Unresolved: unresolved,
	}, nil
}
