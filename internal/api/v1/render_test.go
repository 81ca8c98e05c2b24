package v1_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/schooldocs/internal/api/v1"
	"github.com/gosuda/schooldocs/internal/domain"
	"github.com/gosuda/schooldocs/internal/render"
)

func TestPreviewTemplate(t *testing.T) {
	t.Parallel()

	renderer := &mockRenderer{
		previewFunc: func(_ context.Context, html, css string) (*render.Preview, error) {
			assert.Equal(t, "h1{}", css)
			return &render.Preview{HTML: "<h1>Aisha Khan</h1>", Variables: []string{"student.name"}}, nil
		},
	}
	_, api := humatest.New(t)
	v1.RegisterRenderRoutes(api, renderer)

	resp := api.PostCtx(staffCtx(uuid.New()), "/templates/preview", map[string]any{
		"html": "<h1>{{student.name}}</h1>",
		"css":  "h1{}",
	})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var body render.Preview
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "<h1>Aisha Khan</h1>", body.HTML)
	assert.Equal(t, []string{"student.name"}, body.Variables)
}

func TestRenderTemplate(t *testing.T) {
	t.Parallel()

	t.Run("stored_template", func(t *testing.T) {
		t.Parallel()

		tid, templateID := uuid.New(), uuid.New()
		renderer := &mockRenderer{
			renderFunc: func(_ context.Context, req render.Request) (*render.Document, error) {
				assert.Equal(t, tid, req.TenantID)
				require.NotNil(t, req.TemplateID)
				assert.Equal(t, templateID, *req.TemplateID)
				assert.Equal(t, "Aisha", req.Data["student"].(map[string]any)["name"])
				return &render.Document{HTML: "<p>Aisha</p>", PDFBase64: "JVBERi0=", Unresolved: []string{}}, nil
			},
		}
		_, api := humatest.New(t)
		v1.RegisterRenderRoutes(api, renderer)

		resp := api.PostCtx(staffCtx(tid), "/templates/render", map[string]any{
			"templateId": templateID.String(),
			"data":       map[string]any{"student": map[string]any{"name": "Aisha"}},
		})

		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		var body map[string]any
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "<p>Aisha</p>", body["html"])
		assert.Equal(t, "JVBERi0=", body["pdf"])
		assert.Equal(t, []any{}, body["unresolvedVariables"])
	})

	t.Run("missing_data_is_bad_request", func(t *testing.T) {
		t.Parallel()

		renderer := &mockRenderer{
			renderFunc: func(_ context.Context, req render.Request) (*render.Document, error) {
				assert.Nil(t, req.Data)
				return nil, fmt.Errorf("render: data is required: %w", domain.ErrBadRequest)
			},
		}
		_, api := humatest.New(t)
		v1.RegisterRenderRoutes(api, renderer)

		resp := api.PostCtx(staffCtx(uuid.New()), "/templates/render", map[string]any{
			"html": "<p>{{x}}</p>",
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("template_not_found", func(t *testing.T) {
		t.Parallel()

		renderer := &mockRenderer{
			renderFunc: func(_ context.Context, _ render.Request) (*render.Document, error) {
				return nil, fmt.Errorf("render: %w", domain.ErrNotFound)
			},
		}
		_, api := humatest.New(t)
		v1.RegisterRenderRoutes(api, renderer)

		resp := api.PostCtx(staffCtx(uuid.New()), "/templates/render", map[string]any{
			"templateId": uuid.New().String(),
			"data":       map[string]any{},
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("rasterizer_failure_is_bad_gateway", func(t *testing.T) {
		t.Parallel()

		renderer := &mockRenderer{
			renderFunc: func(_ context.Context, _ render.Request) (*render.Document, error) {
				return nil, fmt.Errorf("%w: chrome crashed", domain.ErrRender)
			},
		}
		_, api := humatest.New(t)
		v1.RegisterRenderRoutes(api, renderer)

		resp := api.PostCtx(staffCtx(uuid.New()), "/templates/render", map[string]any{
			"html": "<p>x</p>",
			"data": map[string]any{},
		})

		assert.Equal(t, http.StatusBadGateway, resp.Code)
	})

	t.Run("missing_tenant_context", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterRenderRoutes(api, &mockRenderer{})

		resp := api.PostCtx(context.Background(), "/templates/render", map[string]any{
			"html": "<p>x</p>",
			"data": map[string]any{},
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}
