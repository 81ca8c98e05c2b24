package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/gosuda/schooldocs/internal/api/v1"
)

func registerAPIRoutes(api huma.API, deps Deps) {
	v1.RegisterTemplateRoutes(api, deps.Templates, deps.Store)
	v1.RegisterRenderRoutes(api, deps.Renderer)
	v1.RegisterPrintRoutes(api, deps.Store, deps.Templates, deps.Renderer, nil)
}
