package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
)

const apiTitle = "Greeting Service"

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string
}

// jsonFormats restricts operation responses to JSON whatever the client
// sends in Accept. The "json" key serves +json suffixed types such as
// application/problem+json.
var jsonFormats = map[string]huma.Format{
	"application/json": huma.DefaultJSONFormat,
	"json":             huma.DefaultJSONFormat,
}

// NewAPI mounts a huma API on router. Operation responses are always JSON;
// the OpenAPI document is served under /openapi and the docs UI at /docs.
func NewAPI(router *chi.Mux, info BuildInfo) huma.API {
	cfg := huma.DefaultConfig(apiTitle, info.Version)
	cfg.DocsPath = docsPath
	cfg.OpenAPIPath = openAPIPath
	cfg.Formats = jsonFormats
	cfg.DefaultFormat = "application/json"
	// Bodies carry only their documented fields: no $schema links.
	cfg.CreateHooks = nil

	return humachi.New(router, cfg)
}
