package server

import (
	"net/http"

	"go.uber.org/fx"
)

// Module provides the router, the huma API and the lifecycle-managed
// *http.Server. Routes are registered by the caller with fx.Invoke against
// the provided huma.API.
var Module = fx.Module("server",
	fx.Provide(
		NewRouter,
		NewAPI,
		NewHTTPServer,
	),
	fx.Invoke(func(*http.Server) {}),
)
