// Package server assembles the HTTP stack: the chi router and its middleware
// chain, the huma API, and the *http.Server whose lifetime is bound to the fx
// application.
package server

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	applog "github.com/janisto/greeting-service/internal/platform/logging"
	appmiddleware "github.com/janisto/greeting-service/internal/platform/middleware"
	"github.com/janisto/greeting-service/internal/platform/respond"
)

const (
	docsPath    = "/docs"
	openAPIPath = "/openapi"

	maxRequestBodyBytes = 1 << 20 // 1 MB
)

// NewRouter returns a chi router carrying the service middleware chain, with
// problem-detail responses for unmatched paths and methods.
func NewRouter() *chi.Mux {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security(docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP trusts X-Real-IP and X-Forwarded-For. Deploy behind a proxy
		// that overwrites them.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(maxRequestBodyBytes),
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
		// Answer HEAD on every GET route.
		chimiddleware.GetHead,
	)
	return router
}
