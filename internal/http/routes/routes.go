// Package routes registers every operation the service exposes.
package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/greeting-service/internal/http/greeting"
	"github.com/janisto/greeting-service/internal/http/health"
)

// Register wires all HTTP routes into the provided API.
func Register(api huma.API) {
	greeting.Register(api)
	health.Register(api)
}
