// Package health serves the liveness endpoint. A running process always
// reports healthy; no dependencies are checked.
package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// StatusHealthy is the only status the endpoint reports.
const StatusHealthy = "healthy"

// Path is where the liveness endpoint is mounted.
const Path = "/health"

// Register wires the health route into the provided API.
func Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        Path,
		Summary:     "Liveness check",
		Tags:        []string{"Health"},
	}, getHandler)
}

func getHandler(context.Context, *struct{}) (*GetOutput, error) {
	return &GetOutput{Body: Status{Status: StatusHealthy}}, nil
}
