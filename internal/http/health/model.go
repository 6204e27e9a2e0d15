package health

// Status is the liveness payload.
type Status struct {
	Status string `json:"status" doc:"Service status" example:"healthy" enum:"healthy"`
}

// GetOutput is the response for GET /health.
type GetOutput struct {
	Body Status
}
