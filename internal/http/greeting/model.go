package greeting

// Greeting is the greeting payload.
type Greeting struct {
	Message string `json:"message" doc:"Greeting message" example:"Hello World 0724"`
}

// GetOutput is the response for GET /.
type GetOutput struct {
	Body Greeting
}
