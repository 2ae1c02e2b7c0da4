package handlers

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error string `json:"error" example:"no frame processed yet"`
}
