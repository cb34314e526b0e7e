package api

// =============================================================================
// Response Types
// =============================================================================

// ErrorResponse is the error response format. Details lists every validation
// message when a body failed validation; Error joins them.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

// MessageResponse confirms a completed delete.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the readiness check response.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
