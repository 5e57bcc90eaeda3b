package response

// ErrorResponse is the stable failure envelope of every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ValidationErrorResponse carries field-level validation detail.
type ValidationErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

// SessionErrorResponse is a workflow failure correlated with its upload
// session.
type SessionErrorResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
}
