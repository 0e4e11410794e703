package response

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Detail string      `json:"detail"`           // Human-readable reason
	Errors interface{} `json:"errors,omitempty"` // Validation or limiter details
}
