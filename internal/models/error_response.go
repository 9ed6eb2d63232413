package models

// ErrorResponse carries an HTTP status code and a message to the client.
type ErrorResponse struct {
	StatusCode    int    `json:"-"`
	Message       string `json:"reason"`
	Details       string `json:"details,omitempty"`
	QuotaExceeded bool   `json:"quotaExceeded,omitempty"`
}

// NewErrorResponse creates an error with a status code and a message.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message}
}

// WithDetails attaches the underlying cause shown to the client.
func (e *ErrorResponse) WithDetails(details string) *ErrorResponse {
	e.Details = details
	return e
}

// Error implements the error interface.
func (e *ErrorResponse) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}
