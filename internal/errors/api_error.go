package errors

import (
	"fmt"
	"net/http"
)

// APIError is an error with an explicit HTTP status and machine code
type APIError struct {
	StatusCode int         `json:"-"`
	ErrorCode  string      `json:"error"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// ValidationError describes one rejected request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates an APIError
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

// NewWithDetails creates an APIError carrying details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message, Details: details}
}

// InvalidRequest is returned for malformed requests
func InvalidRequest(message string) *APIError {
	return New(http.StatusBadRequest, "INVALID_REQUEST", message)
}

// NewValidationErrors reports every rejected field at once
func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", errs)
}

// PayloadTooLarge is returned when an upload exceeds the configured limit
func PayloadTooLarge(limit int64) *APIError {
	return New(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
		fmt.Sprintf("request body exceeds %d bytes", limit))
}
