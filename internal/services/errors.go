// Package services provides the business logic layer between transports and the
// forecasting engine. Services validate requests, dispatch to forecasters and
// translate engine outcomes into transport-neutral results and errors.
package services

import (
	"fmt"
	"net/http"
)

// Error codes returned by the service layer
const (
	CodeInvalidBody      = "INVALID_BODY"
	CodeMissingFields    = "MISSING_FIELDS"
	CodeMissingParameter = "MISSING_PARAMETER"
	CodeUnknownMethod    = "UNKNOWN_METHOD"
	CodeInvalidType      = "INVALID_TYPE"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInternal         = "INTERNAL"
)

// MessageInternal is the only message a caller ever sees for a 5xx failure
const MessageInternal = "An internal server error occurred."

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"-"` // HTTP status a transport should answer with
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"` // Underlying cause; logged, never returned
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Internal reports whether the error is a server-side failure
func (e *ServiceError) Internal() bool {
	return e.Status >= http.StatusInternalServerError
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string, status int) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, status int, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Status:  status,
		Details: details,
	}
}

// ErrInvalidBody is returned when the request body is not a JSON object.
// It is an internal error: the caller only sees the generic message.
func ErrInvalidBody(cause error) *ServiceError {
	return &ServiceError{Code: CodeInvalidBody, Message: MessageInternal, Status: http.StatusInternalServerError, Err: cause}
}

// ErrMissingFields is returned when data, method or params is absent or empty
func ErrMissingFields() *ServiceError {
	return NewServiceError(CodeMissingFields, "Missing data, method, or parameters", http.StatusBadRequest)
}

// ErrMissingParameter is returned when a method-specific parameter is absent
func ErrMissingParameter(param, label string) *ServiceError {
	return NewServiceErrorWithDetails(CodeMissingParameter,
		fmt.Sprintf("Missing '%s' parameter for %s", param, label),
		http.StatusBadRequest,
		map[string]interface{}{"parameter": param})
}

// ErrUnknownMethod is returned for a method tag with no registered forecaster
func ErrUnknownMethod(method interface{}, available []string) *ServiceError {
	return NewServiceErrorWithDetails(CodeUnknownMethod,
		fmt.Sprintf("Unknown method: %v", method),
		http.StatusBadRequest,
		map[string]interface{}{"available_methods": available})
}

// ErrInvalidType is returned when a value cannot be coerced to the type a method needs.
// It is reported as an internal error and the cause is kept for logs only.
func ErrInvalidType(cause error) *ServiceError {
	return &ServiceError{Code: CodeInvalidType, Message: MessageInternal, Status: http.StatusInternalServerError, Err: cause}
}

// ErrInternal wraps an unexpected failure
func ErrInternal(cause error) *ServiceError {
	return &ServiceError{Code: CodeInternal, Message: MessageInternal, Status: http.StatusInternalServerError, Err: cause}
}

// ErrUnauthorized is returned when a request carries no valid identity
func ErrUnauthorized() *ServiceError {
	return NewServiceError(CodeUnauthorized, "Unauthorized", http.StatusUnauthorized)
}
