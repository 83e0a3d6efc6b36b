package api

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of an error raised by the request and
// response value objects or by the transport that hosts them.
type ErrorType string

const (
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
	ErrorTypeRuntime         ErrorType = "runtime_error"
	ErrorTypeInvalidRequest  ErrorType = "invalid_request"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeServerError     ErrorType = "server_error"
)

// APIError represents a structured error with type, code, param, and message.
type APIError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponse wraps an APIError for JSON serialization as the top-level error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewInvalidArgumentError creates an APIError for a value outside its
// permitted domain, such as a status code outside [100, 600).
func NewInvalidArgumentError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidArgument,
		Param:   param,
		Message: message,
	}
}

// NewRuntimeError creates an APIError for an operation that cannot proceed
// because of the state of the output, such as sending a response twice.
// Runtime errors are not retryable.
func NewRuntimeError(code, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeRuntime,
		Code:    code,
		Message: message,
	}
}

// NewInvalidRequestError creates an APIError for a malformed inbound request.
func NewInvalidRequestError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Param:   param,
		Message: message,
	}
}

// NewNotFoundError creates an APIError for resources that cannot be found.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewServerError creates an APIError for internal server errors.
func NewServerError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeServerError,
		Message: message,
	}
}

// IsType reports whether err is, or wraps, an APIError of the given type.
func IsType(err error, t ErrorType) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == t
	}
	return false
}

// IsInvalidArgument reports whether err is an invalid_argument error.
func IsInvalidArgument(err error) bool {
	return IsType(err, ErrorTypeInvalidArgument)
}

// IsRuntime reports whether err is a runtime_error.
func IsRuntime(err error) bool {
	return IsType(err, ErrorTypeRuntime)
}
