package api

import (
	"fmt"
	"net/http"
)

// ErrorType represents the category of an API error.
type ErrorType string

const (
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeServerError  ErrorType = "server_error"
	ErrorTypeBadGateway   ErrorType = "bad_gateway"
)

// APIError represents a structured API error with a type and a
// caller-safe message.
type APIError struct {
	Type    ErrorType
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// HTTPStatus maps the error type to an HTTP status code.
func (e *APIError) HTTPStatus() int {
	switch e.Type {
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeBadGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewUnauthorizedError creates an APIError for missing or invalid credentials.
func NewUnauthorizedError(message string) *APIError {
	return &APIError{Type: ErrorTypeUnauthorized, Message: message}
}

// NewForbiddenError creates an APIError for insufficient role or permission.
func NewForbiddenError(message string) *APIError {
	return &APIError{Type: ErrorTypeForbidden, Message: message}
}

// NewServerError creates an APIError for internal server errors.
func NewServerError(message string) *APIError {
	return &APIError{Type: ErrorTypeServerError, Message: message}
}

// NewBadGatewayError creates an APIError for upstream failures.
func NewBadGatewayError(message string) *APIError {
	return &APIError{Type: ErrorTypeBadGateway, Message: message}
}
