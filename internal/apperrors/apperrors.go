// Package apperrors defines the error taxonomy shared by stores and handlers.
//
// Validation and permission errors are never retried and surface verbatim to
// the client. NotFound maps to 404. Network errors wrap transient backend
// failures; reads may retry them, writes never do.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError means malformed input was caught before any write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PermissionError means the caller lacks the role or membership required for
// the mutation.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string { return e.Message }

func NewPermission(message string) *PermissionError {
	return &PermissionError{Message: message}
}

// NotFoundError means a referenced document does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// NetworkError wraps a transient backend failure.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: backend unavailable: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func NewNetwork(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err}
}

// IsRetryable reports whether the error may be retried. Only transient
// network failures qualify; validation, permission and not-found errors are
// always final.
func IsRetryable(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// HTTPStatus maps a taxonomy error to the response status code.
func HTTPStatus(err error) int {
	var (
		ve *ValidationError
		pe *PermissionError
		nf *NotFoundError
		ne *NetworkError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &pe):
		return http.StatusForbidden
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ne):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
