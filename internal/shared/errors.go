package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a referenced record is absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAuthenticationFailed indicates a missing, malformed or expired token.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrPermissionDenied indicates the caller is authenticated but not allowed.
	ErrPermissionDenied = errors.New("permission denied")
)

// ValidationError carries per-field validation failures back to the client.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Message: msg, Fields: map[string]string{field: msg}}
}

// PermissionError wraps ErrPermissionDenied with a static human-readable message.
func PermissionError(msg string) error {
	return fmt.Errorf("%w: %s", ErrPermissionDenied, msg)
}
