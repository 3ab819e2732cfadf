package domain

import (
	"errors"
	"fmt"
)

// Core operations fail only for deterministic caller-input reasons; nothing
// here is retryable. The API layer maps these onto HTTP status codes.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrNoOpTransition = errors.New("status unchanged")
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

func Validationf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
