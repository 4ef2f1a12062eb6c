package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of error for handling
type ErrorCategory string

const (
	CategoryInvalidRequest ErrorCategory = "invalid_request"
	CategoryRenderError    ErrorCategory = "render_error"
	CategoryTimeout        ErrorCategory = "timeout"
	CategorySystemError    ErrorCategory = "system_error"
)

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel so callers can use errors.Is
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// WrapValidationError creates a validation error carrying an underlying cause
func WrapValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Category classifies an error for metrics labels and response mapping
func Category(err error) ErrorCategory {
	if IsValidationError(err) {
		return CategoryInvalidRequest
	}
	return CategorySystemError
}
