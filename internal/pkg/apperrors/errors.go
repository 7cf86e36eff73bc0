package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Entity lookups. Each wraps ErrResourceNotFound so callers can match either.
var (
	ErrCourseNotFound      = fmt.Errorf("course %w", ErrResourceNotFound)
	ErrStudentNotFound     = fmt.Errorf("student %w", ErrResourceNotFound)
	ErrLessonNotFound      = fmt.Errorf("lesson %w", ErrResourceNotFound)
	ErrSubmissionNotFound  = fmt.Errorf("homework submission %w", ErrResourceNotFound)
	ErrCertificateNotFound = fmt.Errorf("certificate %w", ErrResourceNotFound)
)

// Student errors
var (
	ErrEmailAlreadyExists = fmt.Errorf("email already exists: %w", ErrResourceAlreadyExists)
)

// Certificate errors
var (
	// ErrCertificateAlreadyIssued marks a duplicate (student, course) certificate.
	// Services turn it into an informational outcome rather than returning it to users.
	ErrCertificateAlreadyIssued = fmt.Errorf("certificate already issued: %w", ErrConflict)
)

// FieldError is a validation failure on a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed validation.
// It unwraps to ErrValidationFailed.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError from field errors.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// NewFieldError is shorthand for a ValidationError on one field.
func NewFieldError(field, message string) *ValidationError {
	return NewValidationError(FieldError{Field: field, Message: message})
}

// Error implements error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidationFailed.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap implements errors.Unwrap interface
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Add appends a field error and returns the receiver.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// AsValidationError extracts a *ValidationError from err's chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
