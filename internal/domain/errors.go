// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when input fails validation.
	// A *ValidationError always unwraps to it unless a more specific cause is set.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or negative.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidCoordinate is returned when a coordinate cannot be parsed as a number.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// ValidationError collects field-level validation failures.
// Fields maps the client-facing field name (e.g. "nombre") to its messages.
type ValidationError struct {
	Fields map[string][]string
	Err    error // optional specific cause, e.g. ErrInvalidID
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string, err error) *ValidationError {
	ve := &ValidationError{Err: err}
	ve.Add(field, message)
	return ve
}

// Add records a message for the given field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Field returns the messages recorded for a field.
func (e *ValidationError) Field(name string) []string {
	if e == nil {
		return nil
	}
	return e.Fields[name]
}

// Error implements the error interface. Fields are listed in sorted order
// so the message is stable.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, strings.Join(e.Fields[name], ", ")))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

// Unwrap exposes ErrValidation and, when set, the more specific cause.
func (e *ValidationError) Unwrap() []error {
	if e.Err != nil && !errors.Is(e.Err, ErrValidation) {
		return []error{ErrValidation, e.Err}
	}
	return []error{ErrValidation}
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
