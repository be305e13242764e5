package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/pharmacy-api/internal/domain"
	"github.com/phrazzld/pharmacy-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is().
var (
	// ErrPharmacyNotFound indicates that the requested pharmacy does not exist.
	// The API layer folds it into HTTP 400 along with other non-validation errors.
	ErrPharmacyNotFound = errors.New("pharmacy not found")
)

// PharmacyServiceError wraps errors from the pharmacy service with context.
type PharmacyServiceError struct {
	// Operation is the operation that failed (e.g., "store", "get_nearest")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for PharmacyServiceError.
func (e *PharmacyServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pharmacy service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("pharmacy service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *PharmacyServiceError) Unwrap() error {
	return e.Err
}

// NewPharmacyServiceError creates a new PharmacyServiceError.
// Known sentinel errors and validation errors are returned directly without wrapping.
func NewPharmacyServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrPharmacyNotFound) || store.IsNotFoundError(err) {
		return ErrPharmacyNotFound
	}

	if domain.IsValidationError(err) {
		return err
	}

	return &PharmacyServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
