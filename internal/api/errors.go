package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/pharmacy-api/internal/api/shared"
	"github.com/phrazzld/pharmacy-api/internal/domain"
	"github.com/phrazzld/pharmacy-api/internal/platform/logger"
	"github.com/phrazzld/pharmacy-api/internal/service"
	"github.com/phrazzld/pharmacy-api/internal/store"
)

// errInvalidRequestBody marks a body that could not be decoded at all.
var errInvalidRequestBody = errors.New("invalid request body")

// MissingParameterError reports that only one half of a parameter pair was
// supplied, e.g. lat without lon.
type MissingParameterError struct {
	Missing string
	Given   string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("the %s parameter is required when %s is given", e.Missing, e.Given)
}

// MapErrorToStatusCode maps internal errors to HTTP status codes.
// Validation failures are 422; every other failure, not-found included, is 400.
func MapErrorToStatusCode(err error) int {
	switch {
	case domain.IsValidationError(err), errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var missing *MissingParameterError
	switch {
	case errors.As(err, &missing):
		return missing.Error()

	case domain.IsValidationError(err), errors.Is(err, domain.ErrValidation):
		return "Validation error"

	case errors.Is(err, service.ErrPharmacyNotFound), store.IsNotFoundError(err):
		return "Pharmacy not found"

	case store.IsDuplicateError(err):
		return "Pharmacy already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, errInvalidRequestBody):
		return "Invalid request format"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the response for err. Validation errors produce the
// field map; everything else produces a sanitized message. fallbackMsg, when
// set, replaces the generic message for errors with no specific mapping.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		shared.RespondWithValidationError(w, r, GetSafeErrorMessage(err), ve.Fields)
		return
	}

	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if fallbackMsg != "" && message == GetSafeErrorMessage(nil) {
		message = fallbackMsg
	}

	if err == nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Warn("HandleAPIError called with nil error")
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
