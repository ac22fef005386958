package httpx

import (
	"errors"
	"net/http"

	"github.com/fleetdesk/fleetdesk/internal/authz"
	"github.com/fleetdesk/fleetdesk/internal/shared"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var denied *authz.DeniedError
	if errors.As(err, &denied) {
		RespondDecision(w, denied.Decision)
		return
	}
	switch {
	case errors.Is(err, ErrNotFound) || errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate) || errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// RespondDecision writes an authorization deny as a problem response.
// Allowed decisions must never reach this function.
func RespondDecision(w http.ResponseWriter, d authz.Decision) {
	switch d.Kind {
	case authz.KindNotFound:
		Problem(w, http.StatusNotFound, "Not Found", d.Message)
	case authz.KindBadRequest:
		Problem(w, http.StatusBadRequest, "Bad Request", d.Message)
	default:
		Problem(w, http.StatusForbidden, "Forbidden", d.Message)
	}
}
