package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"jobtrack-engine/internal/domain"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeDomainError maps the core's deterministic errors onto HTTP codes.
// Everything unmatched is a 500; the core never produces transient failures.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteError(w, r, http.StatusBadRequest, "validation_error", ve.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		WriteError(w, r, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, domain.ErrNoOpTransition):
		WriteError(w, r, http.StatusConflict, "noop_transition", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, "not_found", err.Error())
	default:
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
