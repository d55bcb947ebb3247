package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"go.uber.org/zap"
)

// envelope is the shared response shape: {success:true, ...payload} on
// success, {success:false, message} on failure.
type envelope map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondSuccess merges the payload into a success envelope.
func respondSuccess(w http.ResponseWriter, status int, payload envelope) {
	body := envelope{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// statusForError maps domain errors onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrFavoriteLimit),
		errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the failure envelope. Unexpected errors are
// logged and hidden behind a generic message.
func respondError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("Unexpected error handling request", zap.Error(err))
		message = "internal server error"
	}
	writeJSON(w, status, envelope{"success": false, "message": message})
}

// respondValidation reports a client-side input problem.
func respondValidation(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, envelope{"success": false, "message": message})
}
