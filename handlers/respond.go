package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AdamLt-GH/Fit-Logger/internal/engine"
	"github.com/AdamLt-GH/Fit-Logger/middleware"
	"github.com/AdamLt-GH/Fit-Logger/services"
)

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps domain errors onto status codes. Validation
// rejections are the user's to fix (422), state conflicts are 409, not-found
// is 404, and anything unrecognized is a server fault.
func respondWithServiceError(w http.ResponseWriter, err error) {
	if ve, ok := engine.AsValidation(err); ok {
		if ve.Kind != engine.KindInvalidInput {
			middleware.CountProgressRejection(string(ve.Kind))
		}
		respondWithJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error": ve.Message,
			"kind":  ve.Kind,
		})
		return
	}

	var dup *services.DuplicateError
	if errors.As(err, &dup) {
		respondWithJSON(w, http.StatusConflict, dup)
		return
	}

	switch {
	case errors.Is(err, engine.ErrChallengeNotFound),
		errors.Is(err, engine.ErrParticipantNotFound),
		errors.Is(err, engine.ErrExerciseNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrAlreadyParticipating),
		errors.Is(err, engine.ErrNotParticipating),
		errors.Is(err, engine.ErrChallengeNotJoinable),
		errors.Is(err, engine.ErrOwnerCannotLeave):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotCreator):
		respondWithError(w, http.StatusForbidden, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "Server error")
	}
}
