package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/AdamLt-GH/Fit-Logger/internal/types/exercise"
	"github.com/AdamLt-GH/Fit-Logger/middleware"
	"github.com/AdamLt-GH/Fit-Logger/services"
)

// ExerciseHandler serves the exercise catalog. Reads are open to any
// authenticated user; catalog mutations need the admin claim.
type ExerciseHandler struct {
	exerciseService *services.ExerciseService
}

func NewExerciseHandler(exerciseService *services.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseService: exerciseService,
	}
}

func (h *ExerciseHandler) ListExercises(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.exerciseService.List(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondWithJSON(w, http.StatusOK, list)
}

func (h *ExerciseHandler) GetExercise(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := strconv.ParseInt(mux.Vars(r)["exerciseID"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid exercise ID")
		return
	}

	ex, err := h.exerciseService.Get(ctx, id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ex)
}

func (h *ExerciseHandler) CreateExercise(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !middleware.IsAdmin(ctx) {
		respondWithError(w, http.StatusForbidden, "Admin access required")
		return
	}

	var req exercise.UpsertExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ex, err := h.exerciseService.Create(ctx, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, ex)
}

func (h *ExerciseHandler) UpdateExercise(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !middleware.IsAdmin(ctx) {
		respondWithError(w, http.StatusForbidden, "Admin access required")
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["exerciseID"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid exercise ID")
		return
	}

	var req exercise.UpsertExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ex, err := h.exerciseService.Update(ctx, id, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ex)
}

func (h *ExerciseHandler) DeleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !middleware.IsAdmin(ctx) {
		respondWithError(w, http.StatusForbidden, "Admin access required")
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["exerciseID"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid exercise ID")
		return
	}

	if err := h.exerciseService.Delete(ctx, id); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "exercise deleted"})
}
