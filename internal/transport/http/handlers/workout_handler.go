package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/vedran77/fitlog/internal/config"
	"github.com/vedran77/fitlog/internal/domain"
	"github.com/vedran77/fitlog/internal/service"
	"github.com/vedran77/fitlog/internal/transport/http/middleware"
	"github.com/vedran77/fitlog/pkg/validator"
)

type WorkoutHandler struct {
	workoutService *service.WorkoutService
	denial         config.OwnershipDenial
}

func NewWorkoutHandler(workoutService *service.WorkoutService, denial config.OwnershipDenial) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, denial: denial}
}

func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	records, err := h.workoutService.List(r.Context(), principal)
	if err != nil {
		log.Printf("ERROR list workout records: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	if records == nil {
		records = []domain.WorkoutRecord{}
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *WorkoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid record ID")
		return
	}

	rec, err := h.workoutService.GetByID(r.Context(), principal, id)
	if err != nil {
		h.writeWorkoutError(w, "get workout record", err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	var input service.CreateWorkoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateWorkout(input.Description); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	rec, err := h.workoutService.Create(r.Context(), principal, input)
	if err != nil {
		log.Printf("ERROR create workout record: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/workoutrecords/%d", rec.ID))
	writeJSON(w, http.StatusCreated, rec)
}

func (h *WorkoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid record ID")
		return
	}

	var input service.UpdateWorkoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateWorkout(input.Description); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	if err := h.workoutService.Update(r.Context(), principal, id, input); err != nil {
		h.writeWorkoutError(w, "update workout record", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid record ID")
		return
	}

	if err := h.workoutService.Delete(r.Context(), principal, id); err != nil {
		h.writeWorkoutError(w, "delete workout record", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeWorkoutError maps the tri-state outcome to status codes. Foreign records
// answer 403 or 404 depending on the configured denial policy.
func (h *WorkoutHandler) writeWorkoutError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Workout record not found")
	case errors.Is(err, service.ErrNotRecordOwner):
		if h.denial == config.DenyNotFound {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Workout record not found")
		} else {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Workout record belongs to another user")
		}
	default:
		log.Printf("ERROR %s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}
