package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"govassess/internal/model"
	"govassess/internal/service"
	"govassess/internal/store"
)

// AssessmentHandler handles the ratings table, the derived views and
// the cycle history.
type AssessmentHandler struct {
	assessmentSvc *service.AssessmentService
}

// NewAssessmentHandler creates a new assessment handler.
func NewAssessmentHandler(assessmentSvc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentSvc: assessmentSvc}
}

// GetTable handles GET /v1/assessment
func (h *AssessmentHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": h.assessmentSvc.Rows()})
}

// PatchRating handles PATCH /v1/assessment/ratings/{code}
func (h *AssessmentHandler) PatchRating(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var patch model.RatingPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rating, err := h.assessmentSvc.UpdateRating(code, patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUnknownCode):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, store.ErrValueOutOfRange),
			errors.Is(err, service.ErrEmptyPatch),
			errors.Is(err, service.ErrMultiFieldPatch):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, rating)
}

// GetSummary handles GET /v1/assessment/summary
func (h *AssessmentHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"domains": h.assessmentSvc.Summary()})
}

// GetTopGaps handles GET /v1/assessment/top-gaps?limit=n
func (h *AssessmentHandler) GetTopGaps(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": h.assessmentSvc.TopGaps(limit)})
}

// ListCycles handles GET /v1/cycles
func (h *AssessmentHandler) ListCycles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"cycles": h.assessmentSvc.History()})
}

// CloseCycle handles POST /v1/cycles: it snapshots the current pass
// into history and reseeds the ratings for the next one.
func (h *AssessmentHandler) CloseCycle(w http.ResponseWriter, r *http.Request) {
	snap := h.assessmentSvc.CloseCycle()
	writeJSON(w, http.StatusCreated, snap)
}
