package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// ListDueFollowUps returns open follow-ups due today or earlier.
func (h *Handlers) ListDueFollowUps(w http.ResponseWriter, r *http.Request) {
	due, err := h.svcs.FollowUps.Due(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"followups": due})
}

// CreateFollowUp registers a reminder for a target.
func (h *Handlers) CreateFollowUp(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TargetID string `json:"target_id"`
		DueDate  string `json:"due_date"` // YYYY-MM-DD
		Reason   string `json:"reason"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	due, err := time.Parse("2006-01-02", input.DueDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
		return
	}
	f, err := h.svcs.FollowUps.Create(r.Context(), input.TargetID, due, input.Reason)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, f)
}

// ListTargetFollowUps returns all follow-ups for one target.
func (h *Handlers) ListTargetFollowUps(w http.ResponseWriter, r *http.Request) {
	list, err := h.svcs.FollowUps.ListByTarget(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"followups": list})
}

// MarkFollowUpDone resolves a follow-up.
func (h *Handlers) MarkFollowUpDone(w http.ResponseWriter, r *http.Request) {
	f, err := h.svcs.FollowUps.MarkDone(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, f)
}
