package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/outreach-crm/internal/domain"
)

// ListLeads returns suggestions, optionally filtered by a status query
// parameter, ordered by score descending.
func (h *Handlers) ListLeads(w http.ResponseWriter, r *http.Request) {
	status := domain.SuggestionStatus(r.URL.Query().Get("status"))
	suggestions, err := h.svcs.Leads.List(r.Context(), status)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

// GenerateLeads scores every unsuggested target and returns the new
// suggestions.
func (h *Handlers) GenerateLeads(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.svcs.Leads.Generate(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"suggestions": suggestions})
}

// GetLead returns one suggestion.
func (h *Handlers) GetLead(w http.ResponseWriter, r *http.Request) {
	suggestion, err := h.svcs.Leads.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, suggestion)
}

// AcceptLead accepts a suggestion, merging its snapshotted contacts.
func (h *Handlers) AcceptLead(w http.ResponseWriter, r *http.Request) {
	suggestion, err := h.svcs.Leads.Accept(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, suggestion)
}

// RejectLead rejects a suggestion with a mandatory reason.
func (h *Handlers) RejectLead(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Reason string `json:"reason"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	suggestion, err := h.svcs.Leads.Reject(r.Context(), chi.URLParam(r, "id"), input.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, suggestion)
}
