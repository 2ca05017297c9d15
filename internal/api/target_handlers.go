package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/service/targets"
)

// ListTargets returns targets, filterable by status, type, and province
// query parameters.
func (h *Handlers) ListTargets(w http.ResponseWriter, r *http.Request) {
	f := targets.Filter{
		Status:   domain.TargetStatus(r.URL.Query().Get("status")),
		Type:     domain.TargetType(r.URL.Query().Get("type")),
		Province: r.URL.Query().Get("province"),
	}
	list, err := h.svcs.Targets.ListTargets(r.Context(), f)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"targets": list})
}

// CreateTarget registers a new target.
func (h *Handlers) CreateTarget(w http.ResponseWriter, r *http.Request) {
	var input targets.CreateTargetInput
	if !decodeJSON(w, r, &input) {
		return
	}
	target, err := h.svcs.Targets.CreateTarget(r.Context(), input)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, target)
}

// GetTarget returns one target.
func (h *Handlers) GetTarget(w http.ResponseWriter, r *http.Request) {
	target, err := h.svcs.Targets.GetTarget(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, target)
}

// DeleteTarget removes a target and its contacts.
func (h *Handlers) DeleteTarget(w http.ResponseWriter, r *http.Request) {
	if err := h.svcs.Targets.DeleteTarget(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateTargetStatus moves a target to a new pipeline stage.
func (h *Handlers) UpdateTargetStatus(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Status domain.TargetStatus `json:"status"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	target, err := h.svcs.Targets.UpdateStatus(r.Context(), chi.URLParam(r, "id"), input.Status)
	if err != nil {
		if input.Status.Valid() {
			respondServiceError(w, err)
		} else {
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusOK, target)
}

// SetTargetDnc flips a target's do-not-contact flag.
func (h *Handlers) SetTargetDnc(w http.ResponseWriter, r *http.Request) {
	var input struct {
		DoNotContact bool `json:"do_not_contact"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	target, err := h.svcs.Targets.SetDoNotContact(r.Context(), chi.URLParam(r, "id"), input.DoNotContact)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, target)
}

// ListContacts returns a target's contacts.
func (h *Handlers) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.svcs.Targets.ListContacts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"contacts": contacts})
}

// AddContact attaches a person to a target.
func (h *Handlers) AddContact(w http.ResponseWriter, r *http.Request) {
	var input targets.AddContactInput
	if !decodeJSON(w, r, &input) {
		return
	}
	contact, err := h.svcs.Targets.AddContact(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		if input.FullName == "" {
			respondError(w, http.StatusBadRequest, err.Error())
		} else {
			respondServiceError(w, err)
		}
		return
	}
	respondJSON(w, http.StatusCreated, contact)
}

// SetContactDnc flips a contact's do-not-contact flag.
func (h *Handlers) SetContactDnc(w http.ResponseWriter, r *http.Request) {
	var input struct {
		DoNotContact bool `json:"do_not_contact"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	contact, err := h.svcs.Targets.SetContactDoNotContact(r.Context(), chi.URLParam(r, "id"), input.DoNotContact)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, contact)
}
