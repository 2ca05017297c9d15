package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// ListDnc returns the global do-not-contact list, newest first.
func (h *Handlers) ListDnc(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svcs.Compliance.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// AddDnc puts a value on the global do-not-contact list.
func (h *Handlers) AddDnc(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Value  string `json:"value"`
		Reason string `json:"reason"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.Value == "" {
		respondError(w, http.StatusBadRequest, "value required")
		return
	}
	if err := h.svcs.Compliance.Block(r.Context(), input.Value, input.Reason); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"value": input.Value})
}

// RemoveDnc takes a value off the global do-not-contact list.
func (h *Handlers) RemoveDnc(w http.ResponseWriter, r *http.Request) {
	value, err := url.PathUnescape(chi.URLParam(r, "value"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid value")
		return
	}
	if err := h.svcs.Compliance.Unblock(r.Context(), value); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
