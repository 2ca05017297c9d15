package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/pkg/logger"
	"github.com/ignite/outreach-crm/internal/service/outreach"
)

// ListDrafts returns drafts, optionally filtered by a status query parameter.
func (h *Handlers) ListDrafts(w http.ResponseWriter, r *http.Request) {
	status := domain.DraftStatus(r.URL.Query().Get("status"))
	drafts, err := h.svcs.Outreach.ListDrafts(r.Context(), status)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"drafts": drafts})
}

// CreateDraft composes a new outreach draft.
func (h *Handlers) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var input outreach.CreateDraftInput
	if !decodeJSON(w, r, &input) {
		return
	}
	draft, err := h.svcs.Outreach.CreateDraft(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, draft)
}

// GetDraft returns one draft.
func (h *Handlers) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.svcs.Outreach.GetDraft(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, draft)
}

// ApproveDraft records the approver and moves the draft to approved.
func (h *Handlers) ApproveDraft(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ApprovedBy string `json:"approved_by"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.ApprovedBy == "" {
		respondError(w, http.StatusBadRequest, "approved_by required")
		return
	}
	draft, err := h.svcs.Outreach.Approve(r.Context(), chi.URLParam(r, "id"), input.ApprovedBy)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, draft)
}

// QueueDraft parks a draft for batching.
func (h *Handlers) QueueDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.svcs.Outreach.Queue(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, draft)
}

// SendDraft attempts delivery of an approved draft. Delivery failures are
// captured in the returned draft rather than reported as request errors.
// A successful send also registers the standard follow-up reminder.
func (h *Handlers) SendDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.svcs.Outreach.Send(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if draft.Status == domain.DraftSent && draft.SentAt != nil && h.svcs.FollowUps != nil {
		if _, err := h.svcs.FollowUps.SuggestAfterSend(r.Context(), draft.TargetID, *draft.SentAt); err != nil {
			logger.Warn("follow-up suggestion skipped", "draft_id", draft.ID, "error", err.Error())
		}
	}
	respondJSON(w, http.StatusOK, draft)
}

// ListEvents returns a target's outreach history.
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svcs.Outreach.ListEvents(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

// RecordOutcome registers a later response on an outreach event.
func (h *Handlers) RecordOutcome(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Outcome domain.Outcome `json:"outcome"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	if !input.Outcome.Valid() {
		respondError(w, http.StatusBadRequest, "unknown outcome")
		return
	}
	if err := h.svcs.Outreach.RecordOutcome(r.Context(), chi.URLParam(r, "id"), input.Outcome); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}
