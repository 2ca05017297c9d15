package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ignite/outreach-crm/internal/importer"
	"github.com/ignite/outreach-crm/internal/message"
	"github.com/ignite/outreach-crm/internal/pkg/logger"
	"github.com/ignite/outreach-crm/internal/service/compliance"
	"github.com/ignite/outreach-crm/internal/service/followup"
	"github.com/ignite/outreach-crm/internal/service/leads"
	"github.com/ignite/outreach-crm/internal/service/outreach"
	"github.com/ignite/outreach-crm/internal/service/targets"
)

// Handlers holds the service dependencies for all HTTP handlers.
type Handlers struct {
	svcs Services
}

// NewHandlers creates the handler set.
func NewHandlers(svcs Services) *Handlers {
	return &Handlers{svcs: svcs}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service-layer errors onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	var cerr *outreach.ComplianceError
	switch {
	case errors.As(err, &cerr):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":    "compliance violation",
			"warnings": cerr.Warnings,
		})
	case errors.Is(err, outreach.ErrNotFound),
		errors.Is(err, targets.ErrNotFound),
		errors.Is(err, leads.ErrNotFound),
		errors.Is(err, followup.ErrNotFound),
		errors.Is(err, compliance.ErrNotFound),
		errors.Is(err, importer.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, outreach.ErrInvalidTransition),
		errors.Is(err, leads.ErrAlreadyResolved):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, outreach.ErrRateLimited):
		respondError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, message.ErrTemplateNotFound),
		errors.Is(err, outreach.ErrNoRecipient):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, leads.ErrReasonRequired):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("request failed", "error", err.Error())
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// HealthCheck reports process liveness and the send budget.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
	}
	if used, err := h.svcs.Quota.UsedToday(r.Context()); err == nil {
		status["sent_today"] = used
		status["daily_limit"] = h.svcs.Quota.Limit()
	}
	respondJSON(w, http.StatusOK, status)
}

// ListTemplates returns the names of the available outreach templates.
func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	names, err := h.svcs.Templates.Names(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"templates": names})
}

// GetQuota reports today's send budget usage.
func (h *Handlers) GetQuota(w http.ResponseWriter, r *http.Request) {
	used, err := h.svcs.Quota.UsedToday(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	remaining, err := h.svcs.Quota.Remaining(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{
		"used":      used,
		"remaining": remaining,
		"limit":     h.svcs.Quota.Limit(),
	})
}
