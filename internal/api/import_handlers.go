package api

import (
	"io"
	"net/http"
	"strings"
)

// ImportMunicipalities ingests a municipality CSV from the request body.
// Accepts either a raw CSV body or a multipart upload under the "file" field.
func (h *Handlers) ImportMunicipalities(w http.ResponseWriter, r *http.Request) {
	body, cleanup, ok := csvBody(w, r)
	if !ok {
		return
	}
	defer cleanup()

	log, err := h.svcs.Importer.ImportMunicipalities(r.Context(), body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, log)
}

// ImportContacts ingests a contact CSV from the request body.
func (h *Handlers) ImportContacts(w http.ResponseWriter, r *http.Request) {
	body, cleanup, ok := csvBody(w, r)
	if !ok {
		return
	}
	defer cleanup()

	log, err := h.svcs.Importer.ImportContacts(r.Context(), body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, log)
}

// ExportTargets streams the target list as CSV.
func (h *Handlers) ExportTargets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="targets.csv"`)
	if err := h.svcs.Importer.ExportTargets(r.Context(), w); err != nil {
		// Headers are already out; the truncated body signals the failure.
		respondServiceError(w, err)
	}
}

// csvBody resolves the CSV payload from either a multipart "file" field or
// the raw request body.
func csvBody(w http.ResponseWriter, r *http.Request) (io.Reader, func(), bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			respondError(w, http.StatusBadRequest, "missing file field")
			return nil, nil, false
		}
		return file, func() { file.Close() }, true
	}
	return r.Body, func() {}, true
}
