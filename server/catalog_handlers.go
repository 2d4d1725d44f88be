package server

import (
	"net/http"
)

// HealthHandler reports API status and catalog size.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	health, err := h.catalog.Health(r.Context())
	if err != nil {
		writeError(w, r, err, false)
		return
	}
	writeJSON(w, http.StatusOK, health)
}

// ListTracksHandler serves GET /api/songs?search=.
func (h *APIHandler) ListTracksHandler(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.catalog.ListTracks(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, err, false)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// ListCategoriesHandler serves GET /api/categories.
func (h *APIHandler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err, false)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// RecordPlayHandler serves POST /api/songs/{id}/play.
func (h *APIHandler) RecordPlayHandler(w http.ResponseWriter, r *http.Request) {
	id, err := trackID(r)
	if err == nil {
		err = h.catalog.RecordPlay(r.Context(), id)
	}
	if err != nil {
		writeError(w, r, err, false)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
