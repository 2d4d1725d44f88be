package server

import (
	"context"
	"net/http"
	"strconv"

	"artiststudio/core/admin"
	"artiststudio/logger"
	"artiststudio/model"
)

// DefaultOverrideLimit is how many audit entries are returned when the
// request does not set limit.
const DefaultOverrideLimit = 100

// OverrideLog reads the override-login audit trail.
type OverrideLog interface {
	ListOverrides(ctx context.Context, limit int) ([]model.OverrideLogin, error)
}

// TrackRequest is the body of admin create and update calls.
type TrackRequest struct {
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Duration    *string `json:"duration"`
	Genre       string  `json:"genre"`
	Description string  `json:"description"`
}

// actor names the administrator behind r for audit logs.
func actor(r *http.Request) string {
	if u, ok := AdminFromContext(r.Context()); ok {
		return u.Email
	}
	return "unauthenticated"
}

func (req TrackRequest) fields() admin.TrackFields {
	return admin.TrackFields{
		Title:       req.Title,
		Artist:      req.Artist,
		Duration:    req.Duration,
		Genre:       req.Genre,
		Description: req.Description,
	}
}

// AdminStatsHandler serves GET /api/admin/stats.
func (h *APIHandler) AdminStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		writeError(w, r, err, false)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// AdminUsersHandler serves GET /api/admin/users.
func (h *APIHandler) AdminUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err, false)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// AdminListTracksHandler serves GET /api/admin/songs.
func (h *APIHandler) AdminListTracksHandler(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.admin.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err, true)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// AdminCreateTrackHandler serves POST /api/admin/songs.
func (h *APIHandler) AdminCreateTrackHandler(w http.ResponseWriter, r *http.Request) {
	var req TrackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, true)
		return
	}

	id, err := h.admin.Create(r.Context(), req.fields())
	if err != nil {
		writeError(w, r, err, true)
		return
	}
	logger.Info("[Admin] track created", logger.Int64("id", id), logger.String("by", actor(r)))
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": id, "message": "track created"})
}

// AdminUpdateTrackHandler serves PUT /api/admin/songs/{id}.
func (h *APIHandler) AdminUpdateTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := trackID(r)
	if err != nil {
		writeError(w, r, err, true)
		return
	}
	var req TrackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, true)
		return
	}

	if err := h.admin.Update(r.Context(), id, req.fields()); err != nil {
		writeError(w, r, err, true)
		return
	}
	logger.Info("[Admin] track updated", logger.Int64("id", id), logger.String("by", actor(r)))
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "track updated"})
}

// AdminDeleteTrackHandler serves DELETE /api/admin/songs/{id}.
func (h *APIHandler) AdminDeleteTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := trackID(r)
	if err != nil {
		writeError(w, r, err, true)
		return
	}
	if err := h.admin.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, true)
		return
	}
	logger.Info("[Admin] track deleted", logger.Int64("id", id), logger.String("by", actor(r)))
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "track deleted"})
}

// AdminOverridesHandler serves GET /api/admin/audit/overrides?limit=.
// Without an audit backend the trail is always empty.
func (h *APIHandler) AdminOverridesHandler(w http.ResponseWriter, r *http.Request) {
	limit := DefaultOverrideLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	entries := []model.OverrideLogin{}
	if h.overrides != nil {
		var err error
		if entries, err = h.overrides.ListOverrides(r.Context(), limit); err != nil {
			writeError(w, r, err, false)
			return
		}
	}
	writeJSON(w, http.StatusOK, entries)
}
