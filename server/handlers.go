package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"artiststudio/config"
	"artiststudio/core/account"
	"artiststudio/core/admin"
	"artiststudio/core/apperr"
	"artiststudio/core/catalog"
	"artiststudio/logger"

	"github.com/gorilla/mux"
)

const (
	msgInvalidJSON    = "invalid JSON body"
	msgInvalidTrackID = "invalid track id"
)

// APIHandler serves every API route.
type APIHandler struct {
	catalog   *catalog.Service
	accounts  *account.Service
	admin     *admin.Service
	overrides OverrideLog
	cfg       *config.Config
}

// NewAPIHandler creates an APIHandler from deps.
func NewAPIHandler(cfg *config.Config, deps Dependencies) *APIHandler {
	return &APIHandler{
		catalog:   deps.Catalog,
		accounts:  deps.Accounts,
		admin:     deps.Admin,
		overrides: deps.Overrides,
		cfg:       cfg,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", logger.ErrorField(err))
	}
}

// writeError maps err to a status and a {"error": ...} body. Storage causes
// are logged always and returned only when detail is set.
func writeError(w http.ResponseWriter, r *http.Request, err error, detail bool) {
	status := apperr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("requestId", requestIDFrom(r.Context())),
			logger.ErrorField(err))
	}
	writeJSON(w, status, map[string]string{"error": apperr.PublicMessage(err, detail)})
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Debug("Malformed request body", logger.String("path", r.URL.Path), logger.ErrorField(err))
		return apperr.Validation(msgInvalidJSON)
	}
	return nil
}

// trackID parses the {id} path variable.
func trackID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, apperr.Validation(msgInvalidTrackID)
	}
	return id, nil
}

func (h *APIHandler) notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "route not found"})
}

func (h *APIHandler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
