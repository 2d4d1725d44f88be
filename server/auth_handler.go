package server

import (
	"net/http"

	"artiststudio/core/account"
	"artiststudio/logger"
	"artiststudio/model"
)

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	User    *model.UserView `json:"user"`
}

// LoginHandler checks credentials. No token is issued; clients re-submit
// credentials on every protected call.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, false)
		return
	}

	user, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, false)
		return
	}

	logger.Info("[Login] login succeeded", logger.Int64("userId", user.ID))
	writeJSON(w, http.StatusOK, LoginResponse{Success: true, Message: "login successful", User: user})
}

// RegisterHandler creates an account.
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, false)
		return
	}

	_, err := h.accounts.Register(r.Context(), account.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, r, err, false)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "account created"})
}
