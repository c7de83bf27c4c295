package handler

import (
	"errors"
	"net/http"

	admindomain "ration-shop-go/internal/domain/admin"
	"ration-shop-go/internal/transport/httpserver/middleware"
)

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// AdminLogin exchanges credentials for a bearer token.
func (h *Handlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	token, err := h.Admins.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, admindomain.ErrInvalidCredentials) {
			h.log.BusinessError("admin.login: invalid credentials", err, "username", req.Username)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
			return
		}
		h.log.InternalError("admin.login: login failed", err, "username", req.Username)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// AdminChangePassword rotates the logged-in admin's password.
func (h *Handlers) AdminChangePassword(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.AdminFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "current password and a new password of at least 8 characters are required")
		return
	}

	if err := h.Admins.ChangePassword(r.Context(), username, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, admindomain.ErrInvalidCredentials):
			h.log.BusinessError("admin.change_password: wrong current password", err, "username", username)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "current password is wrong")
		case errors.Is(err, admindomain.ErrAdminNotFound):
			h.log.BusinessError("admin.change_password: admin not found", err, "username", username)
			writeError(w, http.StatusNotFound, "admin_not_found", "admin not found")
		default:
			h.log.InternalError("admin.change_password: update failed", err, "username", username)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}
