package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"libreria-be/internal/logger"
	"libreria-be/internal/utils"

	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	secure bool
}

// NewHandler builds the auth handler. secure controls the Secure flag on the
// session cookie and should be true outside local development.
func NewHandler(svc Service, secure bool) *Handler {
	return &Handler{svc: svc, secure: secure}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Login is POST /auth/login. On success the token is returned in the body and
// also set as an HttpOnly cookie so browser clients need no token handling.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Email == "" || req.Password == "" {
		utils.WriteJSONError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	token, u, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			utils.WriteJSONError(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		logger.FromCtx(r.Context()).Error("login failed", zap.Error(err))
		utils.WriteJSONError(w, "login failed", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})

	utils.WriteJSON(w, http.StatusOK, loginResponse{
		Token: token,
		Email: u.Email,
		Role:  u.Role,
	})
}

// Logout is POST /auth/logout. It clears the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
