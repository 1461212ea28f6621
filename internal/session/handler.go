package session

import (
	"encoding/json"
	"mime"
	"net/http"

	"taskbook/config"
	"taskbook/pkg/apperror"
	"taskbook/pkg/logger"
)

type VerifyTokenRequest struct {
	IDToken string `json:"idToken"`
}

type VerifyTokenResponse struct {
	Success  bool   `json:"success"`
	Redirect string `json:"redirect"`
}

type LoginResponse struct {
	Config config.LoginConfig `json:"identity_provider"`
}

type Handler struct {
	Manager      *Manager
	Login        config.LoginConfig
	SecureCookie bool
}

func NewHandler(manager *Manager, login config.LoginConfig, secureCookie bool) *Handler {
	return &Handler{Manager: manager, Login: login, SecureCookie: secureCookie}
}

// LoginPage returns the public identity-provider parameters the browser needs
// to obtain an ID token. Already signed-in users are sent home.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if value := CookieValue(r); value != "" {
		if _, err := h.Manager.Require(r.Context(), value); err == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}

	logger.Sugar.Debugw("Serving login config", "apiKey", maskKey(h.Login.APIKey), "projectId", h.Login.ProjectID)
	apperror.WriteJSON(w, http.StatusOK, LoginResponse{Config: h.Login})
}

func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		apperror.Write(w, apperror.BadRequest("Missing JSON data"))
		return
	}

	var req VerifyTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.Write(w, apperror.BadRequest("Invalid JSON body"))
		return
	}

	value, _, err := h.Manager.Begin(r.Context(), req.IDToken)
	if err != nil {
		apperror.Write(w, err)
		return
	}

	setCookie(w, value, h.Manager.TTL(), h.SecureCookie)
	apperror.WriteJSON(w, http.StatusOK, VerifyTokenResponse{Success: true, Redirect: "/"})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Manager.End(r.Context(), CookieValue(r)); err != nil {
		logger.Sugar.Warnf("Logout: %v", err)
	}
	clearCookie(w, h.SecureCookie)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 10 {
		return "..."
	}
	return key[:10] + "..."
}
