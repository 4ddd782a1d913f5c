package handlers

import (
	"coffeemap-service/internal/api/dto"
	"coffeemap-service/internal/auth"
	"coffeemap-service/internal/platform/obs"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type AuthHandler struct {
	Auth *auth.Manager
	// Secure marks the session cookie Secure (production).
	Secure bool
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "Password is required")
		return
	}

	token, expires, err := h.Auth.Login(req.Password)
	if errors.Is(err, auth.ErrInvalidPassword) {
		writeError(w, r, http.StatusUnauthorized, "Invalid password")
		return
	}
	if err != nil {
		internalError(w, r, "login failed", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(auth.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, r, http.StatusOK, dto.MessageResponse{Success: true, Message: "Login successful"})
}

func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if !Authenticated(r, h.Auth) {
		writeError(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.AuthCheckResponse{Authenticated: true, Message: "User is authenticated"})
}

// Logout revokes the current session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(auth.CookieName); err == nil {
		if err := h.Auth.Revoke(r.Context(), c.Value); err != nil {
			obs.FromContext(r.Context()).Warn("revoke session failed", zap.Error(err))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, r, http.StatusOK, dto.MessageResponse{Success: true, Message: "Logout successful"})
}

// Authenticated reports whether r carries a valid dashboard session.
func Authenticated(r *http.Request, m *auth.Manager) bool {
	c, err := r.Cookie(auth.CookieName)
	if err != nil {
		return false
	}
	_, err = m.Verify(r.Context(), c.Value)
	return err == nil
}
