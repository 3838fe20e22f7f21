// Package handler exposes the session endpoints: login, logout, and the
// check-auth probe the frontend polls on page load.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gatepass/internal/auth/models"
	"gatepass/internal/auth/service"
	"gatepass/internal/platform/middleware"
	"gatepass/pkg/platform/httputil"
)

// Service is the slice of the auth service the handler needs.
type Service interface {
	Login(ctx context.Context, username, password, userAgentHeader string) (*service.LoginResult, error)
	Logout(ctx context.Context, token string)
	Validate(ctx context.Context, token string) (*middleware.Principal, error)
}

type Handler struct {
	service      Service
	logger       *slog.Logger
	cookieSecure bool
}

func NewHandler(svc Service, logger *slog.Logger, cookieSecure bool) *Handler {
	return &Handler{service: svc, logger: logger, cookieSecure: cookieSecure}
}

// Register mounts the session routes. These stay outside the auth gate:
// login creates sessions and check-auth must answer for anonymous clients.
func (h *Handler) Register(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/check-auth", h.checkAuth)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userPayload struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[loginRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password, r.UserAgent())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(result.TTL / time.Second),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    userPayload{Username: result.Username, Role: result.Role},
	})
}

// logout always answers success: an expired or missing cookie means there is
// nothing left to invalidate.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		h.service.Logout(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// checkAuth reports session state with 200 either way, so the frontend can
// branch on the body without treating anonymous visits as errors.
func (h *Handler) checkAuth(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	principal, err := h.service.Validate(r.Context(), cookie.Value)
	if err != nil {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          userPayload{Username: principal.Username, Role: models.Role(principal.Role)},
	})
}
