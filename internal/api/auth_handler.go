package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alecgard/scoutline/internal/auth"
	"github.com/alecgard/scoutline/internal/identity"
	"github.com/alecgard/scoutline/internal/session"
	"github.com/alecgard/scoutline/internal/validation"
)

// sessionMaxAge is the session cookie lifetime in seconds (7 days). It does
// not follow the token TTL.
const sessionMaxAge = 7 * 24 * 60 * 60

// AuthService is implemented by *auth.Service.
type AuthService interface {
	Login(ctx context.Context, role identity.Role, req validation.LoginRequest) (*auth.LoginResult, error)
	RegisterPlayer(ctx context.Context, in validation.PlayerRegistration) (string, error)
	RegisterCoach(ctx context.Context, in validation.CoachRegistration) (string, error)
}

// authHandler groups authentication HTTP handlers.
type authHandler struct {
	svc        AuthService
	sessions   *session.Validator
	production bool
}

func newAuthHandler(svc AuthService, sessions *session.Validator, production bool) *authHandler {
	return &authHandler{svc: svc, sessions: sessions, production: production}
}

// RegisterPlayer handles POST /auth/register/player.
func (h *authHandler) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var req validation.PlayerRegistration
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	id, err := h.svc.RegisterPlayer(r.Context(), req)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"message":  "Player registered successfully",
		"playerId": id,
	})
}

// RegisterCoach handles POST /auth/register/coach.
func (h *authHandler) RegisterCoach(w http.ResponseWriter, r *http.Request) {
	var req validation.CoachRegistration
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	id, err := h.svc.RegisterCoach(r.Context(), req)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Coach registered successfully",
		"coachId": id,
	})
}

// Login handles POST /auth/login/{player|coach}.
func (h *authHandler) Login(role identity.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validation.LoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidJSON)
			return
		}

		res, err := h.svc.Login(r.Context(), role, req)
		if err != nil {
			h.writeAuthError(w, r, err)
			return
		}

		http.SetCookie(w, h.sessionCookie(res.Token, sessionMaxAge))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":      true,
			"message":      msgLoginSuccessful,
			role.IDField(): res.Identity.SubjectID(),
		})
	}
}

// Logout handles POST /auth/logout. Tokens stay valid until they expire; only
// the browser's cookie is cleared.
func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: msgLoggedOut})
}

// Session handles GET /auth/session.
func (h *authHandler) Session(w http.ResponseWriter, r *http.Request) {
	d := h.sessions.Validate(r)
	status := http.StatusOK
	if !d.Valid {
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, d)
}

func (h *authHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.production,
		SameSite: http.SameSiteStrictMode,
	}
}

// writeAuthError maps service errors to responses. Unexpected errors are
// logged and never echoed to the client.
func (h *authHandler) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *auth.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeValidationError(w, vErr.Errors)
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, http.StatusConflict, msgEmailTaken)
	default:
		slog.Error("auth request failed",
			"request_id", RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
