package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alecgard/scoutline/internal/credential"
)

// ProfileStore is implemented by *credential.Store.
type ProfileStore interface {
	GetPlayerByID(ctx context.Context, id string) (*credential.Player, error)
	GetCoachByID(ctx context.Context, id string) (*credential.Coach, error)
}

// profileHandler serves the signed-in account's own profile.
type profileHandler struct {
	store ProfileStore
}

func newProfileHandler(store ProfileStore) *profileHandler {
	return &profileHandler{store: store}
}

// GetPlayer handles GET /api/players/{id}.
func (h *profileHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPlayerByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeLookupError(w, r, err, "Player not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetCoach handles GET /api/coaches/{id}.
func (h *profileHandler) GetCoach(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetCoachByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeLookupError(w, r, err, "Coach not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *profileHandler) writeLookupError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	if errors.Is(err, credential.ErrNotFound) {
		writeError(w, http.StatusNotFound, notFound)
		return
	}
	slog.Error("profile lookup failed",
		"request_id", RequestIDFromContext(r.Context()),
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, msgInternal)
}
