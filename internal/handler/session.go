package handler

import (
	"net/http"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/projection"
	"github.com/astropet/platform/internal/reconciler"
	"github.com/astropet/platform/internal/state"
	"github.com/google/uuid"
)

// SessionHandler drives session lifecycle: restore from the local cache,
// load authoritative state, save, and expose the current snapshot.
type SessionHandler struct {
	engine    *reconciler.Engine
	container *state.Container
	cache     projection.Store
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(engine *reconciler.Engine, container *state.Container, cache projection.Store) *SessionHandler {
	return &SessionHandler{engine: engine, container: container, cache: cache}
}

type startSessionRequest struct {
	PlayerID string `json:"player_id" validate:"required,uuid"`
}

// Start restores the cached snapshot for instant display, then loads the
// authoritative copy over it.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if err := ValidateStruct(req); err != nil {
		RespondError(w, err)
		return
	}
	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid player_id"))
		return
	}

	restored, err := h.engine.RestoreSession(r.Context(), h.cache, req.PlayerID)
	if err != nil {
		// Cache trouble is not fatal; the authority load still runs.
		restored = false
	}

	if err := h.engine.StartSession(r.Context(), playerID); err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"restored_from_cache": restored,
		"state":               h.container.View(),
	})
}

// Save persists the current snapshot to the local durable cache.
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.SaveSession(r.Context(), h.cache); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// State returns the full current snapshot.
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.container.View())
}
