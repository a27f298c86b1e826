package handler

import (
	"net/http"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/reconciler"
	"github.com/astropet/platform/internal/state"
)

// PlayerHandler exposes the loaded player, pets, collections and the
// session-scoped UI state (screen, galaxy-map viewport).
type PlayerHandler struct {
	engine    *reconciler.Engine
	container *state.Container
}

// NewPlayerHandler creates a player handler.
func NewPlayerHandler(engine *reconciler.Engine, container *state.Container) *PlayerHandler {
	return &PlayerHandler{engine: engine, container: container}
}

// Me returns the loaded player.
func (h *PlayerHandler) Me(w http.ResponseWriter, r *http.Request) {
	player := h.container.Player()
	if player == nil {
		RespondError(w, domain.ErrNotAuthenticated())
		return
	}
	RespondJSON(w, http.StatusOK, player)
}

// Pets returns the player's pets.
func (h *PlayerHandler) Pets(w http.ResponseWriter, r *http.Request) {
	snap := h.container.View()
	pets := snap.Pets
	if pets == nil {
		pets = []domain.Pet{}
	}
	RespondJSON(w, http.StatusOK, pets)
}

// Collectibles returns the collection state.
func (h *PlayerHandler) Collectibles(w http.ResponseWriter, r *http.Request) {
	snap := h.container.View()
	out := snap.Collectibles
	if out == nil {
		out = []domain.Collectible{}
	}
	RespondJSON(w, http.StatusOK, out)
}

// Achievements returns the unlocked achievements.
func (h *PlayerHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	snap := h.container.View()
	out := snap.Achievements
	if out == nil {
		out = []domain.Achievement{}
	}
	RespondJSON(w, http.StatusOK, out)
}

// CheckIn records the daily check-in and returns the reward outcome.
func (h *PlayerHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.CheckIn(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

type mapPositionRequest struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale" validate:"required,gt=0"`
}

// SetMapPosition saves the galaxy-map viewport.
func (h *PlayerHandler) SetMapPosition(w http.ResponseWriter, r *http.Request) {
	var req mapPositionRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if err := ValidateStruct(req); err != nil {
		RespondError(w, err)
		return
	}

	if err := h.engine.SetMapPosition(domain.MapPosition{X: req.X, Y: req.Y, Scale: req.Scale}); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

type screenRequest struct {
	Screen string `json:"screen" validate:"required"`
}

// SetScreen records the current screen.
func (h *PlayerHandler) SetScreen(w http.ResponseWriter, r *http.Request) {
	var req screenRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if err := ValidateStruct(req); err != nil {
		RespondError(w, err)
		return
	}

	if err := h.engine.SetScreen(req.Screen); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
