package handler

import (
	"net/http"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/reconciler"
	"github.com/astropet/platform/internal/state"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// InventoryHandler exposes the item holding and item usage.
type InventoryHandler struct {
	engine    *reconciler.Engine
	container *state.Container
}

// NewInventoryHandler creates an inventory handler.
func NewInventoryHandler(engine *reconciler.Engine, container *state.Container) *InventoryHandler {
	return &InventoryHandler{engine: engine, container: container}
}

// List returns the current inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	snap := h.container.View()
	inv := snap.Inventory
	if inv == nil {
		inv = domain.Inventory{}
	}
	RespondJSON(w, http.StatusOK, inv)
}

type useItemRequest struct {
	PetID string `json:"pet_id" validate:"required,uuid"`
}

// Use applies one unit of an inventory entry to a pet. Missing entries or
// pets report used=false rather than an error.
func (h *InventoryHandler) Use(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid entry id"))
		return
	}

	var req useItemRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if err := ValidateStruct(req); err != nil {
		RespondError(w, err)
		return
	}
	petID, err := uuid.Parse(req.PetID)
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid pet_id"))
		return
	}

	used, err := h.engine.UseItem(r.Context(), petID, entryID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]bool{"used": used})
}
