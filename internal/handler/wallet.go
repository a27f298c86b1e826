package handler

import (
	"net/http"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/reconciler"
	"github.com/astropet/platform/internal/state"
)

// WalletHandler exposes the two-currency balance state and adjustments.
type WalletHandler struct {
	engine    *reconciler.Engine
	container *state.Container
}

// NewWalletHandler creates a wallet handler.
func NewWalletHandler(engine *reconciler.Engine, container *state.Container) *WalletHandler {
	return &WalletHandler{engine: engine, container: container}
}

// Balances returns the current local balances.
func (h *WalletHandler) Balances(w http.ResponseWriter, r *http.Request) {
	player := h.container.Player()
	if player == nil {
		RespondError(w, domain.ErrNotAuthenticated())
		return
	}
	RespondJSON(w, http.StatusOK, player.Balances)
}

type adjustRequest struct {
	Kind  domain.CurrencyKind `json:"kind" validate:"required"`
	Delta int64               `json:"delta" validate:"required"`
}

// Adjust applies a signed delta to one balance through the reconciler.
func (h *WalletHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if err := ValidateStruct(req); err != nil {
		RespondError(w, err)
		return
	}

	balances, err := h.engine.AdjustCurrency(r.Context(), req.Kind, req.Delta)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, balances)
}
