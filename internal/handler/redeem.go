package handler

import (
	"net/http"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/reconciler"
)

// RedeemHandler exposes redeem-code consumption.
type RedeemHandler struct {
	engine *reconciler.Engine
}

// NewRedeemHandler creates a redeem handler.
func NewRedeemHandler(engine *reconciler.Engine) *RedeemHandler {
	return &RedeemHandler{engine: engine}
}

type redeemRequest struct {
	Code string `json:"code" validate:"required,min=3,max=32"`
}

// Redeem consumes a code and applies its rewards.
func (h *RedeemHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if err := ValidateStruct(req); err != nil {
		RespondError(w, err)
		return
	}

	code, err := h.engine.Redeem(r.Context(), req.Code)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"code":    code.Code,
		"rewards": code.Rewards,
	})
}
