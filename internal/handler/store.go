package handler

import (
	"net/http"

	"github.com/astropet/platform/internal/catalog"
	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/reconciler"
	"github.com/go-chi/chi/v5"
)

// StoreHandler exposes store browsing and purchases.
type StoreHandler struct {
	engine  *reconciler.Engine
	catalog catalog.Source
}

// NewStoreHandler creates a store handler.
func NewStoreHandler(engine *reconciler.Engine, catalog catalog.Source) *StoreHandler {
	return &StoreHandler{engine: engine, catalog: catalog}
}

// Get returns a store with its listings.
func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	store, err := h.catalog.Store(r.Context(), storeID)
	if err != nil {
		RespondError(w, err)
		return
	}
	if store == nil {
		RespondError(w, domain.ErrNotFound("store", storeID))
		return
	}
	RespondJSON(w, http.StatusOK, store)
}

type purchaseRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
	// RequestID identifies this purchase attempt; the client reuses it on
	// retry so a resubmitted purchase dedupes instead of double-charging.
	RequestID string `json:"request_id" validate:"required,max=64"`
}

// Purchase buys a listing through the reconciler's sequential flow.
func (h *StoreHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	listingID := chi.URLParam(r, "listingID")

	var req purchaseRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if err := ValidateStruct(req); err != nil {
		RespondError(w, err)
		return
	}

	result, err := h.engine.Purchase(r.Context(), storeID, listingID, req.Quantity, req.RequestID)
	if err != nil {
		// A failed purchase that was compensated still carries a result
		// the client should show.
		if result != nil {
			RespondJSON(w, http.StatusConflict, result)
			return
		}
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}
