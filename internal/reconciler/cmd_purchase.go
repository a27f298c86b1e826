package reconciler

import (
	"context"
	"fmt"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/eligibility"
	"github.com/astropet/platform/internal/state"
)

// Purchase buys qty units of a listing. requestID identifies the player's
// attempt: the caller mints one per click and reuses it on retry, so a
// duplicate submission dedupes instead of double-charging. Preconditions
// are checked in a fixed order, each a hard stop with zero side effects:
// store exists, listing exists, stock covers qty, eligibility gates pass,
// balance covers the cost. Then, strictly sequentially: debit the price,
// credit the inventory, and on inventory failure issue a best-effort
// compensating credit-back. Listing stock is decremented process-local
// only; the catalog remains the source of truth on reload.
func (e *Engine) Purchase(ctx context.Context, storeID, listingID string, qty int, requestID string) (*domain.PurchaseResult, error) {
	if err := domain.ValidateQuantity(qty); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if requestID == "" {
		return nil, domain.ErrValidation("request_id is required")
	}

	player, err := e.player()
	if err != nil {
		return nil, err
	}

	if res := e.purchases.Check(ctx, player.ID.String()+":purchase"); !res.Allowed {
		return nil, domain.ErrValidation(res.Reason)
	}

	store, err := e.catalog.Store(ctx, storeID)
	if err != nil {
		return nil, wrapRemote("load-store", err)
	}
	if store == nil {
		return nil, domain.ErrNotFound("store", storeID)
	}

	listing := store.FindListing(listingID)
	if listing == nil {
		return nil, domain.ErrNotFound("listing", listingID)
	}

	if e.effectiveStock(listing) < qty {
		return nil, domain.ErrInsufficientStock(listingID)
	}

	snap := e.container.View()
	eval := eligibility.EvaluateListing(listing.Requirements, eligibility.PlayerContext{
		Player:       snap.Player,
		PetLevels:    petLevels(snap.Pets),
		Inventory:    snap.Inventory,
		Achievements: snap.Achievements,
	})
	if !eval.Allowed {
		return nil, domain.ErrValidation(fmt.Sprintf("listing requirement not met: %s", eval.FailedGate))
	}

	totalCost := listing.Price * int64(qty)
	if player.Get(listing.Currency) < totalCost {
		return nil, domain.ErrInsufficientBalance(listing.Currency)
	}

	item, err := e.catalog.Item(ctx, listing.ItemID)
	if err != nil {
		return nil, wrapRemote("load-item", err)
	}
	if item == nil {
		return nil, domain.ErrNotFound("item", listing.ItemID)
	}

	// One idempotency key covers the whole attempt, derived from the
	// caller's request ID: a duplicate click that slips past the rate
	// limiter is dropped here, and a commit replayed after a crash hits
	// the authority's durable entry index under the same key.
	idemKey := fmt.Sprintf("purchase:%s:%s:%s", player.ID, listingID, requestID)
	if res := e.idem.Check(ctx, idemKey); !res.Allowed {
		return nil, domain.ErrValidation(res.Reason)
	}

	// Step 1: debit the price.
	balances, err := e.authority.AdjustBalance(ctx, player.ID,
		domain.BalanceDelta{Kind: listing.Currency, Delta: -totalCost}, idemKey)
	if err != nil {
		e.idem.Remove(idemKey)
		e.logger.Error("purchase debit failed", "listing_id", listingID, "error", err)
		return nil, wrapRemote("debit", err)
	}

	// Step 2: credit the inventory.
	if err := e.authority.AddInventory(ctx, player.ID, item.ID, qty); err != nil {
		e.logger.Error("purchase inventory credit failed, compensating", "listing_id", listingID, "error", err)

		// Step 3: best-effort compensating credit-back. Its own failure is
		// logged, not further compensated; this is a known inconsistency
		// window.
		if balancesBack, backErr := e.authority.AdjustBalance(ctx, player.ID,
			domain.BalanceDelta{Kind: listing.Currency, Delta: totalCost}, idemKey+":refund"); backErr != nil {
			e.logger.Error("purchase compensation failed, balance diverged",
				"listing_id", listingID, "amount", totalCost, "error", backErr)
		} else {
			balances = balancesBack
			e.container.Apply(func(s *state.Snapshot) {
				if s.Player != nil {
					s.Player.Balances = balances
				}
			})
		}
		e.notifier.Emit("error", fmt.Sprintf("Purchase of %s failed", item.Name))
		return &domain.PurchaseResult{
			OK:       false,
			Message:  "purchase failed, payment refunded",
			Currency: listing.Currency,
			Balance:  balances.Get(listing.Currency),
		}, wrapRemote("inventory-add", err)
	}

	// Step 4: reconcile local state with the confirmed outcome.
	e.recordSold(listingID, qty)
	e.container.Apply(func(s *state.Snapshot) {
		if s.Player != nil {
			s.Player.Balances = balances
		}
		s.Inventory = s.Inventory.Add(item.ID, qty, nowFn())
	})
	e.notifier.Emit("success", fmt.Sprintf("Bought %dx %s", qty, item.Name))

	return &domain.PurchaseResult{
		OK:        true,
		Message:   fmt.Sprintf("purchased %dx %s", qty, item.Name),
		TotalCost: totalCost,
		Currency:  listing.Currency,
		Balance:   balances.Get(listing.Currency),
	}, nil
}

func petLevels(pets []domain.Pet) []int {
	levels := make([]int, 0, len(pets))
	for _, p := range pets {
		levels = append(levels, p.Level)
	}
	return levels
}
