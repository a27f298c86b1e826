package reconciler

import (
	"context"
	"fmt"
	"strings"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/state"
	"github.com/google/uuid"
)

// Redeem consumes a shared reward code for the current player. Lookup is
// case-insensitive; failures come back in a fixed order: bad format, locked
// out, unknown code, already consumed by this player, usage cap reached.
// The authority records the consumption first; rewards are then applied
// sequentially, and a reward grant that fails mid-way is logged and skipped
// rather than rolled back, so a partially rewarded redemption stays
// consumed.
func (e *Engine) Redeem(ctx context.Context, input string) (*domain.RedeemCode, error) {
	input = strings.TrimSpace(input)
	if err := domain.ValidateCodeFormat(input); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	player, err := e.player()
	if err != nil {
		return nil, err
	}

	if res := e.lockout.Check(ctx, player.ID.String()); !res.Allowed {
		return nil, domain.ErrValidation(res.Reason)
	}

	var code *domain.RedeemCode
	snap := e.container.View()
	for i := range snap.RedeemCodes {
		if snap.RedeemCodes[i].Matches(input) {
			code = &snap.RedeemCodes[i]
			break
		}
	}
	if code == nil || !code.Enabled {
		e.lockout.RecordFailure(player.ID.String())
		return nil, domain.ErrNotFound("code", input)
	}
	if code.ConsumedBy(player.ID) {
		e.lockout.RecordFailure(player.ID.String())
		return nil, domain.ErrAlreadyConsumed(code.Code)
	}
	if !code.Active(nowFn()) {
		e.lockout.RecordFailure(player.ID.String())
		return nil, domain.ErrLimitReached(code.Code)
	}

	if err := e.authority.ConsumeCode(ctx, player.ID, code.Code); err != nil {
		// The authority rejects a consumption that lost a race on the usage
		// cap or the per-player constraint; relay its verdict as-is.
		e.logger.Error("code consume rejected", "code", code.Code, "error", err)
		return nil, wrapRemote("consume-code", err)
	}
	e.lockout.RecordSuccess(player.ID.String())

	e.applyCodeRewards(ctx, player, code)

	// Mark consumption locally so a reload is not needed to block a repeat.
	consumed := *code
	consumed.Uses++
	consumed.UsedBy = append(append([]uuid.UUID(nil), consumed.UsedBy...), player.ID)
	e.container.Apply(func(s *state.Snapshot) {
		for i := range s.RedeemCodes {
			if s.RedeemCodes[i].Matches(consumed.Code) {
				s.RedeemCodes[i] = consumed
				return
			}
		}
		s.RedeemCodes = append(s.RedeemCodes, consumed)
	})

	e.notifier.Emit("success", fmt.Sprintf("Code %s redeemed", code.Code))
	return &consumed, nil
}

// applyCodeRewards grants each reward category in turn. A failed grant is
// logged and the remaining categories still apply.
func (e *Engine) applyCodeRewards(ctx context.Context, player *domain.Player, code *domain.RedeemCode) {
	r := code.Rewards

	if r.Xenocoins > 0 {
		if _, err := e.AdjustCurrency(ctx, domain.CurrencyXenocoins, r.Xenocoins); err != nil {
			e.logger.Error("code reward skipped", "code", code.Code, "reward", "xenocoins", "error", err)
		}
	}
	if r.Cash > 0 {
		if _, err := e.AdjustCurrency(ctx, domain.CurrencyCash, r.Cash); err != nil {
			e.logger.Error("code reward skipped", "code", code.Code, "reward", "cash", "error", err)
		}
	}
	if r.AccountPoints > 0 {
		if err := e.authority.AddAccountPoints(ctx, player.ID, r.AccountPoints); err != nil {
			e.logger.Error("code reward skipped", "code", code.Code, "reward", "account_points", "error", err)
		} else {
			e.container.Apply(func(s *state.Snapshot) {
				if s.Player != nil {
					s.Player.AccountPoints += r.AccountPoints
				}
			})
		}
	}
	for _, collectibleID := range r.Collectibles {
		if err := e.authority.GrantCollectible(ctx, player.ID, collectibleID); err != nil {
			e.logger.Error("code reward skipped", "code", code.Code, "reward", "collectible", "collectible_id", collectibleID, "error", err)
			continue
		}
		e.markCollected(ctx, collectibleID)
	}
}

// markCollected flips the local collectible to collected, resolving its
// definition from the catalog when the snapshot does not hold it yet.
func (e *Engine) markCollected(ctx context.Context, collectibleID string) {
	now := nowFn()
	var missing bool
	e.container.Apply(func(s *state.Snapshot) {
		for i := range s.Collectibles {
			if s.Collectibles[i].ID == collectibleID {
				s.Collectibles[i].Collected = true
				s.Collectibles[i].CollectedAt = &now
				return
			}
		}
		missing = true
	})
	if !missing {
		return
	}

	def, err := e.catalog.Collectible(ctx, collectibleID)
	if err != nil || def == nil {
		e.logger.Warn("collectible definition unavailable", "collectible_id", collectibleID, "error", err)
		def = &domain.Collectible{ID: collectibleID, Name: collectibleID}
	}
	granted := *def
	granted.Collected = true
	granted.CollectedAt = &now
	e.container.Apply(func(s *state.Snapshot) {
		s.Collectibles = append(s.Collectibles, granted)
	})
}
