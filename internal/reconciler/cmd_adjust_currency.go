package reconciler

import (
	"context"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/state"
)

// AdjustCurrency applies a signed delta to one of the two balances.
// The authority is called first; the local balance mutates only on
// confirmed success, clamped to a floor of zero. There is no retry.
func (e *Engine) AdjustCurrency(ctx context.Context, kind domain.CurrencyKind, delta int64) (domain.Balances, error) {
	if err := domain.ValidateCurrencyKind(kind); err != nil {
		return domain.Balances{}, domain.ErrValidation(err.Error())
	}

	player, err := e.player()
	if err != nil {
		return domain.Balances{}, err
	}

	balances, err := e.authority.AdjustBalance(ctx, player.ID, domain.BalanceDelta{Kind: kind, Delta: delta}, "")
	if err != nil {
		e.logger.Error("adjust currency rejected", "kind", kind, "delta", delta, "error", err)
		return player.Balances, wrapRemote("adjust-balance", err)
	}

	e.container.Apply(func(s *state.Snapshot) {
		if s.Player == nil {
			return
		}
		// Take the authoritative result wholesale; a concurrent device
		// may have moved the balance between our read and this write.
		s.Player.Balances = balances
	})

	return balances, nil
}

// wrapRemote keeps authority business errors (AppError) intact and wraps
// transport failures as REMOTE_FAILURE so callers can tell them apart.
func wrapRemote(op string, err error) error {
	if appErr, ok := err.(*domain.AppError); ok {
		return appErr
	}
	return domain.ErrRemoteFailure(op, err)
}
