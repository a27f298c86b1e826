package ledger

import (
	"context"
	"fmt"

	"github.com/astropet/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BalanceAdjustParams describes a signed currency delta request.
type BalanceAdjustParams struct {
	PlayerID       uuid.UUID
	Kind           domain.CurrencyKind
	Delta          int64
	Reason         string
	IdempotencyKey string
}

// ExecuteBalanceAdjust applies a signed delta to one balance.
// Pattern: Lock → Idempotency → PostWalletEntry
func (e *Engine) ExecuteBalanceAdjust(ctx context.Context, tx pgx.Tx, params BalanceAdjustParams) (*domain.BalanceAdjustResult, error) {
	if err := domain.ValidateCurrencyKind(params.Kind); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if params.Delta == 0 {
		return nil, domain.ErrValidation("delta must be non-zero")
	}

	// Lock
	player, err := e.LockPlayerForUpdate(ctx, tx, params.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("balance adjust: %w", err)
	}

	// Idempotency check
	if params.IdempotencyKey != "" {
		existing, err := e.FindExistingEntry(ctx, tx, params.PlayerID, params.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &domain.BalanceAdjustResult{Entry: existing, Player: player, Idempotent: true}, nil
		}
	}

	// Post: balance += delta, guarded against going negative
	entry, updated, err := e.PostWalletEntry(ctx, tx, domain.PostWalletEntryParams{
		PlayerID:       params.PlayerID,
		Kind:           params.Kind,
		Delta:          params.Delta,
		Reason:         params.Reason,
		IdempotencyKey: params.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	return &domain.BalanceAdjustResult{Entry: entry, Player: updated}, nil
}

// ExecuteAccountPointsAdd increments the player's aggregate score.
func (e *Engine) ExecuteAccountPointsAdd(ctx context.Context, tx pgx.Tx, playerID uuid.UUID, points int64) (*domain.Player, error) {
	if points <= 0 {
		return nil, domain.ErrValidation("points must be positive")
	}

	if _, err := e.LockPlayerForUpdate(ctx, tx, playerID); err != nil {
		return nil, fmt.Errorf("account points: %w", err)
	}

	updated, err := e.players.AddAccountPoints(ctx, tx, playerID, points)
	if err != nil {
		return nil, fmt.Errorf("add account points: %w", err)
	}
	return updated, nil
}
