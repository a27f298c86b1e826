package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/astropet/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ExecuteCodeConsume records a per-player one-time redeem-code consumption.
// The (code, player) primary key enforces the one-time constraint; maxUses
// is rechecked under the lock so concurrent redemptions cannot exceed the
// cap. maxUses <= 0 means uncapped.
func (e *Engine) ExecuteCodeConsume(ctx context.Context, tx pgx.Tx, playerID uuid.UUID, code string, maxUses int) error {
	if err := domain.ValidateCodeFormat(code); err != nil {
		return domain.ErrValidation(err.Error())
	}

	if _, err := e.LockPlayerForUpdate(ctx, tx, playerID); err != nil {
		return fmt.Errorf("code consume: %w", err)
	}

	if maxUses > 0 {
		uses, err := e.codes.CountUses(ctx, tx, code)
		if err != nil {
			return fmt.Errorf("code consume: %w", err)
		}
		if uses >= maxUses {
			return domain.ErrLimitReached(code)
		}
	}

	if err := e.codes.InsertConsumption(ctx, tx, code, playerID); err != nil {
		// ALREADY_CONSUMED from the unique constraint passes through.
		return err
	}

	return e.outbox.Insert(ctx, tx, domain.NewCodeConsumedEvent(playerID, code))
}

// ExecuteCollectibleGrant marks a collectible collected. Granting twice is
// a no-op, not an error.
func (e *Engine) ExecuteCollectibleGrant(ctx context.Context, tx pgx.Tx, playerID uuid.UUID, collectibleID string) error {
	if collectibleID == "" {
		return domain.ErrValidation("collectible_id is required")
	}

	if _, err := e.LockPlayerForUpdate(ctx, tx, playerID); err != nil {
		return fmt.Errorf("collectible grant: %w", err)
	}

	if err := e.collectibles.Grant(ctx, tx, playerID, collectibleID, time.Now()); err != nil {
		return fmt.Errorf("collectible grant: %w", err)
	}
	return nil
}
