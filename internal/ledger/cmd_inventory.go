package ledger

import (
	"context"
	"fmt"

	"github.com/astropet/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ExecuteInventoryCredit upserts qty units into the player's unequipped
// stack for the item and records the change event.
func (e *Engine) ExecuteInventoryCredit(ctx context.Context, tx pgx.Tx, playerID uuid.UUID, itemID string, qty int) (*domain.InventoryEntry, error) {
	if err := domain.ValidateQuantity(qty); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if itemID == "" {
		return nil, domain.ErrValidation("item_id is required")
	}

	if _, err := e.LockPlayerForUpdate(ctx, tx, playerID); err != nil {
		return nil, fmt.Errorf("inventory credit: %w", err)
	}

	entry, err := e.inventory.Credit(ctx, tx, playerID, itemID, qty)
	if err != nil {
		return nil, fmt.Errorf("inventory credit: %w", err)
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewInventoryChangedEvent(playerID, itemID, qty)); err != nil {
		return nil, fmt.Errorf("inventory credit event: %w", err)
	}
	return entry, nil
}

// ExecuteInventoryDebit removes qty units from an entry, deleting it at
// zero. An absent or short entry is NOT_FOUND, not a partial debit.
func (e *Engine) ExecuteInventoryDebit(ctx context.Context, tx pgx.Tx, playerID, entryID uuid.UUID, qty int) error {
	if err := domain.ValidateQuantity(qty); err != nil {
		return domain.ErrValidation(err.Error())
	}

	if _, err := e.LockPlayerForUpdate(ctx, tx, playerID); err != nil {
		return fmt.Errorf("inventory debit: %w", err)
	}

	ok, err := e.inventory.Debit(ctx, tx, playerID, entryID, qty)
	if err != nil {
		return fmt.Errorf("inventory debit: %w", err)
	}
	if !ok {
		return domain.ErrNotFound("inventory entry", entryID.String())
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewInventoryChangedEvent(playerID, entryID.String(), -qty)); err != nil {
		return fmt.Errorf("inventory debit event: %w", err)
	}
	return nil
}
