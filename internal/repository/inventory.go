package repository

import (
	"context"
	"fmt"

	"github.com/astropet/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type inventoryRepo struct{}

// NewInventoryRepository returns a pgx-backed InventoryRepository.
func NewInventoryRepository() InventoryRepository {
	return &inventoryRepo{}
}

func (r *inventoryRepo) ListByPlayer(ctx context.Context, db DBTX, playerID uuid.UUID) (domain.Inventory, error) {
	rows, err := db.Query(ctx, `
		SELECT id, item_id, quantity, equipped, updated_at
		FROM inventory_entries
		WHERE player_id = $1
		ORDER BY updated_at ASC`, playerID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var inv domain.Inventory
	for rows.Next() {
		var e domain.InventoryEntry
		if err := rows.Scan(&e.ID, &e.ItemID, &e.Quantity, &e.Equipped, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory entry: %w", err)
		}
		inv = append(inv, e)
	}
	return inv, rows.Err()
}

// Credit upserts into the single unequipped stack per (player, item). The
// partial unique index makes the ON CONFLICT merge safe under concurrency.
func (r *inventoryRepo) Credit(ctx context.Context, tx pgx.Tx, playerID uuid.UUID, itemID string, qty int) (*domain.InventoryEntry, error) {
	row := tx.QueryRow(ctx, `
		INSERT INTO inventory_entries (id, player_id, item_id, quantity, equipped, updated_at)
		VALUES ($1, $2, $3, $4, false, now())
		ON CONFLICT (player_id, item_id) WHERE NOT equipped
		DO UPDATE SET quantity = inventory_entries.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING id, item_id, quantity, equipped, updated_at`,
		uuid.New(), playerID, itemID, qty)

	var e domain.InventoryEntry
	if err := row.Scan(&e.ID, &e.ItemID, &e.Quantity, &e.Equipped, &e.UpdatedAt); err != nil {
		return nil, fmt.Errorf("credit inventory: %w", err)
	}
	return &e, nil
}

// Debit decrements with a quantity >= qty guard, then deletes the row if it
// reached zero. A guard miss means the entry is absent or short.
func (r *inventoryRepo) Debit(ctx context.Context, tx pgx.Tx, playerID, entryID uuid.UUID, qty int) (bool, error) {
	var remaining int
	err := tx.QueryRow(ctx, `
		UPDATE inventory_entries SET quantity = quantity - $3, updated_at = now()
		WHERE id = $1 AND player_id = $2 AND quantity >= $3
		RETURNING quantity`, entryID, playerID, qty).Scan(&remaining)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("debit inventory: %w", err)
	}

	if remaining == 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM inventory_entries WHERE id = $1`, entryID); err != nil {
			return false, fmt.Errorf("drop empty inventory entry: %w", err)
		}
	}
	return true, nil
}
