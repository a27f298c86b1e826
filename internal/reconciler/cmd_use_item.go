package reconciler

import (
	"context"
	"fmt"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/state"
	"github.com/google/uuid"
)

// UseItem applies one unit of an inventory entry to a pet. Returns whether
// the item was consumed. A missing entry, pet or item definition is not an
// error surfaced to the caller: the command reports false and logs, leaving
// state untouched. The stat write is persisted before any local mutation;
// a rejected write means nothing changes, including the inventory count.
func (e *Engine) UseItem(ctx context.Context, petID, entryID uuid.UUID) (bool, error) {
	player, err := e.player()
	if err != nil {
		return false, err
	}

	snap := e.container.View()
	entry := snap.Inventory.FindByID(entryID)
	if entry == nil {
		e.logger.Warn("use item: entry not in inventory", "entry_id", entryID)
		return false, nil
	}

	var pet *domain.Pet
	for i := range snap.Pets {
		if snap.Pets[i].ID == petID {
			pet = &snap.Pets[i]
			break
		}
	}
	if pet == nil {
		e.logger.Warn("use item: pet not found", "pet_id", petID)
		return false, nil
	}

	item, err := e.catalog.Item(ctx, entry.ItemID)
	if err != nil {
		return false, wrapRemote("load-item", err)
	}
	if item == nil {
		e.logger.Warn("use item: unknown item definition", "item_id", entry.ItemID)
		return false, nil
	}

	// Clamp once, up front; the clamped block is both what persists and
	// what the snapshot shows. No partial application of effects.
	updated := pet.Stats.ApplyEffects(item.Effects)

	if err := e.authority.SavePetStats(ctx, petID, updated); err != nil {
		e.logger.Error("use item: stat save rejected", "pet_id", petID, "item_id", item.ID, "error", err)
		return false, wrapRemote("save-pet-stats", err)
	}
	if err := e.authority.RemoveInventory(ctx, player.ID, entryID, 1); err != nil {
		// The stats are already durable; an inventory debit failure leaves
		// the unit in place rather than losing it. Reconciles on reload.
		e.logger.Error("use item: inventory debit rejected", "entry_id", entryID, "error", err)
		return false, wrapRemote("remove-inventory", err)
	}

	now := nowFn()
	e.container.Apply(func(s *state.Snapshot) {
		for i := range s.Pets {
			if s.Pets[i].ID == petID {
				s.Pets[i].Stats = updated
				s.Pets[i].LastInteraction = &now
				s.Pets[i].UpdatedAt = now
				break
			}
		}
		s.Inventory, _ = s.Inventory.Remove(entryID, 1, now)
	})

	e.notifier.Emit("success", fmt.Sprintf("Used %s on %s", item.Name, pet.Name))
	return true, nil
}
