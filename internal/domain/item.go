package domain

import (
	"time"

	"github.com/google/uuid"
)

// Item is a canonical item definition from the catalog.
type Item struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Kind        string         `json:"kind"` // food, toy, equipment, cosmetic
	Effects     map[string]int `json:"effects,omitempty"`
	Equippable  bool           `json:"equippable"`
}

// InventoryEntry references an item definition with an owned quantity.
// Invariant: Quantity > 0; zero-quantity entries are removed, not retained.
// At most one unequipped stack exists per item definition; equipped
// instances are kept distinct.
type InventoryEntry struct {
	ID        uuid.UUID `json:"id"`
	ItemID    string    `json:"item_id"`
	Quantity  int       `json:"quantity"`
	Equipped  bool      `json:"equipped"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Inventory is the player's full item holding.
type Inventory []InventoryEntry

// FindStack returns the unequipped stack for the given item, or nil.
func (inv Inventory) FindStack(itemID string) *InventoryEntry {
	for i := range inv {
		if inv[i].ItemID == itemID && !inv[i].Equipped {
			return &inv[i]
		}
	}
	return nil
}

// FindByID returns the entry with the given inventory ID, or nil.
func (inv Inventory) FindByID(id uuid.UUID) *InventoryEntry {
	for i := range inv {
		if inv[i].ID == id {
			return &inv[i]
		}
	}
	return nil
}

// Add merges qty units of an item into the unequipped stack, creating the
// stack if absent. Equipped instances are never merged into.
func (inv Inventory) Add(itemID string, qty int, now time.Time) Inventory {
	if stack := inv.FindStack(itemID); stack != nil {
		stack.Quantity += qty
		stack.UpdatedAt = now
		return inv
	}
	return append(inv, InventoryEntry{
		ID:        uuid.New(),
		ItemID:    itemID,
		Quantity:  qty,
		UpdatedAt: now,
	})
}

// Remove decrements the entry with the given ID by qty, dropping the entry
// when its quantity reaches zero. Returns the updated inventory and whether
// the entry existed with at least qty units.
func (inv Inventory) Remove(id uuid.UUID, qty int, now time.Time) (Inventory, bool) {
	for i := range inv {
		if inv[i].ID != id {
			continue
		}
		if inv[i].Quantity < qty {
			return inv, false
		}
		inv[i].Quantity -= qty
		inv[i].UpdatedAt = now
		if inv[i].Quantity == 0 {
			return append(inv[:i], inv[i+1:]...), true
		}
		return inv, true
	}
	return inv, false
}
