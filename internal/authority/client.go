package authority

import (
	"context"

	"github.com/astropet/platform/internal/domain"
	"github.com/google/uuid"
)

// Client is the remote persistence authority port. The authority owns the
// durable copy of every entity; the local snapshot is a cache reconciled
// against the results of these calls. Every mutation returns the
// authoritative post-write value so callers never have to guess.
type Client interface {
	// AdjustBalance applies a signed currency delta server-side. The
	// authority rejects (rather than clamps) a debit that would go below
	// zero. idemKey deduplicates replays; empty disables the check.
	AdjustBalance(ctx context.Context, playerID uuid.UUID, delta domain.BalanceDelta, idemKey string) (domain.Balances, error)

	// AddInventory credits qty units of an item into the player's inventory.
	AddInventory(ctx context.Context, playerID uuid.UUID, itemID string, qty int) error

	// RemoveInventory debits qty units from an inventory entry.
	RemoveInventory(ctx context.Context, playerID, entryID uuid.UUID, qty int) error

	// SavePetStats persists a pet's full stat block.
	SavePetStats(ctx context.Context, petID uuid.UUID, stats domain.PetStats) error

	// AddAccountPoints increments the player's aggregate score.
	AddAccountPoints(ctx context.Context, playerID uuid.UUID, points int64) error

	// GrantCollectible marks a collectible collected for the player.
	GrantCollectible(ctx context.Context, playerID uuid.UUID, collectibleID string) error

	// ConsumeCode records a per-player one-time code consumption. The
	// authority enforces the uniqueness constraint and the usage cap.
	ConsumeCode(ctx context.Context, playerID uuid.UUID, code string) error

	// CheckIn records a daily check-in with a server-verified timestamp and
	// returns the updated streak.
	CheckIn(ctx context.Context, playerID uuid.UUID) (domain.CheckInStreak, error)

	// Full reloads, used at session start and on subscription change events.
	LoadPlayer(ctx context.Context, playerID uuid.UUID) (*domain.Player, error)
	LoadPets(ctx context.Context, playerID uuid.UUID) ([]domain.Pet, error)
	LoadInventory(ctx context.Context, playerID uuid.UUID) (domain.Inventory, error)
}
