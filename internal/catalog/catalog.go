package catalog

import (
	"context"

	"github.com/astropet/platform/internal/domain"
)

// Source is the catalog-lookup capability the economy core depends on.
// Stores, items, collectibles and redeem codes live in an external catalog
// service; the core never holds data literals of its own.
type Source interface {
	// Store returns a store with its listings, or nil if unknown.
	Store(ctx context.Context, storeID string) (*domain.Store, error)

	// Item returns a canonical item definition, or nil if unknown.
	Item(ctx context.Context, itemID string) (*domain.Item, error)

	// Collectible returns a collectible definition, or nil if unknown.
	Collectible(ctx context.Context, collectibleID string) (*domain.Collectible, error)

	// Codes returns all redeem codes, active or not.
	Codes(ctx context.Context) ([]domain.RedeemCode, error)

	// CheckInRewards returns the streak-day reward table, ordered by day.
	CheckInRewards(ctx context.Context) ([]domain.CheckInReward, error)
}
