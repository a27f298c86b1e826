package catalog

import (
	"context"
	"time"

	"github.com/astropet/platform/internal/domain"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache defaults. Catalog data changes rarely; a short TTL keeps edits
// visible without hammering the source.
const (
	defaultCacheSize = 256
	defaultCacheTTL  = 5 * time.Minute
)

// Cached is a read-through cache over a catalog Source with time-based
// expiration per entry.
type Cached struct {
	source Source

	stores       *expirable.LRU[string, *domain.Store]
	items        *expirable.LRU[string, *domain.Item]
	collectibles *expirable.LRU[string, *domain.Collectible]
}

// NewCached wraps source in an expirable LRU layer.
func NewCached(source Source) *Cached {
	return &Cached{
		source:       source,
		stores:       expirable.NewLRU[string, *domain.Store](defaultCacheSize, nil, defaultCacheTTL),
		items:        expirable.NewLRU[string, *domain.Item](defaultCacheSize, nil, defaultCacheTTL),
		collectibles: expirable.NewLRU[string, *domain.Collectible](defaultCacheSize, nil, defaultCacheTTL),
	}
}

func (c *Cached) Store(ctx context.Context, storeID string) (*domain.Store, error) {
	if s, ok := c.stores.Get(storeID); ok {
		return s, nil
	}
	s, err := c.source.Store(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if s != nil {
		c.stores.Add(storeID, s)
	}
	return s, nil
}

func (c *Cached) Item(ctx context.Context, itemID string) (*domain.Item, error) {
	if it, ok := c.items.Get(itemID); ok {
		return it, nil
	}
	it, err := c.source.Item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it != nil {
		c.items.Add(itemID, it)
	}
	return it, nil
}

func (c *Cached) Collectible(ctx context.Context, collectibleID string) (*domain.Collectible, error) {
	if col, ok := c.collectibles.Get(collectibleID); ok {
		return col, nil
	}
	col, err := c.source.Collectible(ctx, collectibleID)
	if err != nil {
		return nil, err
	}
	if col != nil {
		c.collectibles.Add(collectibleID, col)
	}
	return col, nil
}

// Codes is not cached: code usage counters mutate on every redemption and
// a stale cap check would re-open closed codes.
func (c *Cached) Codes(ctx context.Context) ([]domain.RedeemCode, error) {
	return c.source.Codes(ctx)
}

func (c *Cached) CheckInRewards(ctx context.Context) ([]domain.CheckInReward, error) {
	return c.source.CheckInRewards(ctx)
}

// InvalidateStore drops a store from the cache, forcing a reload on next read.
func (c *Cached) InvalidateStore(storeID string) {
	c.stores.Remove(storeID)
}
