package catalog

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/astropet/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource wraps StaticSource and counts store lookups.
type countingSource struct {
	*StaticSource
	storeCalls atomic.Int64
}

func (c *countingSource) Store(ctx context.Context, id string) (*domain.Store, error) {
	c.storeCalls.Add(1)
	return c.StaticSource.Store(ctx, id)
}

func TestCachedStoreReadThrough(t *testing.T) {
	src := &countingSource{StaticSource: NewStaticSource()}
	src.AddStore(domain.Store{ID: "general", Name: "General Store"})
	cached := NewCached(src)

	ctx := context.Background()
	s1, err := cached.Store(ctx, "general")
	require.NoError(t, err)
	require.NotNil(t, s1)

	s2, err := cached.Store(ctx, "general")
	require.NoError(t, err)
	require.NotNil(t, s2)

	assert.Equal(t, int64(1), src.storeCalls.Load(), "second read should hit the cache")
}

func TestCachedUnknownStoreNotCached(t *testing.T) {
	src := &countingSource{StaticSource: NewStaticSource()}
	cached := NewCached(src)

	ctx := context.Background()
	s, err := cached.Store(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, s)

	_, _ = cached.Store(ctx, "nope")
	assert.Equal(t, int64(2), src.storeCalls.Load(), "misses are not cached")
}

func TestCachedInvalidateStore(t *testing.T) {
	src := &countingSource{StaticSource: NewStaticSource()}
	src.AddStore(domain.Store{ID: "general"})
	cached := NewCached(src)

	ctx := context.Background()
	_, _ = cached.Store(ctx, "general")
	cached.InvalidateStore("general")
	_, _ = cached.Store(ctx, "general")
	assert.Equal(t, int64(2), src.storeCalls.Load())
}

func TestCodesBypassCache(t *testing.T) {
	src := NewStaticSource()
	src.AddCode(domain.RedeemCode{Code: "WELCOME", Enabled: true})
	cached := NewCached(src)

	codes, err := cached.Codes(context.Background())
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, "WELCOME", codes[0].Code)
}

func TestItemLookup(t *testing.T) {
	src := NewStaticSource()
	src.AddItem(domain.Item{ID: "apple", Name: "Apple", Effects: map[string]int{"hunger": 2}})
	cached := NewCached(src)

	it, err := cached.Item(context.Background(), "apple")
	require.NoError(t, err)
	require.NotNil(t, it)
	assert.Equal(t, 2, it.Effects["hunger"])
}
