package catalog

import (
	"context"
	"sync"

	"github.com/astropet/platform/internal/domain"
)

// StaticSource is an in-memory catalog source for development and tests.
type StaticSource struct {
	mu           sync.RWMutex
	stores       map[string]*domain.Store
	items        map[string]*domain.Item
	collectibles map[string]*domain.Collectible
	codes        []domain.RedeemCode
	rewards      []domain.CheckInReward
}

// NewStaticSource creates an empty static source.
func NewStaticSource() *StaticSource {
	return &StaticSource{
		stores:       make(map[string]*domain.Store),
		items:        make(map[string]*domain.Item),
		collectibles: make(map[string]*domain.Collectible),
	}
}

// AddStore registers a store.
func (s *StaticSource) AddStore(store domain.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores[store.ID] = &store
}

// AddItem registers an item definition.
func (s *StaticSource) AddItem(item domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = &item
}

// AddCollectible registers a collectible definition.
func (s *StaticSource) AddCollectible(col domain.Collectible) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collectibles[col.ID] = &col
}

// AddCode registers a redeem code.
func (s *StaticSource) AddCode(code domain.RedeemCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, code)
}

// SetCheckInRewards replaces the streak reward table.
func (s *StaticSource) SetCheckInRewards(rewards []domain.CheckInReward) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rewards = rewards
}

func (s *StaticSource) Store(_ context.Context, storeID string) (*domain.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores[storeID], nil
}

func (s *StaticSource) Item(_ context.Context, itemID string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items[itemID], nil
}

func (s *StaticSource) Collectible(_ context.Context, collectibleID string) (*domain.Collectible, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectibles[collectibleID], nil
}

func (s *StaticSource) Codes(_ context.Context) ([]domain.RedeemCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.RedeemCode, len(s.codes))
	copy(out, s.codes)
	return out, nil
}

func (s *StaticSource) CheckInRewards(_ context.Context) ([]domain.CheckInReward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CheckInReward, len(s.rewards))
	copy(out, s.rewards)
	return out, nil
}
