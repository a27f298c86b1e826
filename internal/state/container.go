package state

import (
	"sync"

	"github.com/astropet/platform/internal/domain"
	"github.com/google/uuid"
)

// Snapshot is the full in-memory representation of a player session. The
// remote authority owns the durable copy; this is a cache reconciled
// opportunistically after each confirmed remote call.
type Snapshot struct {
	Player        *domain.Player        `json:"player,omitempty"`
	Pets          []domain.Pet          `json:"pets,omitempty"`
	Inventory     domain.Inventory      `json:"inventory,omitempty"`
	Notifications []domain.Notification `json:"notifications,omitempty"`
	Achievements  []domain.Achievement  `json:"achievements,omitempty"`
	Collectibles  []domain.Collectible  `json:"collectibles,omitempty"`
	RedeemCodes   []domain.RedeemCode   `json:"redeem_codes,omitempty"`
	CheckIn       domain.CheckInStreak  `json:"check_in"`
	MapPosition   domain.MapPosition    `json:"map_position"`
	Eggs          []domain.EggState     `json:"eggs,omitempty"`
	CurrentScreen string                `json:"current_screen,omitempty"`
	Language      string                `json:"language,omitempty"`
}

// Clone returns a deep copy of the snapshot. The player struct and every
// slice get their own backing storage, so a clone handed to a reader never
// observes a later Apply.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Player != nil {
		p := *s.Player
		out.Player = &p
	}
	out.Pets = append([]domain.Pet(nil), s.Pets...)
	out.Inventory = append(domain.Inventory(nil), s.Inventory...)
	out.Notifications = append([]domain.Notification(nil), s.Notifications...)
	out.Achievements = append([]domain.Achievement(nil), s.Achievements...)
	out.Collectibles = append([]domain.Collectible(nil), s.Collectibles...)
	out.Eggs = append([]domain.EggState(nil), s.Eggs...)

	if s.RedeemCodes != nil {
		out.RedeemCodes = make([]domain.RedeemCode, len(s.RedeemCodes))
		for i, code := range s.RedeemCodes {
			code.UsedBy = append([]uuid.UUID(nil), code.UsedBy...)
			out.RedeemCodes[i] = code
		}
	}
	return out
}

// Container holds the session snapshot. Every mutation goes through Apply,
// which serializes observation: subscribers see whole-snapshot change
// signals, never intermediate field writes.
type Container struct {
	mu   sync.RWMutex
	snap Snapshot
	subs map[int]chan struct{}
	next int
}

// NewContainer creates an empty state container.
func NewContainer() *Container {
	return &Container{subs: make(map[int]chan struct{})}
}

// Apply runs mutate against the snapshot under the container lock, then
// signals subscribers. This is the single mutation entry point.
func (c *Container) Apply(mutate func(*Snapshot)) {
	c.mu.Lock()
	mutate(&c.snap)
	c.mu.Unlock()
	c.notify()
}

// View returns a detached deep copy of the current snapshot. Readers hold
// no references into container state, so handlers may read a view while
// Apply mutates concurrently.
func (c *Container) View() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.Clone()
}

// Player returns a detached copy of the loaded player, or nil when no
// session is active.
func (c *Container) Player() *domain.Player {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap.Player == nil {
		return nil
	}
	p := *c.snap.Player
	return &p
}

// Subscribe registers a change-signal channel. The returned cancel func
// must be called to release the subscription.
func (c *Container) Subscribe() (<-chan struct{}, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	ch := make(chan struct{}, 1)
	c.subs[id] = ch
	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// notify sends a non-blocking change signal to every subscriber. A
// subscriber that has not drained its previous signal is not sent another;
// the signal is edge-triggered, not a queue.
func (c *Container) notify() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
