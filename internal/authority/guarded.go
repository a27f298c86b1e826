package authority

import (
	"context"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/guard"
	"github.com/google/uuid"
)

// Guarded wraps a Client with a circuit breaker keyed per operation group.
// When a circuit is open, calls fail fast with REMOTE_FAILURE instead of
// stacking timeouts against an authority that is already down.
type Guarded struct {
	inner   Client
	breaker *guard.CircuitBreaker
}

// NewGuarded wraps client with the given breaker.
func NewGuarded(client Client, breaker *guard.CircuitBreaker) *Guarded {
	return &Guarded{inner: client, breaker: breaker}
}

func (g *Guarded) call(ctx context.Context, key string, fn func() error) error {
	if res := g.breaker.Check(ctx, key); !res.Allowed {
		return domain.ErrRemoteFailure(key, nil)
	}
	if err := fn(); err != nil {
		g.breaker.RecordFailure(key)
		return err
	}
	g.breaker.RecordSuccess(key)
	return nil
}

func (g *Guarded) AdjustBalance(ctx context.Context, playerID uuid.UUID, delta domain.BalanceDelta, idemKey string) (domain.Balances, error) {
	var out domain.Balances
	err := g.call(ctx, "wallet", func() error {
		var err error
		out, err = g.inner.AdjustBalance(ctx, playerID, delta, idemKey)
		return err
	})
	return out, err
}


func (g *Guarded) AddInventory(ctx context.Context, playerID uuid.UUID, itemID string, qty int) error {
	return g.call(ctx, "inventory", func() error {
		return g.inner.AddInventory(ctx, playerID, itemID, qty)
	})
}

func (g *Guarded) RemoveInventory(ctx context.Context, playerID, entryID uuid.UUID, qty int) error {
	return g.call(ctx, "inventory", func() error {
		return g.inner.RemoveInventory(ctx, playerID, entryID, qty)
	})
}

func (g *Guarded) SavePetStats(ctx context.Context, petID uuid.UUID, stats domain.PetStats) error {
	return g.call(ctx, "pets", func() error {
		return g.inner.SavePetStats(ctx, petID, stats)
	})
}

func (g *Guarded) AddAccountPoints(ctx context.Context, playerID uuid.UUID, points int64) error {
	return g.call(ctx, "player", func() error {
		return g.inner.AddAccountPoints(ctx, playerID, points)
	})
}

func (g *Guarded) GrantCollectible(ctx context.Context, playerID uuid.UUID, collectibleID string) error {
	return g.call(ctx, "player", func() error {
		return g.inner.GrantCollectible(ctx, playerID, collectibleID)
	})
}

func (g *Guarded) ConsumeCode(ctx context.Context, playerID uuid.UUID, code string) error {
	return g.call(ctx, "codes", func() error {
		return g.inner.ConsumeCode(ctx, playerID, code)
	})
}

func (g *Guarded) CheckIn(ctx context.Context, playerID uuid.UUID) (domain.CheckInStreak, error) {
	var out domain.CheckInStreak
	err := g.call(ctx, "checkins", func() error {
		var err error
		out, err = g.inner.CheckIn(ctx, playerID)
		return err
	})
	return out, err
}

func (g *Guarded) LoadPlayer(ctx context.Context, playerID uuid.UUID) (*domain.Player, error) {
	var out *domain.Player
	err := g.call(ctx, "player", func() error {
		var err error
		out, err = g.inner.LoadPlayer(ctx, playerID)
		return err
	})
	return out, err
}

func (g *Guarded) LoadPets(ctx context.Context, playerID uuid.UUID) ([]domain.Pet, error) {
	var out []domain.Pet
	err := g.call(ctx, "pets", func() error {
		var err error
		out, err = g.inner.LoadPets(ctx, playerID)
		return err
	})
	return out, err
}

func (g *Guarded) LoadInventory(ctx context.Context, playerID uuid.UUID) (domain.Inventory, error) {
	var out domain.Inventory
	err := g.call(ctx, "inventory", func() error {
		var err error
		out, err = g.inner.LoadInventory(ctx, playerID)
		return err
	})
	return out, err
}
