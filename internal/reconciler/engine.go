package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/astropet/platform/internal/authority"
	"github.com/astropet/platform/internal/catalog"
	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/guard"
	"github.com/astropet/platform/internal/notify"
	"github.com/astropet/platform/internal/state"
	"github.com/google/uuid"
)

// Engine is the economy state reconciler. Each command applies a
// player-initiated economy action as exactly one authority round trip plus
// a local state mutation that happens only after the authority confirms.
// The local snapshot never leads the durable copy; on failure it is left
// unchanged or explicitly compensated.
type Engine struct {
	container *state.Container
	authority authority.Client
	catalog   catalog.Source
	notifier  *notify.Notifier
	logger    *slog.Logger

	idem      *guard.IdempotencyGuard
	lockout   *guard.CodeLockout
	purchases *guard.RateLimiter

	// stockMu guards soldLocal, the process-local count of units sold per
	// listing this session. Effective stock = catalog stock - soldLocal.
	stockMu   sync.Mutex
	soldLocal map[string]int
}

// Deps holds the collaborators an Engine needs.
type Deps struct {
	Container *state.Container
	Authority authority.Client
	Catalog   catalog.Source
	Notifier  *notify.Notifier
	Logger    *slog.Logger
	Purchases *guard.RateLimiter
}

// NewEngine creates a reconciler engine.
func NewEngine(deps Deps) *Engine {
	return &Engine{
		container: deps.Container,
		authority: deps.Authority,
		catalog:   deps.Catalog,
		notifier:  deps.Notifier,
		logger:    deps.Logger,
		idem:      guard.NewIdempotencyGuard(),
		lockout:   guard.NewCodeLockout(),
		purchases: deps.Purchases,
		soldLocal: make(map[string]int),
	}
}

// player returns the loaded player or a NOT_AUTHENTICATED error.
func (e *Engine) player() (*domain.Player, error) {
	p := e.container.Player()
	if p == nil {
		return nil, domain.ErrNotAuthenticated()
	}
	return p, nil
}

// StartSession loads the authoritative player, pets and inventory into the
// local snapshot and refreshes the redeem-code list.
func (e *Engine) StartSession(ctx context.Context, playerID uuid.UUID) error {
	player, err := e.authority.LoadPlayer(ctx, playerID)
	if err != nil {
		return fmt.Errorf("load player: %w", err)
	}
	pets, err := e.authority.LoadPets(ctx, playerID)
	if err != nil {
		return fmt.Errorf("load pets: %w", err)
	}
	inventory, err := e.authority.LoadInventory(ctx, playerID)
	if err != nil {
		return fmt.Errorf("load inventory: %w", err)
	}

	e.container.Apply(func(s *state.Snapshot) {
		s.Player = player
		s.Pets = pets
		s.Inventory = inventory
	})

	if err := e.RefreshCodes(ctx); err != nil {
		// Codes are non-critical at session start; the list reloads lazily.
		e.logger.Warn("refresh codes failed", "error", err)
	}

	e.logger.Info("session started", "player_id", playerID)
	return nil
}

// RefreshCodes replaces the local redeem-code list from the catalog,
// preserving consumption state already recorded this session.
func (e *Engine) RefreshCodes(ctx context.Context) error {
	codes, err := e.catalog.Codes(ctx)
	if err != nil {
		return fmt.Errorf("load codes: %w", err)
	}
	e.container.Apply(func(s *state.Snapshot) {
		for i := range codes {
			for _, existing := range s.RedeemCodes {
				if existing.Matches(codes[i].Code) {
					codes[i].Uses = maxInt(codes[i].Uses, existing.Uses)
					codes[i].UsedBy = mergeUsedBy(codes[i].UsedBy, existing.UsedBy)
				}
			}
		}
		s.RedeemCodes = codes
	})
	return nil
}

// ReloadKind refreshes one entity kind from the authority. Subscription
// change events map to full reloads, never incremental merges.
func (e *Engine) ReloadKind(ctx context.Context, kind domain.AggregateType) error {
	player, err := e.player()
	if err != nil {
		return err
	}

	switch kind {
	case domain.AggregatePlayer, domain.AggregateWallet:
		fresh, err := e.authority.LoadPlayer(ctx, player.ID)
		if err != nil {
			return fmt.Errorf("reload player: %w", err)
		}
		e.container.Apply(func(s *state.Snapshot) { s.Player = fresh })
	case domain.AggregatePet:
		pets, err := e.authority.LoadPets(ctx, player.ID)
		if err != nil {
			return fmt.Errorf("reload pets: %w", err)
		}
		e.container.Apply(func(s *state.Snapshot) { s.Pets = pets })
	case domain.AggregateInventory:
		inventory, err := e.authority.LoadInventory(ctx, player.ID)
		if err != nil {
			return fmt.Errorf("reload inventory: %w", err)
		}
		e.container.Apply(func(s *state.Snapshot) { s.Inventory = inventory })
	case domain.AggregateCode:
		return e.RefreshCodes(ctx)
	default:
		e.logger.Debug("ignoring change event for unknown kind", "kind", kind)
	}
	return nil
}

// effectiveStock returns the listing stock minus units already sold locally.
func (e *Engine) effectiveStock(listing *domain.Listing) int {
	e.stockMu.Lock()
	defer e.stockMu.Unlock()
	return listing.Stock - e.soldLocal[listing.ID]
}

// recordSold decrements local stock after a confirmed purchase.
func (e *Engine) recordSold(listingID string, qty int) {
	e.stockMu.Lock()
	defer e.stockMu.Unlock()
	e.soldLocal[listingID] += qty
}

// nowFn is swapped in tests to pin timestamps.
var nowFn = time.Now

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func mergeUsedBy(a, b []uuid.UUID) []uuid.UUID {
	out := a
	for _, id := range b {
		found := false
		for _, existing := range out {
			if existing == id {
				found = true
				break
			}
		}
		if !found {
			out = append(out, id)
		}
	}
	return out
}
