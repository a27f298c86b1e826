package ledger

import (
	"context"
	"fmt"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Engine provides the foundational authority-side write operations:
//  1. LockPlayerForUpdate — row-level pessimistic lock
//  2. FindExistingEntry — idempotency check against the wallet ledger
//  3. PostWalletEntry — guarded balance update + append-only insert + outbox event
//
// Every command composes these inside the caller's transaction.
type Engine struct {
	players      repository.PlayerRepository
	entries      repository.WalletEntryRepository
	pets         repository.PetRepository
	inventory    repository.InventoryRepository
	codes        repository.CodeRepository
	collectibles repository.CollectibleRepository
	checkins     repository.CheckInRepository
	outbox       repository.OutboxRepository
}

// Repos bundles the repositories an Engine composes.
type Repos struct {
	Players      repository.PlayerRepository
	Entries      repository.WalletEntryRepository
	Pets         repository.PetRepository
	Inventory    repository.InventoryRepository
	Codes        repository.CodeRepository
	Collectibles repository.CollectibleRepository
	CheckIns     repository.CheckInRepository
	Outbox       repository.OutboxRepository
}

// NewEngine creates a ledger engine with the given repositories.
func NewEngine(r Repos) *Engine {
	return &Engine{
		players:      r.Players,
		entries:      r.Entries,
		pets:         r.Pets,
		inventory:    r.Inventory,
		codes:        r.Codes,
		collectibles: r.Collectibles,
		checkins:     r.CheckIns,
		outbox:       r.Outbox,
	}
}

// LockPlayerForUpdate acquires a row-level lock and returns the player.
// Must be called within a transaction.
func (e *Engine) LockPlayerForUpdate(ctx context.Context, tx pgx.Tx, playerID uuid.UUID) (*domain.Player, error) {
	player, err := e.players.LockForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, fmt.Errorf("lock player: %w", err)
	}
	if player == nil {
		return nil, domain.ErrNotFound("player", playerID.String())
	}
	return player, nil
}

// FindExistingEntry checks whether an entry was already posted under the
// idempotency key. Returns nil when no duplicate exists.
func (e *Engine) FindExistingEntry(ctx context.Context, tx pgx.Tx, playerID uuid.UUID, key string) (*domain.WalletEntry, error) {
	existing, err := e.entries.FindByIdempotencyKey(ctx, tx, playerID, key)
	if err != nil {
		return nil, fmt.Errorf("find existing entry: %w", err)
	}
	return existing, nil
}

// PostWalletEntry atomically applies a guarded balance delta, appends the
// ledger entry with the post-update snapshot, and inserts the outbox event.
// All three writes run within the caller's transaction. A debit past zero
// misses the guard and comes back as INSUFFICIENT_BALANCE.
func (e *Engine) PostWalletEntry(ctx context.Context, tx pgx.Tx, params domain.PostWalletEntryParams) (*domain.WalletEntry, *domain.Player, error) {
	updated, err := e.players.AdjustBalance(ctx, tx, params.PlayerID, params.Kind, params.Delta)
	if err != nil {
		return nil, nil, fmt.Errorf("adjust balance: %w", err)
	}
	if updated == nil {
		return nil, nil, domain.ErrInsufficientBalance(params.Kind)
	}

	entry, err := e.entries.Insert(ctx, tx, params, updated.Balances)
	if err != nil {
		return nil, nil, fmt.Errorf("insert wallet entry: %w", err)
	}

	event := domain.NewBalanceAdjustedEvent(params.PlayerID,
		domain.BalanceDelta{Kind: params.Kind, Delta: params.Delta}, updated.Balances)
	if err := e.outbox.Insert(ctx, tx, event); err != nil {
		return nil, nil, fmt.Errorf("insert outbox event: %w", err)
	}

	return entry, updated, nil
}
