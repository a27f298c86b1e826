package repository

import (
	"context"
	"time"

	"github.com/astropet/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// PlayerRepository provides access to the players table.
type PlayerRepository interface {
	// FindByID returns a player by ID, or nil if absent.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Player, error)

	// LockForUpdate acquires a row-level lock (SELECT FOR UPDATE) and returns the player.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Player, error)

	// Create inserts a new player.
	Create(ctx context.Context, db DBTX, player *domain.Player) error

	// AdjustBalance applies a signed delta with server-side arithmetic and a
	// balance >= 0 guard on debits. Returns nil when the guard rejects.
	AdjustBalance(ctx context.Context, tx pgx.Tx, playerID uuid.UUID, kind domain.CurrencyKind, delta int64) (*domain.Player, error)

	// AddAccountPoints increments the aggregate account score.
	AddAccountPoints(ctx context.Context, tx pgx.Tx, playerID uuid.UUID, points int64) (*domain.Player, error)
}

// WalletEntryRepository provides access to the append-only wallet_entries ledger.
type WalletEntryRepository interface {
	// FindByIdempotencyKey returns an earlier entry posted under the key, or nil.
	FindByIdempotencyKey(ctx context.Context, db DBTX, playerID uuid.UUID, key string) (*domain.WalletEntry, error)

	// Insert creates a ledger entry carrying the post-update balance snapshot.
	Insert(ctx context.Context, db DBTX, params domain.PostWalletEntryParams, balances domain.Balances) (*domain.WalletEntry, error)

	// ListByPlayer returns entries for a player, newest first.
	ListByPlayer(ctx context.Context, db DBTX, playerID uuid.UUID, limit int) ([]domain.WalletEntry, error)
}

// PetRepository provides access to the pets table.
type PetRepository interface {
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Pet, error)
	ListByOwner(ctx context.Context, db DBTX, ownerID uuid.UUID) ([]domain.Pet, error)
	Create(ctx context.Context, db DBTX, pet *domain.Pet) error

	// UpdateStats overwrites the pet's full stat block and bumps
	// last_interaction. Returns nil when the pet is absent.
	UpdateStats(ctx context.Context, tx pgx.Tx, petID uuid.UUID, stats domain.PetStats) (*domain.Pet, error)
}

// InventoryRepository provides access to inventory_entries.
type InventoryRepository interface {
	ListByPlayer(ctx context.Context, db DBTX, playerID uuid.UUID) (domain.Inventory, error)

	// Credit upserts qty units into the player's unequipped stack for the item.
	Credit(ctx context.Context, tx pgx.Tx, playerID uuid.UUID, itemID string, qty int) (*domain.InventoryEntry, error)

	// Debit removes qty units from an entry, deleting the row at zero.
	// Returns false when the entry is absent or holds fewer than qty units.
	Debit(ctx context.Context, tx pgx.Tx, playerID, entryID uuid.UUID, qty int) (bool, error)
}

// CodeRepository provides access to code_consumptions.
type CodeRepository interface {
	// InsertConsumption records a per-player one-time consumption. The
	// primary key (code, player_id) enforces the one-time constraint;
	// a duplicate insert reports pgx's unique violation.
	InsertConsumption(ctx context.Context, tx pgx.Tx, code string, playerID uuid.UUID) error

	// CountUses returns how many players have consumed the code.
	CountUses(ctx context.Context, db DBTX, code string) (int, error)
}

// CollectibleRepository provides access to player_collectibles.
type CollectibleRepository interface {
	// Grant marks a collectible collected for the player. Idempotent.
	Grant(ctx context.Context, tx pgx.Tx, playerID uuid.UUID, collectibleID string, at time.Time) error

	ListByPlayer(ctx context.Context, db DBTX, playerID uuid.UUID) ([]domain.Collectible, error)
}

// CheckInRepository provides access to check_in_streaks.
type CheckInRepository interface {
	// FindByPlayer returns the player's streak row, or nil before the first check-in.
	FindByPlayer(ctx context.Context, tx pgx.Tx, playerID uuid.UUID) (*domain.CheckInStreak, error)

	// Upsert writes the streak row.
	Upsert(ctx context.Context, tx pgx.Tx, streak domain.CheckInStreak) error
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the write it mirrors).
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublished returns unpublished events for the outbox poller.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]domain.OutboxDraft, error)

	// MarkPublished deletes published events.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}
