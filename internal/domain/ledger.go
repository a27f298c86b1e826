package domain

import (
	"time"

	"github.com/google/uuid"
)

// WalletEntry is one row of the append-only balance ledger. Every confirmed
// balance mutation inserts exactly one entry carrying the post-update
// balance snapshot.
type WalletEntry struct {
	ID             uuid.UUID    `json:"id"`
	PlayerID       uuid.UUID    `json:"player_id"`
	Kind           CurrencyKind `json:"kind"`
	Delta          int64        `json:"delta"`
	Balances       Balances     `json:"balances"`
	Reason         string       `json:"reason,omitempty"`
	IdempotencyKey string       `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// PostWalletEntryParams describes one balance mutation to post.
type PostWalletEntryParams struct {
	PlayerID       uuid.UUID
	Kind           CurrencyKind
	Delta          int64
	Reason         string
	IdempotencyKey string
}

// BalanceAdjustResult is the outcome of a posted balance adjustment.
// Idempotent is set when a replayed idempotency key short-circuited the
// write and the returned entry is the original one.
type BalanceAdjustResult struct {
	Entry      *WalletEntry
	Player     *Player
	Idempotent bool
}
