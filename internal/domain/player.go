package domain

import (
	"time"

	"github.com/google/uuid"
)

// CurrencyKind identifies one of the two independent in-game balances.
type CurrencyKind string

const (
	// CurrencyXenocoins is the soft currency, earned through normal play.
	CurrencyXenocoins CurrencyKind = "xenocoins"
	// CurrencyCash is the hard currency, earned rarely or granted by codes.
	CurrencyCash CurrencyKind = "cash"
)

// Valid reports whether k names a known currency.
func (k CurrencyKind) Valid() bool {
	return k == CurrencyXenocoins || k == CurrencyCash
}

// Balances holds the two currency counters. Invariant: never negative.
// Mutations are relative deltas; absolute overwrite happens only on load.
type Balances struct {
	Xenocoins int64 `json:"xenocoins"`
	Cash      int64 `json:"cash"`
}

// Get returns the counter for the given kind.
func (b Balances) Get(kind CurrencyKind) int64 {
	if kind == CurrencyCash {
		return b.Cash
	}
	return b.Xenocoins
}

// Add applies a signed delta to the given kind, clamped to a floor of zero.
func (b *Balances) Add(kind CurrencyKind, delta int64) {
	switch kind {
	case CurrencyCash:
		b.Cash += delta
		if b.Cash < 0 {
			b.Cash = 0
		}
	default:
		b.Xenocoins += delta
		if b.Xenocoins < 0 {
			b.Xenocoins = 0
		}
	}
}

// Player is the account record. Created at signup, mutated by reconciled
// economy operations, never deleted by the client.
type Player struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Balances
	AccountPoints int64     `json:"account_points"`
	Language      string    `json:"language"`
	CreatedAt     time.Time `json:"created_at"`
	LastLogin     time.Time `json:"last_login"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BalanceDelta describes a relative currency mutation sent to the authority.
type BalanceDelta struct {
	Kind  CurrencyKind `json:"kind"`
	Delta int64        `json:"delta"`
}

// MapPosition is the saved galaxy-map viewport for a player.
type MapPosition struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// CheckInStreak tracks consecutive daily check-ins. Timestamps are
// authority-assigned; client clocks are never trusted for streak math.
type CheckInStreak struct {
	PlayerID    uuid.UUID  `json:"player_id"`
	Current     int        `json:"current"`
	Best        int        `json:"best"`
	LastCheckIn *time.Time `json:"last_check_in,omitempty"`
}
