package domain

import (
	"time"

	"github.com/google/uuid"
)

// Achievement is an account-level unlock.
type Achievement struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Points      int64      `json:"points"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

// Collectible is a named collection entry that a player can mark collected.
type Collectible struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Series      string     `json:"series,omitempty"`
	Collected   bool       `json:"collected"`
	CollectedAt *time.Time `json:"collected_at,omitempty"`
}

// CheckInReward maps a streak length to its daily reward grant.
type CheckInReward struct {
	Day       int   `json:"day"`
	Xenocoins int64 `json:"xenocoins"`
	Cash      int64 `json:"cash"`
}

// CheckInResult is the outcome of a daily check-in attempt.
type CheckInResult struct {
	OK       bool          `json:"ok"`
	Message  string        `json:"message"`
	Streak   int           `json:"streak"`
	Reward   CheckInReward `json:"reward"`
	PlayerID uuid.UUID     `json:"player_id"`
}
