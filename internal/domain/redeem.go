package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CodeRewards lists the reward categories a redeem code may grant.
type CodeRewards struct {
	Xenocoins     int64    `json:"xenocoins,omitempty"`
	Cash          int64    `json:"cash,omitempty"`
	AccountPoints int64    `json:"account_points,omitempty"`
	Collectibles  []string `json:"collectibles,omitempty"`
}

// RedeemCode is a shared reward token with a usage cap and a per-player
// one-time-use constraint.
type RedeemCode struct {
	Code      string      `json:"code"`
	Rewards   CodeRewards `json:"rewards"`
	MaxUses   int         `json:"max_uses"`
	Uses      int         `json:"uses"`
	Enabled   bool        `json:"enabled"`
	ExpiresAt *time.Time  `json:"expires_at,omitempty"`
	UsedBy    []uuid.UUID `json:"used_by,omitempty"`
}

// Active reports whether the code can still be redeemed at all:
// enabled, under its usage cap, and not expired.
func (c *RedeemCode) Active(now time.Time) bool {
	if !c.Enabled {
		return false
	}
	if c.MaxUses > 0 && c.Uses >= c.MaxUses {
		return false
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	return true
}

// ConsumedBy reports whether the given player already redeemed this code.
func (c *RedeemCode) ConsumedBy(playerID uuid.UUID) bool {
	for _, id := range c.UsedBy {
		if id == playerID {
			return true
		}
	}
	return false
}

// Matches compares codes case-insensitively with surrounding space ignored.
func (c *RedeemCode) Matches(input string) bool {
	return strings.EqualFold(c.Code, strings.TrimSpace(input))
}
