package guard

import (
	"context"
	"sync"
	"time"

	"github.com/astropet/platform/internal/domain"
)

const (
	// MaxCodeAttempts failed redemptions within the window lock further tries.
	MaxCodeAttempts   = 5
	CodeLockoutWindow = 15 * time.Minute
)

// CodeLockout throttles redeem-code guessing per player. Only failed
// attempts count; a successful redemption clears the window.
type CodeLockout struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
}

// NewCodeLockout creates an in-memory code attempt tracker.
func NewCodeLockout() *CodeLockout {
	return &CodeLockout{attempts: make(map[string][]time.Time)}
}

// Check reports whether the player may attempt another code.
func (cl *CodeLockout) Check(_ context.Context, playerID string) domain.GuardResult {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	cutoff := time.Now().Add(-CodeLockoutWindow)
	entries := cl.attempts[playerID]
	valid := entries[:0]
	for _, t := range entries {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	cl.attempts[playerID] = valid

	if len(valid) >= MaxCodeAttempts {
		return domain.GuardResult{
			Allowed: false,
			Reason:  "too many failed code attempts, try again later",
			Guard:   "code_lockout",
		}
	}
	return domain.GuardResult{Allowed: true}
}

// RecordFailure counts a failed redemption attempt.
func (cl *CodeLockout) RecordFailure(playerID string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.attempts[playerID] = append(cl.attempts[playerID], time.Now())
}

// RecordSuccess clears the player's attempt window.
func (cl *CodeLockout) RecordSuccess(playerID string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	delete(cl.attempts, playerID)
}
