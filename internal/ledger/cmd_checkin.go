package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/astropet/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ExecuteCheckIn records a daily check-in with a server-side timestamp.
// Calendar days are UTC. A same-day repeat is rejected; a gap of more than
// one day resets the streak to 1.
func (e *Engine) ExecuteCheckIn(ctx context.Context, tx pgx.Tx, playerID uuid.UUID) (*domain.CheckInStreak, error) {
	if _, err := e.LockPlayerForUpdate(ctx, tx, playerID); err != nil {
		return nil, fmt.Errorf("check-in: %w", err)
	}

	streak, err := e.checkins.FindByPlayer(ctx, tx, playerID)
	if err != nil {
		return nil, fmt.Errorf("check-in: %w", err)
	}
	if streak == nil {
		streak = &domain.CheckInStreak{PlayerID: playerID}
	}

	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	if streak.LastCheckIn != nil {
		last := streak.LastCheckIn.UTC().Truncate(24 * time.Hour)
		switch {
		case last.Equal(today):
			return nil, domain.ErrValidation("already checked in today")
		case last.Equal(today.AddDate(0, 0, -1)):
			streak.Current++
		default:
			streak.Current = 1
		}
	} else {
		streak.Current = 1
	}
	if streak.Current > streak.Best {
		streak.Best = streak.Current
	}
	streak.LastCheckIn = &now

	if err := e.checkins.Upsert(ctx, tx, *streak); err != nil {
		return nil, fmt.Errorf("check-in: %w", err)
	}
	if err := e.outbox.Insert(ctx, tx, domain.NewCheckInRecordedEvent(playerID, streak.Current)); err != nil {
		return nil, fmt.Errorf("check-in event: %w", err)
	}
	return streak, nil
}
