package reconciler

import (
	"context"
	"fmt"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/projection"
	"github.com/astropet/platform/internal/state"
)

// SetMapPosition saves the galaxy-map viewport. Local UI state only; it
// persists with the session snapshot, never through the authority.
func (e *Engine) SetMapPosition(pos domain.MapPosition) error {
	if _, err := e.player(); err != nil {
		return err
	}
	if pos.Scale <= 0 {
		return domain.ErrValidation("map scale must be positive")
	}
	e.container.Apply(func(s *state.Snapshot) {
		s.MapPosition = pos
	})
	return nil
}

// SetScreen records the screen the player is on, restored next session.
func (e *Engine) SetScreen(screen string) error {
	if _, err := e.player(); err != nil {
		return err
	}
	e.container.Apply(func(s *state.Snapshot) {
		s.CurrentScreen = screen
	})
	return nil
}

// SaveSession writes the current snapshot to the local durable cache.
func (e *Engine) SaveSession(ctx context.Context, store projection.Store) error {
	player, err := e.player()
	if err != nil {
		return err
	}
	if err := projection.SaveSession(ctx, store, player.ID.String(), e.container.View()); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// RestoreSession loads a cached snapshot if one exists, giving the player
// their last state before the authority round trips complete. Returns
// whether a snapshot was found.
func (e *Engine) RestoreSession(ctx context.Context, store projection.Store, playerID string) (bool, error) {
	snap, err := projection.LoadSession(ctx, store, playerID)
	if err != nil {
		return false, fmt.Errorf("restore session: %w", err)
	}
	if snap == nil {
		return false, nil
	}
	e.container.Apply(func(s *state.Snapshot) {
		*s = *snap
	})
	e.logger.Info("session restored from cache", "player_id", playerID)
	return true, nil
}
