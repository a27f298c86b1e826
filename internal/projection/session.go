package projection

import (
	"context"
	"errors"
	"fmt"

	"github.com/astropet/platform/internal/state"
)

// Session snapshots have no TTL; they live until overwritten.
const sessionKeyPrefix = "session:snapshot:"

// SaveSession persists the player's session snapshot to the local cache.
func SaveSession(ctx context.Context, store Store, playerID string, snap state.Snapshot) error {
	if err := SetJSON(ctx, store, sessionKeyPrefix+playerID, snap, 0); err != nil {
		return fmt.Errorf("save session %s: %w", playerID, err)
	}
	return nil
}

// LoadSession restores a previously saved snapshot. Returns (nil, nil) when
// no snapshot exists for the player. time.Time fields are restored by the
// typed unmarshal; see RehydrateDates for untyped payloads.
func LoadSession(ctx context.Context, store Store, playerID string) (*state.Snapshot, error) {
	var snap state.Snapshot
	err := GetJSON(ctx, store, sessionKeyPrefix+playerID, &snap)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", playerID, err)
	}
	return &snap, nil
}

// DeleteSession drops a player's cached snapshot.
func DeleteSession(ctx context.Context, store Store, playerID string) error {
	return store.Delete(ctx, sessionKeyPrefix+playerID)
}
