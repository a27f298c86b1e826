package projection

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/state"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreRoundTrip(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestInMemoryStoreTTL(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Nanosecond))
	time.Sleep(time.Millisecond)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "state.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte(`{"a":1}`), 0))

	// A fresh store on the same path sees the persisted value.
	s2, err := NewFileStore(path)
	require.NoError(t, err)
	v, err := s2.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(v))

	require.NoError(t, s2.Delete(ctx, "k"))
	_, err = s2.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSessionRoundTripPreservesDates(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	hatch := created.Add(48 * time.Hour)
	playerID := uuid.New()

	snap := state.Snapshot{
		Player: &domain.Player{ID: playerID, Username: "rex", CreatedAt: created, LastLogin: created, UpdatedAt: created},
		Pets:   []domain.Pet{{ID: uuid.New(), OwnerID: playerID, HatchTime: &hatch, CreatedAt: created, UpdatedAt: created}},
	}
	require.NoError(t, SaveSession(ctx, s, playerID.String(), snap))

	restored, err := LoadSession(ctx, s, playerID.String())
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.True(t, restored.Player.CreatedAt.Equal(created), "createdAt must be a date, not a string")
	require.NotNil(t, restored.Pets[0].HatchTime)
	assert.True(t, restored.Pets[0].HatchTime.Equal(hatch))
}

func TestLoadSessionMissingReturnsNil(t *testing.T) {
	restored, err := LoadSession(context.Background(), NewInMemoryStore(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, restored)
}

func TestRehydrateDates(t *testing.T) {
	raw := []byte(`{
		"player": {"createdAt": "2024-05-01T12:30:00Z", "username": "rex"},
		"pets": [{"hatch_time": "2024-05-03T12:30:00Z", "name": "blob"}],
		"note": {"expiresAt": "not-a-date"}
	}`)
	var tree interface{}
	require.NoError(t, json.Unmarshal(raw, &tree))

	out := RehydrateDates(tree).(map[string]interface{})

	player := out["player"].(map[string]interface{})
	ts, ok := player["createdAt"].(time.Time)
	require.True(t, ok, "createdAt should become time.Time")
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, "rex", player["username"])

	pet := out["pets"].([]interface{})[0].(map[string]interface{})
	_, ok = pet["hatch_time"].(time.Time)
	assert.True(t, ok)

	note := out["note"].(map[string]interface{})
	_, isString := note["expiresAt"].(string)
	assert.True(t, isString, "unparseable values stay strings")
}
