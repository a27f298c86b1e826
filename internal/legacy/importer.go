package legacy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Importer carries accounts over from the original game's database export.
// Imports are idempotent: the same legacy record always maps to the same
// UUID, so re-running an import after a partial failure is safe.
type Importer struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewImporter creates a legacy account importer.
func NewImporter(pool *pgxpool.Pool, logger *slog.Logger) *Importer {
	return &Importer{pool: pool, logger: logger}
}

// DeterministicUUID generates a UUID from a legacy numeric ID using SHA256,
// so the same legacy record maps to the same UUID across import runs.
func DeterministicUUID(namespace, legacyID string) uuid.UUID {
	h := sha256.New()
	h.Write([]byte(namespace))
	h.Write([]byte(":"))
	h.Write([]byte(legacyID))
	digest := h.Sum(nil)

	// Use first 16 bytes as UUID, set version 5 (SHA-based)
	var id uuid.UUID
	copy(id[:], digest[:16])
	id[6] = (id[6] & 0x0f) | 0x50 // version 5
	id[8] = (id[8] & 0x3f) | 0x80 // variant RFC4122
	return id
}

// SHA256Hex returns the full SHA256 hex digest of namespace:legacyID.
func SHA256Hex(namespace, legacyID string) string {
	h := sha256.New()
	h.Write([]byte(namespace))
	h.Write([]byte(":"))
	h.Write([]byte(legacyID))
	return hex.EncodeToString(h.Sum(nil))
}

// Player is one row from the legacy users export.
type Player struct {
	LegacyID  string    `json:"legacy_id"`
	Username  string    `json:"username"`
	Xenocoins int64     `json:"xenocoins"`
	Cash      int64     `json:"cash"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// Pet is one row from the legacy pets export.
type Pet struct {
	LegacyID      string `json:"legacy_id"`
	OwnerLegacyID string `json:"owner_legacy_id"`
	Name          string `json:"name"`
	Species       string `json:"species"`
	Level         int    `json:"level"`
}

// ImportPlayer inserts a legacy player under its deterministic UUID.
// Existing rows are left untouched.
func (im *Importer) ImportPlayer(ctx context.Context, p Player) (uuid.UUID, error) {
	id := DeterministicUUID("player", p.LegacyID)

	lang := p.Language
	if lang == "" {
		lang = "en"
	}
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := im.pool.Exec(ctx, `
		INSERT INTO players (id, username, xenocoins, cash, language, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`,
		id, p.Username, p.Xenocoins, p.Cash, lang, created)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert imported player: %w", err)
	}

	im.logger.Info("imported legacy player",
		"legacy_id", p.LegacyID,
		"player_id", id,
		"username", p.Username)

	return id, nil
}

// ImportPet inserts a legacy pet under its deterministic UUID, attached to
// the deterministic UUID of its legacy owner.
func (im *Importer) ImportPet(ctx context.Context, p Pet) (uuid.UUID, error) {
	id := DeterministicUUID("pet", p.LegacyID)
	ownerID := DeterministicUUID("player", p.OwnerLegacyID)

	_, err := im.pool.Exec(ctx, `
		INSERT INTO pets (id, owner_id, name, species, level, stats)
		VALUES ($1, $2, $3, $4, $5, '{}')
		ON CONFLICT (id) DO NOTHING`,
		id, ownerID, p.Name, p.Species, p.Level)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert imported pet: %w", err)
	}

	return id, nil
}

// Readiness summarizes whether the new stack is safe to cut over to after
// an import run.
type Readiness struct {
	PlayersImported int    `json:"players_imported"`
	OutboxHealthy   bool   `json:"outbox_healthy"`
	Ready           bool   `json:"ready"`
	Message         string `json:"message"`
}

// CheckReadiness validates the system state after an import run: players
// present and no outbox events stuck unpublished.
func (im *Importer) CheckReadiness(ctx context.Context) (*Readiness, error) {
	r := &Readiness{}

	err := im.pool.QueryRow(ctx, `SELECT COUNT(*) FROM players`).Scan(&r.PlayersImported)
	if err != nil {
		return nil, fmt.Errorf("count players: %w", err)
	}

	var staleCount int
	err = im.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM event_outbox
		WHERE "publishedAt" IS NULL AND "occurredAt" < now() - interval '5 minutes'`).
		Scan(&staleCount)
	if err != nil {
		return nil, fmt.Errorf("check outbox: %w", err)
	}
	r.OutboxHealthy = staleCount == 0

	r.Ready = r.OutboxHealthy && r.PlayersImported > 0
	if r.Ready {
		r.Message = "import complete, system ready"
	} else {
		r.Message = "not ready: check outbox health and imported player count"
	}

	im.logger.Info("import readiness check",
		"ready", r.Ready,
		"players", r.PlayersImported,
		"outbox_healthy", r.OutboxHealthy)

	return r, nil
}
