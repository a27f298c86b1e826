package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/astropet/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type codeRepo struct{}

// NewCodeRepository returns a pgx-backed CodeRepository.
func NewCodeRepository() CodeRepository {
	return &codeRepo{}
}

// InsertConsumption relies on the (code, player_id) primary key for the
// per-player one-time constraint. Codes are stored uppercased so lookups
// stay case-insensitive.
func (r *codeRepo) InsertConsumption(ctx context.Context, tx pgx.Tx, code string, playerID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO code_consumptions (code, player_id, consumed_at)
		VALUES ($1, $2, now())`, strings.ToUpper(code), playerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyConsumed(code)
		}
		return fmt.Errorf("insert code consumption: %w", err)
	}
	return nil
}

func (r *codeRepo) CountUses(ctx context.Context, db DBTX, code string) (int, error) {
	var count int
	err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM code_consumptions WHERE code = $1`,
		strings.ToUpper(code)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count code uses: %w", err)
	}
	return count, nil
}

type collectibleRepo struct{}

// NewCollectibleRepository returns a pgx-backed CollectibleRepository.
func NewCollectibleRepository() CollectibleRepository {
	return &collectibleRepo{}
}

func (r *collectibleRepo) Grant(ctx context.Context, tx pgx.Tx, playerID uuid.UUID, collectibleID string, at time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO player_collectibles (player_id, collectible_id, collected_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, collectible_id) DO NOTHING`,
		playerID, collectibleID, at)
	if err != nil {
		return fmt.Errorf("grant collectible: %w", err)
	}
	return nil
}

func (r *collectibleRepo) ListByPlayer(ctx context.Context, db DBTX, playerID uuid.UUID) ([]domain.Collectible, error) {
	rows, err := db.Query(ctx, `
		SELECT collectible_id, collected_at
		FROM player_collectibles
		WHERE player_id = $1
		ORDER BY collected_at ASC`, playerID)
	if err != nil {
		return nil, fmt.Errorf("list collectibles: %w", err)
	}
	defer rows.Close()

	var out []domain.Collectible
	for rows.Next() {
		var c domain.Collectible
		var at time.Time
		if err := rows.Scan(&c.ID, &at); err != nil {
			return nil, fmt.Errorf("scan collectible: %w", err)
		}
		c.Collected = true
		c.CollectedAt = &at
		out = append(out, c)
	}
	return out, rows.Err()
}

type checkInRepo struct{}

// NewCheckInRepository returns a pgx-backed CheckInRepository.
func NewCheckInRepository() CheckInRepository {
	return &checkInRepo{}
}

func (r *checkInRepo) FindByPlayer(ctx context.Context, tx pgx.Tx, playerID uuid.UUID) (*domain.CheckInStreak, error) {
	var s domain.CheckInStreak
	err := tx.QueryRow(ctx, `
		SELECT player_id, current, best, last_check_in
		FROM check_in_streaks WHERE player_id = $1 FOR UPDATE`,
		playerID).Scan(&s.PlayerID, &s.Current, &s.Best, &s.LastCheckIn)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find check-in streak: %w", err)
	}
	return &s, nil
}

func (r *checkInRepo) Upsert(ctx context.Context, tx pgx.Tx, streak domain.CheckInStreak) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO check_in_streaks (player_id, current, best, last_check_in)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (player_id)
		DO UPDATE SET current = EXCLUDED.current, best = EXCLUDED.best, last_check_in = EXCLUDED.last_check_in`,
		streak.PlayerID, streak.Current, streak.Best, streak.LastCheckIn)
	if err != nil {
		return fmt.Errorf("upsert check-in streak: %w", err)
	}
	return nil
}
