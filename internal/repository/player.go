package repository

import (
	"context"
	"fmt"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/infra"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type playerRepo struct{}

// NewPlayerRepository returns a pgx-backed PlayerRepository.
func NewPlayerRepository() PlayerRepository {
	return &playerRepo{}
}

const playerColumns = `id, username, xenocoins, cash, account_points, language, created_at, last_login, updated_at`

func (r *playerRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Player, error) {
	row := db.QueryRow(ctx, `
		SELECT `+playerColumns+`
		FROM players WHERE id = $1`, id)
	return scanPlayer(row)
}

func (r *playerRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Player, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+playerColumns+`
		FROM players WHERE id = $1 FOR UPDATE`, id)
	return scanPlayer(row)
}

func (r *playerRepo) Create(ctx context.Context, db DBTX, player *domain.Player) error {
	_, err := db.Exec(ctx, `
		INSERT INTO players (id, username, xenocoins, cash, account_points, language, created_at, last_login, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		player.ID,
		player.Username,
		infra.Int64ToNumeric(player.Xenocoins),
		infra.Int64ToNumeric(player.Cash),
		player.AccountPoints,
		player.Language,
		player.CreatedAt,
		player.LastLogin,
		player.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

// AdjustBalance uses server-side arithmetic so concurrent writers never
// overwrite each other. Debits carry a balance >= |delta| guard in the
// WHERE clause; a guard miss matches no row and comes back nil.
func (r *playerRepo) AdjustBalance(ctx context.Context, tx pgx.Tx, playerID uuid.UUID, kind domain.CurrencyKind, delta int64) (*domain.Player, error) {
	column := "xenocoins"
	if kind == domain.CurrencyCash {
		column = "cash"
	}

	guard := ""
	if delta < 0 {
		guard = fmt.Sprintf(" AND %s >= $2 * -1", column)
	}

	query := fmt.Sprintf(`
		UPDATE players SET %s = %s + $2, updated_at = now()
		WHERE id = $1%s
		RETURNING `+playerColumns, column, column, guard)

	row := tx.QueryRow(ctx, query, playerID, infra.Int64ToNumeric(delta))
	return scanPlayer(row)
}

func (r *playerRepo) AddAccountPoints(ctx context.Context, tx pgx.Tx, playerID uuid.UUID, points int64) (*domain.Player, error) {
	row := tx.QueryRow(ctx, `
		UPDATE players SET account_points = account_points + $2, updated_at = now()
		WHERE id = $1
		RETURNING `+playerColumns, playerID, points)
	return scanPlayer(row)
}

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	var xenoNum, cashNum pgtype.Numeric
	err := row.Scan(&p.ID, &p.Username, &xenoNum, &cashNum, &p.AccountPoints,
		&p.Language, &p.CreatedAt, &p.LastLogin, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan player: %w", err)
	}

	var convErr error
	p.Xenocoins, convErr = infra.NumericToInt64(xenoNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert xenocoins: %w", convErr)
	}
	p.Cash, convErr = infra.NumericToInt64(cashNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert cash: %w", convErr)
	}

	return &p, nil
}
