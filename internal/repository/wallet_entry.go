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

type walletEntryRepo struct{}

// NewWalletEntryRepository returns a pgx-backed WalletEntryRepository.
func NewWalletEntryRepository() WalletEntryRepository {
	return &walletEntryRepo{}
}

const entryColumns = `id, player_id, kind, delta, xenocoins_after, cash_after, reason, idempotency_key, created_at`

func (r *walletEntryRepo) FindByIdempotencyKey(ctx context.Context, db DBTX, playerID uuid.UUID, key string) (*domain.WalletEntry, error) {
	if key == "" {
		return nil, nil
	}
	row := db.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM wallet_entries
		WHERE player_id = $1 AND idempotency_key = $2`, playerID, key)
	entry, err := scanWalletEntry(row)
	if err != nil {
		return nil, fmt.Errorf("find entry by idempotency key: %w", err)
	}
	return entry, nil
}

func (r *walletEntryRepo) Insert(ctx context.Context, db DBTX, params domain.PostWalletEntryParams, balances domain.Balances) (*domain.WalletEntry, error) {
	var key interface{}
	if params.IdempotencyKey != "" {
		key = params.IdempotencyKey
	}
	row := db.QueryRow(ctx, `
		INSERT INTO wallet_entries (id, player_id, kind, delta, xenocoins_after, cash_after, reason, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING `+entryColumns,
		uuid.New(),
		params.PlayerID,
		string(params.Kind),
		infra.Int64ToNumeric(params.Delta),
		infra.Int64ToNumeric(balances.Xenocoins),
		infra.Int64ToNumeric(balances.Cash),
		params.Reason,
		key,
	)
	entry, err := scanWalletEntry(row)
	if err != nil {
		return nil, fmt.Errorf("insert wallet entry: %w", err)
	}
	return entry, nil
}

func (r *walletEntryRepo) ListByPlayer(ctx context.Context, db DBTX, playerID uuid.UUID, limit int) ([]domain.WalletEntry, error) {
	rows, err := db.Query(ctx, `
		SELECT `+entryColumns+`
		FROM wallet_entries
		WHERE player_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list wallet entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.WalletEntry
	for rows.Next() {
		entry, err := scanWalletEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func scanWalletEntry(row pgx.Row) (*domain.WalletEntry, error) {
	var e domain.WalletEntry
	var deltaNum, xenoNum, cashNum pgtype.Numeric
	var reason, key *string
	err := row.Scan(&e.ID, &e.PlayerID, &e.Kind, &deltaNum, &xenoNum, &cashNum, &reason, &key, &e.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet entry: %w", err)
	}

	var convErr error
	e.Delta, convErr = infra.NumericToInt64(deltaNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert delta: %w", convErr)
	}
	e.Balances.Xenocoins, convErr = infra.NumericToInt64(xenoNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert xenocoins_after: %w", convErr)
	}
	e.Balances.Cash, convErr = infra.NumericToInt64(cashNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert cash_after: %w", convErr)
	}
	if reason != nil {
		e.Reason = *reason
	}
	if key != nil {
		e.IdempotencyKey = *key
	}
	return &e, nil
}
