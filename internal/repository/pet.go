package repository

import (
	"context"
	"fmt"

	"github.com/astropet/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type petRepo struct{}

// NewPetRepository returns a pgx-backed PetRepository.
func NewPetRepository() PetRepository {
	return &petRepo{}
}

const petColumns = `id, owner_id, name, species, level, stats, hatch_time, last_interaction, death_date, created_at, updated_at`

func (r *petRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Pet, error) {
	row := db.QueryRow(ctx, `
		SELECT `+petColumns+`
		FROM pets WHERE id = $1`, id)
	return scanPet(row)
}

func (r *petRepo) ListByOwner(ctx context.Context, db DBTX, ownerID uuid.UUID) ([]domain.Pet, error) {
	rows, err := db.Query(ctx, `
		SELECT `+petColumns+`
		FROM pets WHERE owner_id = $1
		ORDER BY created_at ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	defer rows.Close()

	var pets []domain.Pet
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		pets = append(pets, *pet)
	}
	return pets, rows.Err()
}

func (r *petRepo) Create(ctx context.Context, db DBTX, pet *domain.Pet) error {
	_, err := db.Exec(ctx, `
		INSERT INTO pets (id, owner_id, name, species, level, stats, hatch_time, last_interaction, death_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		pet.ID, pet.OwnerID, pet.Name, pet.Species, pet.Level, pet.Stats,
		pet.HatchTime, pet.LastInteraction, pet.DeathDate, pet.CreatedAt, pet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pet: %w", err)
	}
	return nil
}

func (r *petRepo) UpdateStats(ctx context.Context, tx pgx.Tx, petID uuid.UUID, stats domain.PetStats) (*domain.Pet, error) {
	row := tx.QueryRow(ctx, `
		UPDATE pets SET stats = $2, last_interaction = now(), updated_at = now()
		WHERE id = $1
		RETURNING `+petColumns, petID, stats)
	return scanPet(row)
}

func scanPet(row pgx.Row) (*domain.Pet, error) {
	var p domain.Pet
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.Level, &p.Stats,
		&p.HatchTime, &p.LastInteraction, &p.DeathDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan pet: %w", err)
	}
	return &p, nil
}
