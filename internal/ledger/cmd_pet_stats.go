package ledger

import (
	"context"
	"fmt"

	"github.com/astropet/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ExecutePetStatsSave overwrites a pet's full stat block. The clamps are
// re-applied server-side so a hand-crafted request cannot push a care stat
// past its scale or a combat stat below zero.
func (e *Engine) ExecutePetStatsSave(ctx context.Context, tx pgx.Tx, petID uuid.UUID, stats domain.PetStats) (*domain.Pet, error) {
	clamped := stats.Clamp()

	pet, err := e.pets.UpdateStats(ctx, tx, petID, clamped)
	if err != nil {
		return nil, fmt.Errorf("pet stats save: %w", err)
	}
	if pet == nil {
		return nil, domain.ErrNotFound("pet", petID.String())
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewPetUpdatedEvent(pet.ID, pet.OwnerID)); err != nil {
		return nil, fmt.Errorf("pet stats event: %w", err)
	}
	return pet, nil
}
