package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventPlayerCreated    EventType = "pet.player.created"
	EventBalanceAdjusted  EventType = "pet.wallet.balance.adjusted"
	EventCodeConsumed     EventType = "pet.code.consumed"
	EventPetUpdated       EventType = "pet.pet.updated"
	EventInventoryChanged EventType = "pet.inventory.changed"
	EventCheckInRecorded  EventType = "pet.checkin.recorded"
)

// AggregateType enumerates the aggregate root types for outbox events.
// Each maps to one entity kind the client reloads wholesale on change.
type AggregateType string

const (
	AggregatePlayer    AggregateType = "player"
	AggregateWallet    AggregateType = "wallet"
	AggregatePet       AggregateType = "pet"
	AggregateInventory AggregateType = "inventory"
	AggregateStore     AggregateType = "store"
	AggregateCode      AggregateType = "code"
)

// OutboxDraft is the payload written to the event_outbox table.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"eventId"`
	AggregateType AggregateType   `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	EventType     EventType       `json:"eventType"`
	PartitionKey  string          `json:"partitionKey"`
	Headers       json.RawMessage `json:"headers"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// NewBalanceAdjustedEvent creates the wallet change event for a posted delta.
func NewBalanceAdjustedEvent(playerID uuid.UUID, delta BalanceDelta, balances Balances) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"player_id": playerID.String(),
		"kind":      delta.Kind,
		"delta":     delta.Delta,
		"balances":  balances,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateWallet,
		AggregateID:   playerID.String(),
		EventType:     EventBalanceAdjusted,
		PartitionKey:  playerID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewCodeConsumedEvent creates the change event for a redeem-code consumption.
func NewCodeConsumedEvent(playerID uuid.UUID, code string) OutboxDraft {
	payload, _ := json.Marshal(map[string]string{
		"player_id": playerID.String(),
		"code":      code,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateCode,
		AggregateID:   code,
		EventType:     EventCodeConsumed,
		PartitionKey:  playerID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewInventoryChangedEvent creates the change event for an inventory credit
// or debit.
func NewInventoryChangedEvent(playerID uuid.UUID, itemID string, delta int) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"player_id": playerID.String(),
		"item_id":   itemID,
		"delta":     delta,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateInventory,
		AggregateID:   playerID.String(),
		EventType:     EventInventoryChanged,
		PartitionKey:  playerID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewCheckInRecordedEvent creates the change event for a recorded check-in.
func NewCheckInRecordedEvent(playerID uuid.UUID, streak int) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"player_id": playerID.String(),
		"streak":    streak,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregatePlayer,
		AggregateID:   playerID.String(),
		EventType:     EventCheckInRecorded,
		PartitionKey:  playerID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewPetUpdatedEvent creates the change event for a persisted pet stat write.
func NewPetUpdatedEvent(petID, ownerID uuid.UUID) OutboxDraft {
	payload, _ := json.Marshal(map[string]string{
		"pet_id":   petID.String(),
		"owner_id": ownerID.String(),
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregatePet,
		AggregateID:   petID.String(),
		EventType:     EventPetUpdated,
		PartitionKey:  ownerID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}
