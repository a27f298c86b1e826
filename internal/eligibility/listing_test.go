package eligibility

import (
	"testing"
	"time"

	"github.com/astropet/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateListing(t *testing.T) {
	now := time.Now()
	player := &domain.Player{ID: uuid.New()}
	player.Xenocoins = 100

	tests := []struct {
		name       string
		req        domain.ListingRequirements
		pc         PlayerContext
		allowed    bool
		failedGate string
	}{
		{
			"no gates",
			domain.ListingRequirements{},
			PlayerContext{Player: player},
			true, "",
		},
		{
			"level gate passes",
			domain.ListingRequirements{MinLevel: 3},
			PlayerContext{Player: player, PetLevels: []int{1, 4}},
			true, "",
		},
		{
			"level gate fails",
			domain.ListingRequirements{MinLevel: 5},
			PlayerContext{Player: player, PetLevels: []int{1, 4}},
			false, "level",
		},
		{
			"achievement gate fails when locked",
			domain.ListingRequirements{RequiredAchievement: "first-hatch"},
			PlayerContext{Player: player, Achievements: []domain.Achievement{{ID: "first-hatch"}}},
			false, "achievement",
		},
		{
			"achievement gate passes when unlocked",
			domain.ListingRequirements{RequiredAchievement: "first-hatch"},
			PlayerContext{Player: player, Achievements: []domain.Achievement{{ID: "first-hatch", UnlockedAt: &now}}},
			true, "",
		},
		{
			"item gate fails",
			domain.ListingRequirements{RequiredItem: "map-piece"},
			PlayerContext{Player: player},
			false, "item",
		},
		{
			"item gate passes",
			domain.ListingRequirements{RequiredItem: "map-piece"},
			PlayerContext{Player: player, Inventory: domain.Inventory{{ID: uuid.New(), ItemID: "map-piece", Quantity: 1}}},
			true, "",
		},
		{
			"currency gate fails",
			domain.ListingRequirements{MinCurrencyKind: domain.CurrencyXenocoins, MinCurrencyAmount: 500},
			PlayerContext{Player: player},
			false, "currency",
		},
		{
			"currency gate passes",
			domain.ListingRequirements{MinCurrencyKind: domain.CurrencyXenocoins, MinCurrencyAmount: 50},
			PlayerContext{Player: player},
			true, "",
		},
		{
			"currency gate fails without player",
			domain.ListingRequirements{MinCurrencyKind: domain.CurrencyCash, MinCurrencyAmount: 1},
			PlayerContext{},
			false, "currency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := EvaluateListing(tt.req, tt.pc)
			assert.Equal(t, tt.allowed, eval.Allowed)
			assert.Equal(t, tt.failedGate, eval.FailedGate)
		})
	}
}

func TestGateOrder(t *testing.T) {
	// Level is checked before currency; both would fail, level is reported.
	req := domain.ListingRequirements{
		MinLevel:          9,
		MinCurrencyKind:   domain.CurrencyCash,
		MinCurrencyAmount: 1000,
	}
	eval := EvaluateListing(req, PlayerContext{Player: &domain.Player{}})
	assert.False(t, eval.Allowed)
	assert.Equal(t, "level", eval.FailedGate)
}
