package eligibility

import (
	"github.com/astropet/platform/internal/domain"
)

// Evaluation holds the result of a listing eligibility check.
type Evaluation struct {
	Allowed     bool   `json:"allowed"`
	FailedGate  string `json:"failed_gate,omitempty"`
	Requirement string `json:"requirement,omitempty"`
}

// PlayerContext is the slice of session state the gates read.
type PlayerContext struct {
	Player       *domain.Player
	PetLevels    []int
	Inventory    domain.Inventory
	Achievements []domain.Achievement
}

// HighestPetLevel returns the level of the player's strongest pet, or zero.
func (pc PlayerContext) HighestPetLevel() int {
	max := 0
	for _, lvl := range pc.PetLevels {
		if lvl > max {
			max = lvl
		}
	}
	return max
}

// EvaluateListing checks a listing's purchase gates in a fixed order:
// level, achievement, item, currency. The first failed gate is reported.
func EvaluateListing(req domain.ListingRequirements, pc PlayerContext) Evaluation {
	if req.MinLevel > 0 && pc.HighestPetLevel() < req.MinLevel {
		return Evaluation{Allowed: false, FailedGate: "level", Requirement: "pet level too low"}
	}

	if req.RequiredAchievement != "" && !hasAchievement(pc.Achievements, req.RequiredAchievement) {
		return Evaluation{Allowed: false, FailedGate: "achievement", Requirement: req.RequiredAchievement}
	}

	if req.RequiredItem != "" && pc.Inventory.FindStack(req.RequiredItem) == nil {
		return Evaluation{Allowed: false, FailedGate: "item", Requirement: req.RequiredItem}
	}

	if req.MinCurrencyAmount > 0 && req.MinCurrencyKind.Valid() {
		if pc.Player == nil || pc.Player.Get(req.MinCurrencyKind) < req.MinCurrencyAmount {
			return Evaluation{Allowed: false, FailedGate: "currency", Requirement: string(req.MinCurrencyKind)}
		}
	}

	return Evaluation{Allowed: true}
}

func hasAchievement(achievements []domain.Achievement, id string) bool {
	for _, a := range achievements {
		if a.ID == id && a.UnlockedAt != nil {
			return true
		}
	}
	return false
}
