package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stat bounds. Care stats sit on a 0..10 scale; combat stats have no ceiling
// but never drop below zero.
const (
	CareStatMax = 10
	StatFloor   = 0
)

// PetStats holds the mutable stat block of a pet.
type PetStats struct {
	Health       int `json:"health"`
	Happiness    int `json:"happiness"`
	Hunger       int `json:"hunger"`
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Intelligence int `json:"intelligence"`
	Speed        int `json:"speed"`
	Attack       int `json:"attack"`
	Defense      int `json:"defense"`
	Precision    int `json:"precision"`
	Evasion      int `json:"evasion"`
	Luck         int `json:"luck"`
}

// ApplyEffects sums the declared item effect deltas onto the stats and clamps
// the result: care stats capped at CareStatMax, combat stats floored at zero.
func (s PetStats) ApplyEffects(effects map[string]int) PetStats {
	out := s
	for stat, delta := range effects {
		switch stat {
		case "health":
			out.Health = clampCare(out.Health + delta)
		case "happiness":
			out.Happiness = clampCare(out.Happiness + delta)
		case "hunger":
			out.Hunger = clampCare(out.Hunger + delta)
		case "strength":
			out.Strength = clampFloor(out.Strength + delta)
		case "dexterity":
			out.Dexterity = clampFloor(out.Dexterity + delta)
		case "intelligence":
			out.Intelligence = clampFloor(out.Intelligence + delta)
		case "speed":
			out.Speed = clampFloor(out.Speed + delta)
		case "attack":
			out.Attack = clampFloor(out.Attack + delta)
		case "defense":
			out.Defense = clampFloor(out.Defense + delta)
		case "precision":
			out.Precision = clampFloor(out.Precision + delta)
		case "evasion":
			out.Evasion = clampFloor(out.Evasion + delta)
		case "luck":
			out.Luck = clampFloor(out.Luck + delta)
		}
	}
	return out
}

// Clamp re-applies the stat bounds to every field without any deltas.
func (s PetStats) Clamp() PetStats {
	s.Health = clampCare(s.Health)
	s.Happiness = clampCare(s.Happiness)
	s.Hunger = clampCare(s.Hunger)
	s.Strength = clampFloor(s.Strength)
	s.Dexterity = clampFloor(s.Dexterity)
	s.Intelligence = clampFloor(s.Intelligence)
	s.Speed = clampFloor(s.Speed)
	s.Attack = clampFloor(s.Attack)
	s.Defense = clampFloor(s.Defense)
	s.Precision = clampFloor(s.Precision)
	s.Evasion = clampFloor(s.Evasion)
	s.Luck = clampFloor(s.Luck)
	return s
}

func clampCare(v int) int {
	if v > CareStatMax {
		return CareStatMax
	}
	if v < StatFloor {
		return StatFloor
	}
	return v
}

func clampFloor(v int) int {
	if v < StatFloor {
		return StatFloor
	}
	return v
}

// Pet is a player's virtual pet.
type Pet struct {
	ID              uuid.UUID  `json:"id"`
	OwnerID         uuid.UUID  `json:"owner_id"`
	Name            string     `json:"name"`
	Species         string     `json:"species"`
	Level           int        `json:"level"`
	Stats           PetStats   `json:"stats"`
	HatchTime       *time.Time `json:"hatch_time,omitempty"`
	LastInteraction *time.Time `json:"last_interaction,omitempty"`
	DeathDate       *time.Time `json:"death_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// EggState tracks an egg that has not hatched yet.
type EggState struct {
	PetID     uuid.UUID `json:"pet_id"`
	Species   string    `json:"species"`
	HatchTime time.Time `json:"hatch_time"`
}
