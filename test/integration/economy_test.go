//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/test/integration/testutil"
)

func TestInventoryCreditStacksAndDebitRemoves(t *testing.T) {
	env := testutil.NewTestEnv(t)
	playerID := env.CreatePlayer("lyra", 0, 0)
	base := fmt.Sprintf("/players/%s", playerID)

	// Two credits for the same item merge into one stack.
	resp := env.POST(base+"/inventory", map[string]interface{}{"item_id": "star-snack", "quantity": 2})
	testutil.AssertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = env.POST(base+"/inventory", map[string]interface{}{"item_id": "star-snack", "quantity": 3})
	testutil.AssertStatus(t, resp, http.StatusOK)
	var entry domain.InventoryEntry
	testutil.DecodeJSON(t, resp, &entry)
	if entry.Quantity != 5 {
		t.Fatalf("expected stacked quantity 5, got %d", entry.Quantity)
	}

	resp = env.GET(base + "/inventory")
	var inv domain.Inventory
	testutil.DecodeJSON(t, resp, &inv)
	if len(inv) != 1 {
		t.Fatalf("expected one stack, got %d", len(inv))
	}

	// Debit below the stack size shrinks it; debiting the rest deletes the row.
	resp = env.POST(fmt.Sprintf("%s/inventory/%s/remove", base, entry.ID), map[string]interface{}{"quantity": 4})
	testutil.AssertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = env.POST(fmt.Sprintf("%s/inventory/%s/remove", base, entry.ID), map[string]interface{}{"quantity": 1})
	testutil.AssertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = env.GET(base + "/inventory")
	testutil.DecodeJSON(t, resp, &inv)
	if len(inv) != 0 {
		t.Errorf("expected empty inventory, got %d entries", len(inv))
	}
}

func TestInventoryDebitPastStockRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)
	playerID := env.CreatePlayer("rigel", 0, 0)
	base := fmt.Sprintf("/players/%s", playerID)

	resp := env.POST(base+"/inventory", map[string]interface{}{"item_id": "nebula-toy", "quantity": 1})
	var entry domain.InventoryEntry
	testutil.DecodeJSON(t, resp, &entry)

	resp = env.POST(fmt.Sprintf("%s/inventory/%s/remove", base, entry.ID), map[string]interface{}{"quantity": 2})
	testutil.AssertStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestCodeConsumeOncePerPlayer(t *testing.T) {
	env := testutil.NewTestEnv(t)
	alice := env.CreatePlayer("alice", 0, 0)
	bob := env.CreatePlayer("bob", 0, 0)

	// Case-insensitive lookup against the catalog definition.
	resp := env.POST(fmt.Sprintf("/players/%s/codes", alice), map[string]string{"code": "welcome"})
	testutil.AssertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	// Second use by the same player is rejected.
	resp = env.POST(fmt.Sprintf("/players/%s/codes", alice), map[string]string{"code": "WELCOME"})
	testutil.AssertStatus(t, resp, http.StatusConflict)
	var errBody struct {
		Code string `json:"code"`
	}
	testutil.DecodeJSON(t, resp, &errBody)
	if errBody.Code != "ALREADY_CONSUMED" {
		t.Errorf("expected ALREADY_CONSUMED, got %s", errBody.Code)
	}

	// A different player may still redeem.
	resp = env.POST(fmt.Sprintf("/players/%s/codes", bob), map[string]string{"code": "Welcome"})
	testutil.AssertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	// Unknown codes 404 without touching the consumption table.
	resp = env.POST(fmt.Sprintf("/players/%s/codes", bob), map[string]string{"code": "NOPE"})
	testutil.AssertStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestCheckInOncePerDay(t *testing.T) {
	env := testutil.NewTestEnv(t)
	playerID := env.CreatePlayer("deneb", 0, 0)
	path := fmt.Sprintf("/players/%s/checkins", playerID)

	resp := env.POST(path, nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
	var streak domain.CheckInStreak
	testutil.DecodeJSON(t, resp, &streak)
	if streak.Current != 1 || streak.Best != 1 {
		t.Errorf("expected streak 1/1, got %d/%d", streak.Current, streak.Best)
	}

	// Same calendar day is rejected.
	resp = env.POST(path, nil)
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestPetStatsSaveClampsOnWrite(t *testing.T) {
	env := testutil.NewTestEnv(t)
	playerID := env.CreatePlayer("altair", 0, 0)
	petID := env.CreatePet(playerID, "Zug", domain.PetStats{Health: 5, Happiness: 5})

	over := domain.PetStats{Health: 14, Happiness: 11, Strength: -3}
	resp := env.PUT(fmt.Sprintf("/pets/%s/stats", petID), over)
	testutil.AssertStatus(t, resp, http.StatusOK)

	var pet domain.Pet
	testutil.DecodeJSON(t, resp, &pet)
	if pet.Stats.Health != domain.CareStatMax || pet.Stats.Happiness != domain.CareStatMax {
		t.Errorf("care stats not clamped: %+v", pet.Stats)
	}
	if pet.Stats.Strength != 0 {
		t.Errorf("combat stat not floored: %d", pet.Stats.Strength)
	}
}
