//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/test/integration/testutil"
	"github.com/google/uuid"
)

type balancesResponse struct {
	Balances   domain.Balances `json:"balances"`
	Idempotent bool            `json:"idempotent"`
}

func TestBalanceAdjustLifecycle(t *testing.T) {
	env := testutil.NewTestEnv(t)
	playerID := env.CreatePlayer("nova", 1000, 50)
	path := fmt.Sprintf("/players/%s/balance", playerID)

	// Credit.
	resp := env.POST(path, map[string]interface{}{
		"kind": "xenocoins", "delta": 250, "reason": "test credit",
	})
	testutil.AssertStatus(t, resp, http.StatusOK)
	var body balancesResponse
	testutil.DecodeJSON(t, resp, &body)
	if body.Balances.Xenocoins != 1250 {
		t.Errorf("expected 1250 xenocoins, got %d", body.Balances.Xenocoins)
	}

	// Debit.
	resp = env.POST(path, map[string]interface{}{
		"kind": "cash", "delta": -20, "reason": "test debit",
	})
	testutil.AssertStatus(t, resp, http.StatusOK)
	testutil.DecodeJSON(t, resp, &body)
	if body.Balances.Cash != 30 {
		t.Errorf("expected 30 cash, got %d", body.Balances.Cash)
	}

	// Overdraft is rejected and leaves the row untouched.
	resp = env.POST(path, map[string]interface{}{
		"kind": "cash", "delta": -500, "reason": "overdraft",
	})
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	var errBody struct {
		Code string `json:"code"`
	}
	testutil.DecodeJSON(t, resp, &errBody)
	if errBody.Code != "INSUFFICIENT_BALANCE" {
		t.Errorf("expected INSUFFICIENT_BALANCE, got %s", errBody.Code)
	}

	xeno, cash := env.Balances(playerID)
	if xeno != 1250 || cash != 30 {
		t.Errorf("expected 1250/30 after overdraft rejection, got %d/%d", xeno, cash)
	}
}

func TestBalanceAdjustIdempotentReplay(t *testing.T) {
	env := testutil.NewTestEnv(t)
	playerID := env.CreatePlayer("vega", 500, 0)
	path := fmt.Sprintf("/players/%s/balance", playerID)

	req := map[string]interface{}{
		"kind": "xenocoins", "delta": -100, "reason": "purchase debit",
		"idempotency_key": "purchase:test:1",
	}

	resp := env.POST(path, req)
	testutil.AssertStatus(t, resp, http.StatusOK)
	var first balancesResponse
	testutil.DecodeJSON(t, resp, &first)
	if first.Idempotent {
		t.Error("first application must not report idempotent")
	}

	// Replaying the same key returns the original outcome without a second debit.
	resp = env.POST(path, req)
	testutil.AssertStatus(t, resp, http.StatusOK)
	var second balancesResponse
	testutil.DecodeJSON(t, resp, &second)
	if !second.Idempotent {
		t.Error("replay must report idempotent")
	}

	xeno, _ := env.Balances(playerID)
	if xeno != 400 {
		t.Errorf("expected single debit to 400, got %d", xeno)
	}
	if n := env.OutboxCount(playerID.String()); n != 1 {
		t.Errorf("expected one outbox event, got %d", n)
	}
}

func TestBalanceAdjustUnknownPlayer(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.POST(fmt.Sprintf("/players/%s/balance", uuid.New()), map[string]interface{}{
		"kind": "xenocoins", "delta": 10, "reason": "ghost",
	})
	testutil.AssertStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}
