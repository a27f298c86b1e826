package authority

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/guard"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustBalance(t *testing.T) {
	playerID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/players/"+playerID.String()+"/balance", r.URL.Path)

		var body struct {
			Kind           domain.CurrencyKind `json:"kind"`
			Delta          int64               `json:"delta"`
			IdempotencyKey string              `json:"idempotency_key"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, domain.CurrencyXenocoins, body.Kind)
		assert.Equal(t, int64(-50), body.Delta)
		assert.Equal(t, "key-1", body.IdempotencyKey)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"balances": domain.Balances{Xenocoins: 450, Cash: 10},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, slog.Default())
	balances, err := c.AdjustBalance(context.Background(), playerID,
		domain.BalanceDelta{Kind: domain.CurrencyXenocoins, Delta: -50}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, int64(450), balances.Xenocoins)
	assert.Equal(t, int64(10), balances.Cash)
}

func TestErrorResponsesCarryAppErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "INSUFFICIENT_BALANCE",
			"message": "insufficient xenocoins balance",
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, slog.Default())
	_, err := c.AdjustBalance(context.Background(), uuid.New(),
		domain.BalanceDelta{Kind: domain.CurrencyXenocoins, Delta: -999}, "")
	require.Error(t, err)

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INSUFFICIENT_BALANCE", appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestLoadPets(t *testing.T) {
	playerID := uuid.New()
	petID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/players/"+playerID.String()+"/pets", r.URL.Path)
		json.NewEncoder(w).Encode([]domain.Pet{{ID: petID, OwnerID: playerID, Name: "blob"}})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, slog.Default())
	pets, err := c.LoadPets(context.Background(), playerID)
	require.NoError(t, err)
	require.Len(t, pets, 1)
	assert.Equal(t, petID, pets[0].ID)
}

func TestGuardedFailsFastWhenCircuitOpen(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	breaker := guard.NewCircuitBreaker(2, time.Minute)
	c := NewGuarded(NewHTTPClient(srv.URL, slog.Default()), breaker)
	ctx := context.Background()
	playerID := uuid.New()

	_, err := c.AdjustBalance(ctx, playerID, domain.BalanceDelta{Kind: domain.CurrencyCash, Delta: 1}, "")
	require.Error(t, err)
	_, err = c.AdjustBalance(ctx, playerID, domain.BalanceDelta{Kind: domain.CurrencyCash, Delta: 1}, "")
	require.Error(t, err)

	// Circuit is open now; the server must not be hit again.
	_, err = c.AdjustBalance(ctx, playerID, domain.BalanceDelta{Kind: domain.CurrencyCash, Delta: 1}, "")
	require.Error(t, err)
	assert.Equal(t, 2, calls)

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "REMOTE_FAILURE", appErr.Code)
}
