package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Balances Tests ---

func TestBalancesAdd(t *testing.T) {
	tests := []struct {
		name  string
		start Balances
		kind  CurrencyKind
		delta int64
		want  Balances
	}{
		{"credit xenocoins", Balances{Xenocoins: 100}, CurrencyXenocoins, 50, Balances{Xenocoins: 150}},
		{"debit xenocoins", Balances{Xenocoins: 100}, CurrencyXenocoins, -40, Balances{Xenocoins: 60}},
		{"debit below zero clamps", Balances{Xenocoins: 10}, CurrencyXenocoins, -25, Balances{Xenocoins: 0}},
		{"credit cash", Balances{Cash: 5}, CurrencyCash, 5, Balances{Cash: 10}},
		{"debit cash below zero clamps", Balances{Cash: 3}, CurrencyCash, -9, Balances{Cash: 0}},
		{"kinds independent", Balances{Xenocoins: 100, Cash: 5}, CurrencyCash, -5, Balances{Xenocoins: 100, Cash: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.start
			b.Add(tt.kind, tt.delta)
			assert.Equal(t, tt.want, b)
		})
	}
}

func TestBalancesNeverNegative(t *testing.T) {
	b := Balances{}
	deltas := []int64{100, -30, -500, 20, -1, -1, 7, -1000}
	for _, d := range deltas {
		b.Add(CurrencyXenocoins, d)
		assert.GreaterOrEqual(t, b.Xenocoins, int64(0))
		b.Add(CurrencyCash, d)
		assert.GreaterOrEqual(t, b.Cash, int64(0))
	}
}

// --- PetStats Tests ---

func TestApplyEffectsClamping(t *testing.T) {
	tests := []struct {
		name    string
		start   PetStats
		effects map[string]int
		check   func(t *testing.T, out PetStats)
	}{
		{
			"health clamps at care max",
			PetStats{Health: 8},
			map[string]int{"health": 5},
			func(t *testing.T, out PetStats) { assert.Equal(t, 10, out.Health) },
		},
		{
			"hunger clamps at care max",
			PetStats{Hunger: 9},
			map[string]int{"hunger": 3},
			func(t *testing.T, out PetStats) { assert.Equal(t, 10, out.Hunger) },
		},
		{
			"happiness floor is zero",
			PetStats{Happiness: 2},
			map[string]int{"happiness": -5},
			func(t *testing.T, out PetStats) { assert.Equal(t, 0, out.Happiness) },
		},
		{
			"strength floors at zero",
			PetStats{Strength: 3},
			map[string]int{"strength": -10},
			func(t *testing.T, out PetStats) { assert.Equal(t, 0, out.Strength) },
		},
		{
			"combat stats have no ceiling",
			PetStats{Attack: 50},
			map[string]int{"attack": 25},
			func(t *testing.T, out PetStats) { assert.Equal(t, 75, out.Attack) },
		},
		{
			"unknown stat ignored",
			PetStats{Health: 5},
			map[string]int{"charisma": 9},
			func(t *testing.T, out PetStats) { assert.Equal(t, 5, out.Health) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.start.ApplyEffects(tt.effects))
		})
	}
}

func TestApplyEffectsDoesNotMutateReceiver(t *testing.T) {
	start := PetStats{Health: 4}
	_ = start.ApplyEffects(map[string]int{"health": 3})
	assert.Equal(t, 4, start.Health)
}

// --- Notification Tests ---

func TestPushNotificationRingBuffer(t *testing.T) {
	var buf []Notification
	for i := 0; i < NotificationCapacity+1; i++ {
		buf = PushNotification(buf, Notification{ID: uuid.New(), Message: "msg", CreatedAt: time.Now()})
	}
	assert.Len(t, buf, NotificationCapacity)
}

func TestPushNotificationNewestFirst(t *testing.T) {
	first := Notification{ID: uuid.New(), Message: "first"}
	second := Notification{ID: uuid.New(), Message: "second"}
	buf := PushNotification(nil, first)
	buf = PushNotification(buf, second)
	require.Len(t, buf, 2)
	assert.Equal(t, second.ID, buf[0].ID)
	assert.Equal(t, first.ID, buf[1].ID)
}

func TestPushNotificationDropsOldest(t *testing.T) {
	oldest := Notification{ID: uuid.New(), Message: "oldest"}
	buf := PushNotification(nil, oldest)
	for i := 0; i < NotificationCapacity; i++ {
		buf = PushNotification(buf, Notification{ID: uuid.New()})
	}
	require.Len(t, buf, NotificationCapacity)
	for _, n := range buf {
		assert.NotEqual(t, oldest.ID, n.ID)
	}
}

// --- Inventory Tests ---

func TestInventoryAddMergesUnequippedStack(t *testing.T) {
	now := time.Now()
	inv := Inventory{}.Add("apple", 2, now)
	inv = inv.Add("apple", 3, now)
	require.Len(t, inv, 1)
	assert.Equal(t, 5, inv[0].Quantity)
}

func TestInventoryAddKeepsEquippedDistinct(t *testing.T) {
	now := time.Now()
	inv := Inventory{{ID: uuid.New(), ItemID: "sword", Quantity: 1, Equipped: true}}
	inv = inv.Add("sword", 1, now)
	require.Len(t, inv, 2)
	assert.True(t, inv[0].Equipped)
	assert.False(t, inv[1].Equipped)
}

func TestInventoryRemove(t *testing.T) {
	now := time.Now()
	id := uuid.New()

	t.Run("decrement keeps entry", func(t *testing.T) {
		inv := Inventory{{ID: id, ItemID: "apple", Quantity: 3}}
		out, ok := inv.Remove(id, 1, now)
		require.True(t, ok)
		require.Len(t, out, 1)
		assert.Equal(t, 2, out[0].Quantity)
	})

	t.Run("zero quantity removes entry", func(t *testing.T) {
		inv := Inventory{{ID: id, ItemID: "apple", Quantity: 1}}
		out, ok := inv.Remove(id, 1, now)
		require.True(t, ok)
		assert.Empty(t, out)
	})

	t.Run("insufficient quantity fails without change", func(t *testing.T) {
		inv := Inventory{{ID: id, ItemID: "apple", Quantity: 1}}
		out, ok := inv.Remove(id, 2, now)
		assert.False(t, ok)
		assert.Equal(t, 1, out[0].Quantity)
	})

	t.Run("unknown id fails", func(t *testing.T) {
		inv := Inventory{{ID: id, ItemID: "apple", Quantity: 1}}
		_, ok := inv.Remove(uuid.New(), 1, now)
		assert.False(t, ok)
	})
}

// --- RedeemCode Tests ---

func TestRedeemCodeActive(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		code RedeemCode
		want bool
	}{
		{"enabled under cap", RedeemCode{Enabled: true, MaxUses: 5, Uses: 2}, true},
		{"disabled", RedeemCode{Enabled: false}, false},
		{"cap reached", RedeemCode{Enabled: true, MaxUses: 3, Uses: 3}, false},
		{"no cap means unlimited", RedeemCode{Enabled: true, MaxUses: 0, Uses: 999}, true},
		{"expired", RedeemCode{Enabled: true, ExpiresAt: &past}, false},
		{"not yet expired", RedeemCode{Enabled: true, ExpiresAt: &future}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.Active(now))
		})
	}
}

func TestRedeemCodeMatches(t *testing.T) {
	c := RedeemCode{Code: "WELCOME-2024"}
	assert.True(t, c.Matches("welcome-2024"))
	assert.True(t, c.Matches("  WELCOME-2024 "))
	assert.False(t, c.Matches("welcome"))
}

func TestRedeemCodeConsumedBy(t *testing.T) {
	id := uuid.New()
	c := RedeemCode{UsedBy: []uuid.UUID{id}}
	assert.True(t, c.ConsumedBy(id))
	assert.False(t, c.ConsumedBy(uuid.New()))
}

// --- Validator Tests ---

func TestValidateCurrencyKind(t *testing.T) {
	require.NoError(t, ValidateCurrencyKind(CurrencyXenocoins))
	require.NoError(t, ValidateCurrencyKind(CurrencyCash))
	require.Error(t, ValidateCurrencyKind(CurrencyKind("gems")))
	require.Error(t, ValidateCurrencyKind(CurrencyKind("")))
}

func TestValidateQuantity(t *testing.T) {
	require.NoError(t, ValidateQuantity(1))
	require.Error(t, ValidateQuantity(0))
	require.Error(t, ValidateQuantity(-2))
}

func TestValidateCodeFormat(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{"valid", "WELCOME-2024", false},
		{"lowercase valid", "abc123", false},
		{"empty", "", true},
		{"too short", "ab", true},
		{"spaces rejected", "BAD CODE", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCodeFormat(tt.code)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// --- AppError Tests ---

func TestAppErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not authenticated", ErrNotAuthenticated(), "NOT_AUTHENTICATED", 401},
		{"not found", ErrNotFound("listing", "x"), "NOT_FOUND", 404},
		{"insufficient balance", ErrInsufficientBalance(CurrencyCash), "INSUFFICIENT_BALANCE", 400},
		{"insufficient stock", ErrInsufficientStock("l1"), "INSUFFICIENT_STOCK", 409},
		{"already consumed", ErrAlreadyConsumed("c"), "ALREADY_CONSUMED", 409},
		{"limit reached", ErrLimitReached("c"), "LIMIT_REACHED", 429},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := assert.AnError
	err := ErrRemoteFailure("save-pet", cause)
	assert.ErrorIs(t, err, cause)
}
