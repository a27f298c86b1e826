package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/astropet/platform/internal/authority"
	"github.com/astropet/platform/internal/catalog"
	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/guard"
	"github.com/astropet/platform/internal/notify"
	"github.com/astropet/platform/internal/state"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthority implements authority.Client in memory. Per-method errors
// can be injected through fail, and every mutation is recorded in calls.
type fakeAuthority struct {
	player    *domain.Player
	pets      []domain.Pet
	inventory domain.Inventory
	consumed  map[string][]uuid.UUID
	streak    domain.CheckInStreak

	fail      map[string]error
	failAfter map[string]int
	calls     []string
}

func newFakeAuthority(player *domain.Player) *fakeAuthority {
	return &fakeAuthority{
		player:    player,
		consumed:  make(map[string][]uuid.UUID),
		fail:      make(map[string]error),
		failAfter: make(map[string]int),
	}
}

// injected returns the configured error for a method. failAfter lets the
// first n calls through before the error applies.
func (f *fakeAuthority) injected(name string) error {
	if n, ok := f.failAfter[name]; ok && n > 0 {
		f.failAfter[name] = n - 1
		return nil
	}
	return f.fail[name]
}

func (f *fakeAuthority) AdjustBalance(_ context.Context, _ uuid.UUID, delta domain.BalanceDelta, _ string) (domain.Balances, error) {
	f.calls = append(f.calls, "AdjustBalance")
	if err := f.injected("AdjustBalance"); err != nil {
		return domain.Balances{}, err
	}
	if delta.Delta < 0 && f.player.Get(delta.Kind)+delta.Delta < 0 {
		return domain.Balances{}, domain.ErrInsufficientBalance(delta.Kind)
	}
	f.player.Add(delta.Kind, delta.Delta)
	return f.player.Balances, nil
}

func (f *fakeAuthority) AddInventory(_ context.Context, _ uuid.UUID, itemID string, qty int) error {
	f.calls = append(f.calls, "AddInventory")
	if err := f.fail["AddInventory"]; err != nil {
		return err
	}
	f.inventory = f.inventory.Add(itemID, qty, time.Now())
	return nil
}

func (f *fakeAuthority) RemoveInventory(_ context.Context, _ uuid.UUID, entryID uuid.UUID, qty int) error {
	f.calls = append(f.calls, "RemoveInventory")
	if err := f.fail["RemoveInventory"]; err != nil {
		return err
	}
	var ok bool
	f.inventory, ok = f.inventory.Remove(entryID, qty, time.Now())
	if !ok {
		return domain.ErrNotFound("inventory entry", entryID.String())
	}
	return nil
}

func (f *fakeAuthority) SavePetStats(_ context.Context, petID uuid.UUID, stats domain.PetStats) error {
	f.calls = append(f.calls, "SavePetStats")
	if err := f.fail["SavePetStats"]; err != nil {
		return err
	}
	for i := range f.pets {
		if f.pets[i].ID == petID {
			f.pets[i].Stats = stats
		}
	}
	return nil
}

func (f *fakeAuthority) AddAccountPoints(_ context.Context, _ uuid.UUID, points int64) error {
	f.calls = append(f.calls, "AddAccountPoints")
	if err := f.fail["AddAccountPoints"]; err != nil {
		return err
	}
	f.player.AccountPoints += points
	return nil
}

func (f *fakeAuthority) GrantCollectible(_ context.Context, _ uuid.UUID, _ string) error {
	f.calls = append(f.calls, "GrantCollectible")
	return f.fail["GrantCollectible"]
}

func (f *fakeAuthority) ConsumeCode(_ context.Context, playerID uuid.UUID, code string) error {
	f.calls = append(f.calls, "ConsumeCode")
	if err := f.fail["ConsumeCode"]; err != nil {
		return err
	}
	for _, id := range f.consumed[code] {
		if id == playerID {
			return domain.ErrAlreadyConsumed(code)
		}
	}
	f.consumed[code] = append(f.consumed[code], playerID)
	return nil
}

func (f *fakeAuthority) CheckIn(_ context.Context, playerID uuid.UUID) (domain.CheckInStreak, error) {
	f.calls = append(f.calls, "CheckIn")
	if err := f.fail["CheckIn"]; err != nil {
		return domain.CheckInStreak{}, err
	}
	f.streak.PlayerID = playerID
	f.streak.Current++
	if f.streak.Current > f.streak.Best {
		f.streak.Best = f.streak.Current
	}
	now := time.Now()
	f.streak.LastCheckIn = &now
	return f.streak, nil
}

func (f *fakeAuthority) LoadPlayer(_ context.Context, _ uuid.UUID) (*domain.Player, error) {
	if err := f.fail["LoadPlayer"]; err != nil {
		return nil, err
	}
	cp := *f.player
	return &cp, nil
}

func (f *fakeAuthority) LoadPets(_ context.Context, _ uuid.UUID) ([]domain.Pet, error) {
	return append([]domain.Pet(nil), f.pets...), nil
}

func (f *fakeAuthority) LoadInventory(_ context.Context, _ uuid.UUID) (domain.Inventory, error) {
	return append(domain.Inventory(nil), f.inventory...), nil
}

func (f *fakeAuthority) countCalls(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

var _ authority.Client = (*fakeAuthority)(nil)

type fixture struct {
	engine    *Engine
	container *state.Container
	auth      *fakeAuthority
	catalog   *catalog.StaticSource
	playerID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	playerID := uuid.New()
	player := &domain.Player{
		ID:       playerID,
		Username: "astro",
		Balances: domain.Balances{Xenocoins: 1000, Cash: 50},
	}
	auth := newFakeAuthority(player)

	container := state.NewContainer()
	logger := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelError}))
	notifier := notify.New(container, notify.NopSound{}, logger)
	source := catalog.NewStaticSource()

	engine := NewEngine(Deps{
		Container: container,
		Authority: auth,
		Catalog:   source,
		Notifier:  notifier,
		Logger:    logger,
		Purchases: guard.NewRateLimiter(100, time.Minute),
	})

	require.NoError(t, engine.StartSession(context.Background(), playerID))
	return &fixture{engine: engine, container: container, auth: auth, catalog: source, playerID: playerID}
}

// testWriter routes slog output through t.Log so failures show context.
type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func seedListing(f *fixture, listing domain.Listing) {
	f.catalog.AddItem(domain.Item{ID: listing.ItemID, Name: listing.ItemID, Kind: "food"})
	f.catalog.AddStore(domain.Store{ID: "general", Name: "General Store", Listings: []domain.Listing{listing}})
}

func TestAdjustCurrencyNeverNegative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		kind     domain.CurrencyKind
		delta    int64
		wantErr  string
		wantXeno int64
		wantCash int64
	}{
		{name: "credit xenocoins", kind: domain.CurrencyXenocoins, delta: 500, wantXeno: 1500, wantCash: 50},
		{name: "debit xenocoins", kind: domain.CurrencyXenocoins, delta: -1500, wantXeno: 0, wantCash: 50},
		{name: "overdraft xenocoins rejected", kind: domain.CurrencyXenocoins, delta: -1, wantErr: "INSUFFICIENT_BALANCE", wantXeno: 0, wantCash: 50},
		{name: "overdraft cash rejected", kind: domain.CurrencyCash, delta: -51, wantErr: "INSUFFICIENT_BALANCE", wantXeno: 0, wantCash: 50},
		{name: "debit cash independently", kind: domain.CurrencyCash, delta: -50, wantXeno: 0, wantCash: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.AdjustCurrency(ctx, tt.kind, tt.delta)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, appCode(t, err))
			} else {
				require.NoError(t, err)
			}
			snap := f.container.View()
			assert.Equal(t, tt.wantXeno, snap.Player.Xenocoins)
			assert.Equal(t, tt.wantCash, snap.Player.Cash)
			assert.GreaterOrEqual(t, snap.Player.Xenocoins, int64(0))
			assert.GreaterOrEqual(t, snap.Player.Cash, int64(0))
		})
	}
}

func TestAdjustCurrencyRequiresPlayer(t *testing.T) {
	container := state.NewContainer()
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	engine := NewEngine(Deps{
		Container: container,
		Authority: newFakeAuthority(&domain.Player{}),
		Catalog:   catalog.NewStaticSource(),
		Notifier:  notify.New(container, notify.NopSound{}, logger),
		Logger:    logger,
		Purchases: guard.NewRateLimiter(100, time.Minute),
	})

	_, err := engine.AdjustCurrency(context.Background(), domain.CurrencyXenocoins, 10)
	assert.Equal(t, "NOT_AUTHENTICATED", appCode(t, err))
}

// Views handed to readers must be detached from writes made by a command
// running on another goroutine.
func TestAdjustCurrencyConcurrentWithView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			if _, err := f.engine.AdjustCurrency(ctx, domain.CurrencyXenocoins, 1); err != nil {
				t.Errorf("adjust: %v", err)
				return
			}
		}
	}()
	for i := 0; i < 200; i++ {
		snap := f.container.View()
		assert.GreaterOrEqual(t, snap.Player.Xenocoins, int64(1000))
	}
	<-done

	assert.Equal(t, int64(1200), f.container.View().Player.Xenocoins)
}

func TestPurchasePreconditionsNoSideEffects(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		storeID  string
		listing  string
		qty      int
		listingV domain.Listing
		wantCode string
	}{
		{
			name: "unknown store", storeID: "nope", listing: "l1", qty: 1,
			listingV: domain.Listing{ID: "l1", ItemID: "apple", Price: 10, Currency: domain.CurrencyXenocoins, Stock: 5},
			wantCode: "NOT_FOUND",
		},
		{
			name: "unknown listing", storeID: "general", listing: "nope", qty: 1,
			listingV: domain.Listing{ID: "l1", ItemID: "apple", Price: 10, Currency: domain.CurrencyXenocoins, Stock: 5},
			wantCode: "NOT_FOUND",
		},
		{
			name: "insufficient stock", storeID: "general", listing: "l1", qty: 6,
			listingV: domain.Listing{ID: "l1", ItemID: "apple", Price: 10, Currency: domain.CurrencyXenocoins, Stock: 5},
			wantCode: "INSUFFICIENT_STOCK",
		},
		{
			name: "level gate", storeID: "general", listing: "l1", qty: 1,
			listingV: domain.Listing{
				ID: "l1", ItemID: "apple", Price: 10, Currency: domain.CurrencyXenocoins, Stock: 5,
				Requirements: domain.ListingRequirements{MinLevel: 99},
			},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name: "insufficient balance", storeID: "general", listing: "l1", qty: 3,
			listingV: domain.Listing{ID: "l1", ItemID: "apple", Price: 400, Currency: domain.CurrencyXenocoins, Stock: 5},
			wantCode: "INSUFFICIENT_BALANCE",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			seedListing(f, tt.listingV)

			res, err := f.engine.Purchase(ctx, tt.storeID, tt.listing, tt.qty, "attempt-1")
			assert.Nil(t, res)
			assert.Equal(t, tt.wantCode, appCode(t, err))

			// Zero side effects: no authority mutation, no state change.
			assert.Zero(t, f.auth.countCalls("AdjustBalance"))
			assert.Zero(t, f.auth.countCalls("AddInventory"))
			snap := f.container.View()
			assert.Equal(t, int64(1000), snap.Player.Xenocoins)
			assert.Empty(t, snap.Inventory)
		})
	}
}

func TestPurchaseHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedListing(f, domain.Listing{ID: "l1", ItemID: "apple", Price: 10, Currency: domain.CurrencyXenocoins, Stock: 5})

	res, err := f.engine.Purchase(ctx, "general", "l1", 3, "attempt-1")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.OK)
	assert.Equal(t, int64(30), res.TotalCost)
	assert.Equal(t, int64(970), res.Balance)

	snap := f.container.View()
	assert.Equal(t, int64(970), snap.Player.Xenocoins)
	stack := snap.Inventory.FindStack("apple")
	require.NotNil(t, stack)
	assert.Equal(t, 3, stack.Quantity)

	// Stock decremented process-local.
	store, err := f.catalog.Store(ctx, "general")
	require.NoError(t, err)
	assert.Equal(t, 2, f.engine.effectiveStock(store.FindListing("l1")))

	// Subsequent oversell against the remaining stock fails.
	_, err = f.engine.Purchase(ctx, "general", "l1", 3, "attempt-2")
	assert.Equal(t, "INSUFFICIENT_STOCK", appCode(t, err))
}

func TestPurchaseReplaySuppressed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedListing(f, domain.Listing{ID: "l1", ItemID: "apple", Price: 10, Currency: domain.CurrencyXenocoins, Stock: 5})

	res, err := f.engine.Purchase(ctx, "general", "l1", 1, "attempt-1")
	require.NoError(t, err)
	assert.True(t, res.OK)

	// The client resubmits the same attempt; nothing charges twice.
	_, err = f.engine.Purchase(ctx, "general", "l1", 1, "attempt-1")
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
	assert.Equal(t, 1, f.auth.countCalls("AdjustBalance"))

	snap := f.container.View()
	assert.Equal(t, int64(990), snap.Player.Xenocoins)
	require.NotNil(t, snap.Inventory.FindStack("apple"))
	assert.Equal(t, 1, snap.Inventory.FindStack("apple").Quantity)

	// A fresh attempt under its own ID still goes through.
	res, err = f.engine.Purchase(ctx, "general", "l1", 1, "attempt-2")
	require.NoError(t, err)
	assert.True(t, res.OK)
}

func TestPurchaseRequiresRequestID(t *testing.T) {
	f := newFixture(t)
	seedListing(f, domain.Listing{ID: "l1", ItemID: "apple", Price: 10, Currency: domain.CurrencyXenocoins, Stock: 5})

	_, err := f.engine.Purchase(context.Background(), "general", "l1", 1, "")
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
	assert.Zero(t, f.auth.countCalls("AdjustBalance"))
}

func TestPurchaseRetrySameIDAfterDebitFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedListing(f, domain.Listing{ID: "l1", ItemID: "apple", Price: 10, Currency: domain.CurrencyXenocoins, Stock: 5})

	// The debit never reached the authority, so the attempt may be
	// resubmitted under the same ID once it recovers.
	f.auth.fail["AdjustBalance"] = errors.New("authority down")
	_, err := f.engine.Purchase(ctx, "general", "l1", 1, "attempt-1")
	assert.Equal(t, "REMOTE_FAILURE", appCode(t, err))

	delete(f.auth.fail, "AdjustBalance")
	res, err := f.engine.Purchase(ctx, "general", "l1", 1, "attempt-1")
	require.NoError(t, err)
	assert.True(t, res.OK)
}

func TestPurchaseCompensatesFailedInventoryAdd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedListing(f, domain.Listing{ID: "l1", ItemID: "apple", Price: 100, Currency: domain.CurrencyXenocoins, Stock: 5})
	f.auth.fail["AddInventory"] = errors.New("boom")

	res, err := f.engine.Purchase(ctx, "general", "l1", 2, "attempt-1")
	require.Error(t, err)
	require.NotNil(t, res)
	assert.False(t, res.OK)

	// Debit then compensating credit: balance restored exactly.
	assert.Equal(t, 2, f.auth.countCalls("AdjustBalance"))
	snap := f.container.View()
	assert.Equal(t, int64(1000), snap.Player.Xenocoins)
	assert.Nil(t, snap.Inventory.FindStack("apple"))

	// Stock untouched by the failed attempt.
	store, cerr := f.catalog.Store(ctx, "general")
	require.NoError(t, cerr)
	assert.Equal(t, 5, f.engine.effectiveStock(store.FindListing("l1")))
}

func TestPurchaseCompensationItselfFailing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedListing(f, domain.Listing{ID: "l1", ItemID: "apple", Price: 100, Currency: domain.CurrencyXenocoins, Stock: 5})

	// Debit succeeds, inventory add fails, then the refund also fails.
	f.auth.fail["AddInventory"] = errors.New("boom")
	f.auth.failAfter["AdjustBalance"] = 1
	f.auth.fail["AdjustBalance"] = errors.New("refund down")

	res, err := f.engine.Purchase(ctx, "general", "l1", 1, "attempt-1")
	require.Error(t, err)
	require.NotNil(t, res)
	assert.False(t, res.OK)

	// Balance stays debited; the divergence is logged, not hidden.
	assert.Equal(t, int64(900), f.auth.player.Xenocoins)
	snap := f.container.View()
	assert.Nil(t, snap.Inventory.FindStack("apple"))
}

func TestRedeemAppliesAllRewardCategories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.catalog.AddCollectible(domain.Collectible{ID: "X", Name: "Nebula Shard"})
	f.catalog.AddCode(domain.RedeemCode{
		Code:    "WELCOME",
		Enabled: true,
		MaxUses: 10,
		Rewards: domain.CodeRewards{Xenocoins: 1000, Cash: 5, AccountPoints: 100, Collectibles: []string{"X"}},
	})
	require.NoError(t, f.engine.RefreshCodes(ctx))

	code, err := f.engine.Redeem(ctx, "  welcome ")
	require.NoError(t, err)
	require.NotNil(t, code)

	snap := f.container.View()
	assert.Equal(t, int64(2000), snap.Player.Xenocoins)
	assert.Equal(t, int64(55), snap.Player.Cash)
	assert.Equal(t, int64(100), snap.Player.AccountPoints)
	require.Len(t, snap.Collectibles, 1)
	assert.Equal(t, "X", snap.Collectibles[0].ID)
	assert.True(t, snap.Collectibles[0].Collected)
	require.NotNil(t, snap.Collectibles[0].CollectedAt)

	// Consumption recorded locally and at the authority.
	assert.True(t, snap.RedeemCodes[0].ConsumedBy(f.playerID))
	assert.Equal(t, 1, snap.RedeemCodes[0].Uses)
	assert.Equal(t, 1, f.auth.countCalls("ConsumeCode"))
}

func TestRedeemSecondUseRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.catalog.AddCode(domain.RedeemCode{
		Code:    "ONCE",
		Enabled: true,
		MaxUses: 10,
		Rewards: domain.CodeRewards{Xenocoins: 100},
	})
	require.NoError(t, f.engine.RefreshCodes(ctx))

	_, err := f.engine.Redeem(ctx, "ONCE")
	require.NoError(t, err)
	assert.Equal(t, int64(1100), f.container.View().Player.Xenocoins)

	_, err = f.engine.Redeem(ctx, "once")
	assert.Equal(t, "ALREADY_CONSUMED", appCode(t, err))
	// No additional reward application.
	assert.Equal(t, int64(1100), f.container.View().Player.Xenocoins)
	assert.Equal(t, 1, f.auth.countCalls("ConsumeCode"))
}

func TestRedeemFailureOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	expired := time.Now().Add(-time.Hour)
	f.catalog.AddCode(domain.RedeemCode{Code: "CAPPED", Enabled: true, MaxUses: 1, Uses: 1})
	f.catalog.AddCode(domain.RedeemCode{Code: "EXPIRED", Enabled: true, ExpiresAt: &expired})
	f.catalog.AddCode(domain.RedeemCode{Code: "DISABLED", Enabled: false})
	require.NoError(t, f.engine.RefreshCodes(ctx))

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bad format", input: "!!", want: "VALIDATION_ERROR"},
		{name: "unknown code", input: "NOSUCH", want: "NOT_FOUND"},
		{name: "disabled treated as unknown", input: "DISABLED", want: "NOT_FOUND"},
		{name: "usage cap reached", input: "CAPPED", want: "LIMIT_REACHED"},
		{name: "expired", input: "EXPIRED", want: "LIMIT_REACHED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Redeem(ctx, tt.input)
			assert.Equal(t, tt.want, appCode(t, err))
		})
	}
	assert.Zero(t, f.auth.countCalls("ConsumeCode"))
}

func TestRedeemLockoutAfterRepeatedFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < guard.MaxCodeAttempts; i++ {
		_, err := f.engine.Redeem(ctx, "NOSUCH")
		assert.Equal(t, "NOT_FOUND", appCode(t, err))
	}
	_, err := f.engine.Redeem(ctx, "NOSUCH")
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
}

func TestUseItemClampsStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	petID := uuid.New()
	entryID := uuid.New()
	f.auth.pets = []domain.Pet{{ID: petID, OwnerID: f.playerID, Name: "Zorp", Stats: domain.PetStats{Health: 8, Hunger: 4}}}
	f.auth.inventory = domain.Inventory{{ID: entryID, ItemID: "snack", Quantity: 2, UpdatedAt: time.Now()}}
	f.catalog.AddItem(domain.Item{ID: "snack", Name: "Star Snack", Kind: "food", Effects: map[string]int{"health": 5, "hunger": 3}})
	require.NoError(t, f.engine.StartSession(ctx, f.playerID))

	used, err := f.engine.UseItem(ctx, petID, entryID)
	require.NoError(t, err)
	assert.True(t, used)

	snap := f.container.View()
	require.Len(t, snap.Pets, 1)
	assert.Equal(t, 10, snap.Pets[0].Stats.Health, "health clamps at the care-stat max")
	assert.Equal(t, 7, snap.Pets[0].Stats.Hunger)
	require.NotNil(t, snap.Pets[0].LastInteraction)

	entry := snap.Inventory.FindByID(entryID)
	require.NotNil(t, entry)
	assert.Equal(t, 1, entry.Quantity)

	// Second use exhausts the stack and removes the entry.
	used, err = f.engine.UseItem(ctx, petID, entryID)
	require.NoError(t, err)
	assert.True(t, used)
	assert.Nil(t, f.container.View().Inventory.FindByID(entryID))
}

func TestUseItemSilentMisses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	used, err := f.engine.UseItem(ctx, uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, used)
	assert.Zero(t, f.auth.countCalls("SavePetStats"))
	// Silent path: no notification emitted.
	assert.Empty(t, f.container.View().Notifications)
}

func TestUseItemRemoteRejectionLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	petID := uuid.New()
	entryID := uuid.New()
	f.auth.pets = []domain.Pet{{ID: petID, OwnerID: f.playerID, Name: "Zorp", Stats: domain.PetStats{Health: 8}}}
	f.auth.inventory = domain.Inventory{{ID: entryID, ItemID: "snack", Quantity: 1, UpdatedAt: time.Now()}}
	f.catalog.AddItem(domain.Item{ID: "snack", Name: "Star Snack", Kind: "food", Effects: map[string]int{"health": 5}})
	require.NoError(t, f.engine.StartSession(ctx, f.playerID))
	f.auth.fail["SavePetStats"] = errors.New("down")

	used, err := f.engine.UseItem(ctx, petID, entryID)
	assert.False(t, used)
	assert.Equal(t, "REMOTE_FAILURE", appCode(t, err))

	snap := f.container.View()
	assert.Equal(t, 8, snap.Pets[0].Stats.Health)
	assert.Equal(t, 1, snap.Inventory.FindByID(entryID).Quantity)
}

func TestCheckInGrantsStreakReward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.catalog.SetCheckInRewards([]domain.CheckInReward{
		{Day: 1, Xenocoins: 50},
		{Day: 2, Xenocoins: 100, Cash: 1},
	})

	res, err := f.engine.CheckIn(ctx)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, int64(50), res.Reward.Xenocoins)

	snap := f.container.View()
	assert.Equal(t, int64(1050), snap.Player.Xenocoins)
	assert.Equal(t, 1, snap.CheckIn.Current)

	// Day beyond the table wraps onto the last entry.
	f.auth.streak.Current = 10
	res, err = f.engine.CheckIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), res.Reward.Xenocoins)
}

func TestCheckInRejectedByAuthority(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.auth.fail["CheckIn"] = domain.ErrValidation("already checked in today")

	_, err := f.engine.CheckIn(ctx)
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
	assert.Equal(t, int64(1000), f.container.View().Player.Xenocoins)
}

func TestReloadKindReplacesEntityWholesale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Mutate the authority copy behind the snapshot's back, then reload.
	f.auth.player.Balances = domain.Balances{Xenocoins: 42, Cash: 7}
	require.NoError(t, f.engine.ReloadKind(ctx, domain.AggregateWallet))
	assert.Equal(t, int64(42), f.container.View().Player.Xenocoins)

	f.auth.pets = []domain.Pet{{ID: uuid.New(), Name: "Blip"}}
	require.NoError(t, f.engine.ReloadKind(ctx, domain.AggregatePet))
	require.Len(t, f.container.View().Pets, 1)
	assert.Equal(t, "Blip", f.container.View().Pets[0].Name)
}

func TestSetMapPosition(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.engine.SetMapPosition(domain.MapPosition{X: 12.5, Y: -3, Scale: 1.5}))
	assert.Equal(t, 12.5, f.container.View().MapPosition.X)

	err := f.engine.SetMapPosition(domain.MapPosition{Scale: 0})
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
}
