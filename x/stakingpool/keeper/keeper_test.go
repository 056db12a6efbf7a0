package keeper

import (
	"context"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/poolstake/x/stakingpool/types"

	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
)

// mockBankKeeper records coin movements in and out of the module escrow
type mockBankKeeper struct {
	escrowed sdk.Coins
	released sdk.Coins
}

func (m *mockBankKeeper) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	m.escrowed = m.escrowed.Add(amt...)
	return nil
}

func (m *mockBankKeeper) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	m.released = m.released.Add(amt...)
	return nil
}

// setupKeeper creates a test keeper with an in-memory store
func setupKeeper(tb testing.TB) (*Keeper, sdk.Context, *mockBankKeeper) {
	tb.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		tb.Fatalf("failed to load store: %v", err)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())

	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	bank := &mockBankKeeper{}
	authority := sdk.AccAddress([]byte("authority___________")).String()
	keeper := NewKeeper(cdc, storeKey, bank, authority, 10, log.NewNopLogger())

	return keeper, ctx, bank
}

func testAddr(name string) sdk.AccAddress {
	bz := make([]byte, 20)
	copy(bz, name)
	return sdk.AccAddress(bz)
}

// TestCurrentEpoch tests the epoch counter defaults and round trip
func TestCurrentEpoch(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	if got := k.GetCurrentEpoch(ctx); got != 0 {
		t.Errorf("fresh store epoch = %d, want 0", got)
	}

	k.SetCurrentEpoch(ctx, 42)
	if got := k.GetCurrentEpoch(ctx); got != 42 {
		t.Errorf("epoch = %d, want 42", got)
	}
}

// TestIsEpochBoundary tests the block-height epoch boundary check
func TestIsEpochBoundary(t *testing.T) {
	k, ctx, _ := setupKeeper(t) // epoch length 10

	tests := []struct {
		height int64
		want   bool
	}{
		{0, false},
		{1, false},
		{9, false},
		{10, true},
		{15, false},
		{100, true},
	}
	for _, tt := range tests {
		if got := k.IsEpochBoundary(ctx.WithBlockHeight(tt.height)); got != tt.want {
			t.Errorf("IsEpochBoundary(height=%d) = %v, want %v", tt.height, got, tt.want)
		}
	}
}

// TestCreatePool tests pool creation and the duplicate guard
func TestCreatePool(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	pool, err := k.CreatePool(ctx, "pool-1")
	if err != nil {
		t.Fatalf("create pool failed: %v", err)
	}
	if !pool.IsPreactive() {
		t.Error("new pool should be preactive")
	}

	stored := k.GetPool(ctx, "pool-1")
	if stored == nil {
		t.Fatal("pool not found after create")
	}
	if stored.PoolID != "pool-1" {
		t.Errorf("pool ID = %s, want pool-1", stored.PoolID)
	}

	// Creation records the bootstrap rate at the current epoch
	rate, ok := k.GetExchangeRateEntry(ctx, "pool-1", 0)
	if !ok {
		t.Fatal("no exchange rate entry recorded at creation")
	}
	if !rate.IsBootstrap() {
		t.Error("creation rate should be the bootstrap rate")
	}

	if _, err := k.CreatePool(ctx, "pool-1"); err != types.ErrPoolAlreadyExists {
		t.Errorf("duplicate create should fail with ErrPoolAlreadyExists, got %v", err)
	}
}

// TestPositionStorage tests position CRUD and the owner index
func TestPositionStorage(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	owner := testAddr("staker-1").String()

	if id := k.NextPositionID(ctx); id != "stake-1" {
		t.Errorf("first position ID = %s, want stake-1", id)
	}
	if id := k.NextPositionID(ctx); id != "stake-2" {
		t.Errorf("second position ID = %s, want stake-2", id)
	}

	p1 := types.NewStakedSui("stake-1", "pool-1", owner, 1, math.NewInt(100))
	p2 := types.NewStakedSui("stake-2", "pool-1", owner, 2, math.NewInt(200))
	k.SetPosition(ctx, p1)
	k.SetPosition(ctx, p2)

	got := k.GetPosition(ctx, "stake-1")
	if got == nil {
		t.Fatal("position stake-1 not found")
	}
	if !got.Principal.Equal(math.NewInt(100)) {
		t.Errorf("principal = %s, want 100", got.Principal.String())
	}

	positions := k.GetOwnerPositions(ctx, owner)
	if len(positions) != 2 {
		t.Fatalf("owner positions = %d, want 2", len(positions))
	}

	k.DeletePosition(ctx, p1)
	if k.GetPosition(ctx, "stake-1") != nil {
		t.Error("position should be gone after delete")
	}
	if positions := k.GetOwnerPositions(ctx, owner); len(positions) != 1 {
		t.Errorf("owner positions after delete = %d, want 1", len(positions))
	}
}

// TestExchangeRateStorage tests that rate entries are keyed per pool and epoch
func TestExchangeRateStorage(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	rate := types.ExchangeRate{SuiAmount: math.NewInt(200), PoolTokenAmount: math.NewInt(100)}
	k.SetExchangeRateEntry(ctx, "pool-1", 3, rate)

	got, ok := k.GetExchangeRateEntry(ctx, "pool-1", 3)
	if !ok {
		t.Fatal("rate entry not found")
	}
	if !got.SuiAmount.Equal(math.NewInt(200)) || !got.PoolTokenAmount.Equal(math.NewInt(100)) {
		t.Errorf("rate = %s/%s, want 200/100", got.SuiAmount.String(), got.PoolTokenAmount.String())
	}

	if _, ok := k.GetExchangeRateEntry(ctx, "pool-1", 4); ok {
		t.Error("should not find entry at an unrecorded epoch")
	}
	if _, ok := k.GetExchangeRateEntry(ctx, "pool-2", 3); ok {
		t.Error("should not find entry for another pool")
	}

	// Entries are overwritable; activation writes a bootstrap entry that the
	// first epoch batch replaces at the same epoch
	k.SetExchangeRateEntry(ctx, "pool-1", 3, types.InitialExchangeRate())
	got, _ = k.GetExchangeRateEntry(ctx, "pool-1", 3)
	if !got.IsBootstrap() {
		t.Error("overwritten entry should be the bootstrap rate")
	}
}
