package keeper

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/poolstake/x/stakingpool/types"
)

func sui(n int64) math.Int {
	return math.NewInt(n).MulRaw(1_000_000_000)
}

// TestRequestAddStake tests staking into a pool
func TestRequestAddStake(t *testing.T) {
	k, ctx, bank := setupKeeper(t)
	staker := testAddr("staker-1")

	if _, err := k.CreatePool(ctx, "pool-1"); err != nil {
		t.Fatalf("create pool failed: %v", err)
	}

	position, err := k.RequestAddStake(ctx, staker, "pool-1", sui(5))
	if err != nil {
		t.Fatalf("stake failed: %v", err)
	}
	if !position.Principal.Equal(sui(5)) {
		t.Errorf("principal = %s, want %s", position.Principal.String(), sui(5).String())
	}
	// Stake placed during epoch 0 starts earning at epoch 1
	if position.StakeActivationEpoch != 1 {
		t.Errorf("activation epoch = %d, want 1", position.StakeActivationEpoch)
	}

	pool := k.GetPool(ctx, "pool-1")
	if !pool.PendingStake.Equal(sui(5)) {
		t.Errorf("pending stake = %s, want %s", pool.PendingStake.String(), sui(5).String())
	}
	// Principal is not folded into the pool balance until the epoch boundary
	if !pool.SuiBalance.IsZero() {
		t.Errorf("sui balance = %s, want 0", pool.SuiBalance.String())
	}

	want := sdk.NewCoins(sdk.NewCoin(types.StakeDenom, sui(5)))
	if !bank.escrowed.Equal(want) {
		t.Errorf("escrowed = %s, want %s", bank.escrowed.String(), want.String())
	}
}

// TestRequestAddStakeErrors tests the stake entry guards
func TestRequestAddStakeErrors(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	staker := testAddr("staker-1")

	if _, err := k.RequestAddStake(ctx, staker, "missing", sui(1)); err != types.ErrPoolNotFound {
		t.Errorf("staking into a missing pool should fail with ErrPoolNotFound, got %v", err)
	}

	if _, err := k.CreatePool(ctx, "pool-1"); err != nil {
		t.Fatalf("create pool failed: %v", err)
	}
	if _, err := k.RequestAddStake(ctx, staker, "pool-1", math.ZeroInt()); err != types.ErrZeroStake {
		t.Errorf("zero stake should fail with ErrZeroStake, got %v", err)
	}

	pool := k.GetPool(ctx, "pool-1")
	if err := pool.Activate(1); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if err := pool.Deactivate(2); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	k.SetPool(ctx, pool)
	if _, err := k.RequestAddStake(ctx, staker, "pool-1", sui(1)); err != types.ErrPoolInactive {
		t.Errorf("staking into an inactive pool should fail with ErrPoolInactive, got %v", err)
	}
}

// TestSplitStakedSui tests splitting a position in two
func TestSplitStakedSui(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	owner := testAddr("staker-1")

	if _, err := k.CreatePool(ctx, "pool-1"); err != nil {
		t.Fatalf("create pool failed: %v", err)
	}
	position, err := k.RequestAddStake(ctx, owner, "pool-1", sui(10))
	if err != nil {
		t.Fatalf("stake failed: %v", err)
	}

	split, err := k.SplitStakedSui(ctx, owner, position.PositionID, sui(4))
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if !split.Principal.Equal(sui(4)) {
		t.Errorf("split principal = %s, want %s", split.Principal.String(), sui(4).String())
	}
	if split.PoolID != position.PoolID || split.StakeActivationEpoch != position.StakeActivationEpoch {
		t.Error("split should keep the original staking metadata")
	}

	remaining := k.GetPosition(ctx, position.PositionID)
	if !remaining.Principal.Equal(sui(6)) {
		t.Errorf("remaining principal = %s, want %s", remaining.Principal.String(), sui(6).String())
	}
}

// TestSplitStakedSuiErrors tests split ownership, bounds and threshold guards
func TestSplitStakedSuiErrors(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	owner := testAddr("staker-1")
	stranger := testAddr("staker-2")

	if _, err := k.CreatePool(ctx, "pool-1"); err != nil {
		t.Fatalf("create pool failed: %v", err)
	}
	position, err := k.RequestAddStake(ctx, owner, "pool-1", sui(3))
	if err != nil {
		t.Fatalf("stake failed: %v", err)
	}

	tests := []struct {
		name       string
		owner      sdk.AccAddress
		positionID string
		amount     math.Int
		wantErr    error
	}{
		{"missing position", owner, "missing", sui(1), types.ErrPositionNotFound},
		{"wrong owner", stranger, position.PositionID, sui(1), types.ErrUnauthorized},
		{"zero amount", owner, position.PositionID, math.ZeroInt(), types.ErrInvalidAmount},
		{"amount exceeds principal", owner, position.PositionID, sui(4), types.ErrInsufficientPrincipal},
		{"split below threshold", owner, position.PositionID, math.NewInt(500_000_000), types.ErrBelowThreshold},
		{"remainder below threshold", owner, position.PositionID, sui(3).SubRaw(500_000_000), types.ErrBelowThreshold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := k.SplitStakedSui(ctx, tt.owner, tt.positionID, tt.amount); err != tt.wantErr {
				t.Errorf("split error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Guards must not mutate the position
	if got := k.GetPosition(ctx, position.PositionID); !got.Principal.Equal(sui(3)) {
		t.Errorf("principal after failed splits = %s, want %s", got.Principal.String(), sui(3).String())
	}
}

// TestJoinStakedSui tests merging two compatible positions
func TestJoinStakedSui(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	owner := testAddr("staker-1")

	if _, err := k.CreatePool(ctx, "pool-1"); err != nil {
		t.Fatalf("create pool failed: %v", err)
	}
	p1, err := k.RequestAddStake(ctx, owner, "pool-1", sui(3))
	if err != nil {
		t.Fatalf("stake failed: %v", err)
	}
	p2, err := k.RequestAddStake(ctx, owner, "pool-1", sui(2))
	if err != nil {
		t.Fatalf("stake failed: %v", err)
	}

	joined, err := k.JoinStakedSui(ctx, owner, p1.PositionID, p2.PositionID)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if !joined.Principal.Equal(sui(5)) {
		t.Errorf("joined principal = %s, want %s", joined.Principal.String(), sui(5).String())
	}
	if k.GetPosition(ctx, p2.PositionID) != nil {
		t.Error("source position should be consumed by the join")
	}
}

// TestJoinStakedSuiErrors tests join compatibility guards
func TestJoinStakedSuiErrors(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	owner := testAddr("staker-1")
	stranger := testAddr("staker-2")

	if _, err := k.CreatePool(ctx, "pool-1"); err != nil {
		t.Fatalf("create pool failed: %v", err)
	}
	if _, err := k.CreatePool(ctx, "pool-2"); err != nil {
		t.Fatalf("create pool failed: %v", err)
	}
	p1, err := k.RequestAddStake(ctx, owner, "pool-1", sui(3))
	if err != nil {
		t.Fatalf("stake failed: %v", err)
	}
	otherPool, err := k.RequestAddStake(ctx, owner, "pool-2", sui(2))
	if err != nil {
		t.Fatalf("stake failed: %v", err)
	}
	notMine, err := k.RequestAddStake(ctx, stranger, "pool-1", sui(2))
	if err != nil {
		t.Fatalf("stake failed: %v", err)
	}

	// Same activation epoch but different pool
	if _, err := k.JoinStakedSui(ctx, owner, p1.PositionID, otherPool.PositionID); err != types.ErrMetadataMismatch {
		t.Errorf("cross-pool join error = %v, want ErrMetadataMismatch", err)
	}
	// Different activation epoch in the same pool
	k.SetCurrentEpoch(ctx, 1)
	laterEpoch, err := k.RequestAddStake(ctx, owner, "pool-1", sui(2))
	if err != nil {
		t.Fatalf("stake failed: %v", err)
	}
	if _, err := k.JoinStakedSui(ctx, owner, p1.PositionID, laterEpoch.PositionID); err != types.ErrMetadataMismatch {
		t.Errorf("cross-epoch join error = %v, want ErrMetadataMismatch", err)
	}
	// Self join
	if _, err := k.JoinStakedSui(ctx, owner, p1.PositionID, p1.PositionID); err != types.ErrMetadataMismatch {
		t.Errorf("self join error = %v, want ErrMetadataMismatch", err)
	}
	// Not the owner of the source
	if _, err := k.JoinStakedSui(ctx, owner, p1.PositionID, notMine.PositionID); err != types.ErrUnauthorized {
		t.Errorf("foreign source join error = %v, want ErrUnauthorized", err)
	}
}
