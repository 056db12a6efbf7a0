package keeper

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/openalpha/poolstake/x/stakingpool/types"
)

// TestAdvanceEpochBootstrap tests the first epoch boundary of a fresh pool
func TestAdvanceEpochBootstrap(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	staker := testAddr("staker-1")

	if _, err := k.CreatePool(ctx, "pool-1"); err != nil {
		t.Fatalf("create pool failed: %v", err)
	}
	if _, err := k.RequestAddStake(ctx, staker, "pool-1", sui(100)); err != nil {
		t.Fatalf("stake failed: %v", err)
	}

	// The pool has no balance yet, so the subsidy has nowhere to go
	newEpoch, dust, err := k.AdvanceEpoch(ctx, sui(50))
	if err != nil {
		t.Fatalf("advance epoch failed: %v", err)
	}
	if newEpoch != 1 {
		t.Errorf("new epoch = %d, want 1", newEpoch)
	}
	if !dust.Equal(sui(50)) {
		t.Errorf("dust = %s, want the full subsidy %s", dust.String(), sui(50).String())
	}
	if got := k.GetCurrentEpoch(ctx); got != 1 {
		t.Errorf("current epoch = %d, want 1", got)
	}

	pool := k.GetPool(ctx, "pool-1")
	if pool.IsPreactive() {
		t.Error("pool should have activated at the boundary")
	}
	if *pool.ActivationEpoch != 1 {
		t.Errorf("activation epoch = %d, want 1", *pool.ActivationEpoch)
	}
	if !pool.SuiBalance.Equal(sui(100)) {
		t.Errorf("sui balance = %s, want %s", pool.SuiBalance.String(), sui(100).String())
	}
	if !pool.PoolTokenBalance.Equal(sui(100)) {
		t.Errorf("pool tokens = %s, want %s", pool.PoolTokenBalance.String(), sui(100).String())
	}
	if !pool.PendingStake.IsZero() {
		t.Errorf("pending stake = %s, want 0", pool.PendingStake.String())
	}

	rate, ok := k.GetExchangeRateEntry(ctx, "pool-1", 1)
	if !ok {
		t.Fatal("no rate entry recorded at the new epoch")
	}
	if !rate.SuiAmount.Equal(sui(100)) || !rate.PoolTokenAmount.Equal(sui(100)) {
		t.Errorf("rate = %s/%s, want %s/%s",
			rate.SuiAmount.String(), rate.PoolTokenAmount.String(), sui(100).String(), sui(100).String())
	}
}

// TestAdvanceEpochRewards tests that a reward distribution moves the rate
// without minting new pool tokens
func TestAdvanceEpochRewards(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	staker := testAddr("staker-1")

	if _, err := k.CreatePool(ctx, "pool-1"); err != nil {
		t.Fatalf("create pool failed: %v", err)
	}
	if _, err := k.RequestAddStake(ctx, staker, "pool-1", sui(100)); err != nil {
		t.Fatalf("stake failed: %v", err)
	}
	if _, _, err := k.AdvanceEpoch(ctx, math.ZeroInt()); err != nil {
		t.Fatalf("advance epoch failed: %v", err)
	}

	// All of the subsidy lands in the single pool
	_, dust, err := k.AdvanceEpoch(ctx, sui(100))
	if err != nil {
		t.Fatalf("advance epoch failed: %v", err)
	}
	if !dust.IsZero() {
		t.Errorf("dust = %s, want 0", dust.String())
	}

	pool := k.GetPool(ctx, "pool-1")
	if !pool.SuiBalance.Equal(sui(200)) {
		t.Errorf("sui balance = %s, want %s", pool.SuiBalance.String(), sui(200).String())
	}
	if !pool.RewardsPoolBalance.Equal(sui(100)) {
		t.Errorf("rewards pool = %s, want %s", pool.RewardsPoolBalance.String(), sui(100).String())
	}
	if !pool.PoolTokenBalance.Equal(sui(100)) {
		t.Errorf("pool tokens = %s, want unchanged %s", pool.PoolTokenBalance.String(), sui(100).String())
	}

	// One pool token is now worth two mist
	rate, ok := k.GetExchangeRateEntry(ctx, "pool-1", 2)
	if !ok {
		t.Fatal("no rate entry at epoch 2")
	}
	if !rate.GetSuiAmount(sui(50)).Equal(sui(100)) {
		t.Errorf("50 tokens convert to %s, want %s", rate.GetSuiAmount(sui(50)).String(), sui(100).String())
	}
}

// TestAdvanceEpochProRata tests the subsidy split across pools by sui balance
func TestAdvanceEpochProRata(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	staker := testAddr("staker-1")

	for _, poolID := range []string{"pool-a", "pool-b"} {
		if _, err := k.CreatePool(ctx, poolID); err != nil {
			t.Fatalf("create pool failed: %v", err)
		}
	}
	if _, err := k.RequestAddStake(ctx, staker, "pool-a", sui(100)); err != nil {
		t.Fatalf("stake failed: %v", err)
	}
	if _, err := k.RequestAddStake(ctx, staker, "pool-b", sui(300)); err != nil {
		t.Fatalf("stake failed: %v", err)
	}
	if _, _, err := k.AdvanceEpoch(ctx, math.ZeroInt()); err != nil {
		t.Fatalf("advance epoch failed: %v", err)
	}

	// 100:300 split of 100 SUI plus one mist of remainder
	subsidy := sui(100).AddRaw(1)
	_, dust, err := k.AdvanceEpoch(ctx, subsidy)
	if err != nil {
		t.Fatalf("advance epoch failed: %v", err)
	}

	poolA := k.GetPool(ctx, "pool-a")
	poolB := k.GetPool(ctx, "pool-b")
	if !poolA.RewardsPoolBalance.Equal(sui(25)) {
		t.Errorf("pool-a rewards = %s, want %s", poolA.RewardsPoolBalance.String(), sui(25).String())
	}
	if !poolB.RewardsPoolBalance.Equal(sui(75)) {
		t.Errorf("pool-b rewards = %s, want %s", poolB.RewardsPoolBalance.String(), sui(75).String())
	}
	if !dust.Equal(math.NewInt(1)) {
		t.Errorf("dust = %s, want 1", dust.String())
	}
}

// TestDeactivationFlow tests the flag-then-final-batch pool shutdown
func TestDeactivationFlow(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	staker := testAddr("staker-1")

	if _, err := k.CreatePool(ctx, "pool-1"); err != nil {
		t.Fatalf("create pool failed: %v", err)
	}
	if _, err := k.RequestAddStake(ctx, staker, "pool-1", sui(100)); err != nil {
		t.Fatalf("stake failed: %v", err)
	}
	if _, _, err := k.AdvanceEpoch(ctx, math.ZeroInt()); err != nil {
		t.Fatalf("advance epoch failed: %v", err)
	}

	pool, err := k.RequestDeactivatePool(ctx, "pool-1")
	if err != nil {
		t.Fatalf("deactivate request failed: %v", err)
	}
	if !pool.PendingDeactivation {
		t.Error("pool should be flagged for deactivation")
	}
	if pool.IsInactive() {
		t.Error("flagged pool should still be active until the boundary")
	}

	// Double-flagging is rejected
	if _, err := k.RequestDeactivatePool(ctx, "pool-1"); err != types.ErrPoolAlreadyInactive {
		t.Errorf("second deactivate request error = %v, want ErrPoolAlreadyInactive", err)
	}

	// A flagged pool still accepts stake for its final batch
	if _, err := k.RequestAddStake(ctx, staker, "pool-1", sui(20)); err != nil {
		t.Fatalf("stake into flagged pool failed: %v", err)
	}

	if _, _, err := k.AdvanceEpoch(ctx, math.ZeroInt()); err != nil {
		t.Fatalf("advance epoch failed: %v", err)
	}

	pool = k.GetPool(ctx, "pool-1")
	if !pool.IsInactive() {
		t.Fatal("pool should be inactive after the boundary")
	}
	if *pool.DeactivationEpoch != 2 {
		t.Errorf("deactivation epoch = %d, want 2", *pool.DeactivationEpoch)
	}
	if pool.PendingDeactivation {
		t.Error("flag should clear once the pool deactivates")
	}
	// The final batch still folded the late stake in
	if !pool.SuiBalance.Equal(sui(120)) {
		t.Errorf("sui balance = %s, want %s", pool.SuiBalance.String(), sui(120).String())
	}

	if _, err := k.RequestDeactivatePool(ctx, "pool-1"); err != types.ErrPoolAlreadyInactive {
		t.Errorf("deactivating an inactive pool error = %v, want ErrPoolAlreadyInactive", err)
	}
}

// TestRateLookupSparseHistory tests the backward scan over sparse rate entries
func TestRateLookupSparseHistory(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	pool := types.NewPool("pool-1")
	if err := pool.Activate(2); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	k.SetPool(ctx, pool)

	rateAt2 := types.ExchangeRate{SuiAmount: sui(100), PoolTokenAmount: sui(100)}
	rateAt5 := types.ExchangeRate{SuiAmount: sui(200), PoolTokenAmount: sui(100)}
	k.SetExchangeRateEntry(ctx, "pool-1", 2, rateAt2)
	k.SetExchangeRateEntry(ctx, "pool-1", 5, rateAt5)

	tests := []struct {
		epoch uint64
		want  types.ExchangeRate
	}{
		{0, types.InitialExchangeRate()}, // before activation
		{1, types.InitialExchangeRate()},
		{2, rateAt2},
		{4, rateAt2}, // gap resolves to the latest earlier entry
		{5, rateAt5},
		{8, rateAt5},
	}
	for _, tt := range tests {
		got := k.PoolTokenExchangeRateAtEpoch(ctx, pool, tt.epoch)
		if !got.SuiAmount.Equal(tt.want.SuiAmount) || !got.PoolTokenAmount.Equal(tt.want.PoolTokenAmount) {
			t.Errorf("rate at epoch %d = %s/%s, want %s/%s", tt.epoch,
				got.SuiAmount.String(), got.PoolTokenAmount.String(),
				tt.want.SuiAmount.String(), tt.want.PoolTokenAmount.String())
		}
	}
}

// TestRateLookupClamping tests the preactive and post-deactivation cases
func TestRateLookupClamping(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	preactive := types.NewPool("pool-pre")
	k.SetPool(ctx, preactive)
	if got := k.PoolTokenExchangeRateAtEpoch(ctx, preactive, 7); !got.IsBootstrap() {
		t.Error("preactive pool should resolve to the bootstrap rate")
	}

	pool := types.NewPool("pool-1")
	if err := pool.Activate(2); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if err := pool.Deactivate(5); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	k.SetPool(ctx, pool)

	rateAt5 := types.ExchangeRate{SuiAmount: sui(300), PoolTokenAmount: sui(100)}
	k.SetExchangeRateEntry(ctx, "pool-1", 2, types.ExchangeRate{SuiAmount: sui(100), PoolTokenAmount: sui(100)})
	k.SetExchangeRateEntry(ctx, "pool-1", 5, rateAt5)

	// Epochs past deactivation clamp to the final rate
	got := k.PoolTokenExchangeRateAtEpoch(ctx, pool, 100)
	if !got.SuiAmount.Equal(rateAt5.SuiAmount) || !got.PoolTokenAmount.Equal(rateAt5.PoolTokenAmount) {
		t.Errorf("rate past deactivation = %s/%s, want %s/%s",
			got.SuiAmount.String(), got.PoolTokenAmount.String(),
			rateAt5.SuiAmount.String(), rateAt5.PoolTokenAmount.String())
	}
}

// TestProcessPendingStakeWithdrawGuards tests that the batch refuses to drive
// a pool balance negative
func TestProcessPendingStakeWithdrawGuards(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	pool := types.NewPool("pool-1")
	if err := pool.Activate(1); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	pool.SuiBalance = sui(10)
	pool.PoolTokenBalance = sui(10)
	pool.PendingTotalSuiWithdraw = sui(11)
	k.SetPool(ctx, pool)

	if err := k.ProcessPendingStakesAndWithdraws(ctx, pool, 2); err != types.ErrInsufficientSuiBalance {
		t.Errorf("overdrawn sui batch error = %v, want ErrInsufficientSuiBalance", err)
	}

	pool.PendingTotalSuiWithdraw = sui(5)
	pool.PendingPoolTokenWithdraw = sui(11)
	if err := k.ProcessPendingStakesAndWithdraws(ctx, pool, 2); err != types.ErrInsufficientPoolTokens {
		t.Errorf("overdrawn token batch error = %v, want ErrInsufficientPoolTokens", err)
	}
}
