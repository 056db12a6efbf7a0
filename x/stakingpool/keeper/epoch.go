package keeper

import (
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/poolstake/x/stakingpool/types"
)

// ActivateStakingPool transitions a preactive pool to active at the given
// epoch and records its bootstrap exchange rate for that epoch.
func (k *Keeper) ActivateStakingPool(ctx sdk.Context, pool *types.Pool, epoch uint64) error {
	if err := pool.Activate(epoch); err != nil {
		return err
	}
	k.SetExchangeRateEntry(ctx, pool.PoolID, epoch, types.InitialExchangeRate())
	k.SetPool(ctx, pool)
	k.logger.Info("Activated staking pool", "pool_id", pool.PoolID, "epoch", epoch)
	return nil
}

// RequestDeactivatePool flags an active pool for deactivation. The pool is
// processed one final time at the next epoch boundary and then becomes
// inactive at the new epoch.
func (k *Keeper) RequestDeactivatePool(ctx sdk.Context, poolID string) (*types.Pool, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	if pool.IsInactive() {
		return nil, types.ErrPoolAlreadyInactive
	}
	if pool.PendingDeactivation {
		return nil, types.ErrPoolAlreadyInactive
	}
	pool.PendingDeactivation = true
	pool.UpdatedAt = time.Now().Unix()
	k.SetPool(ctx, pool)
	k.logger.Info("Pool flagged for deactivation", "pool_id", poolID)
	return pool, nil
}

// DepositRewards credits an epoch reward distribution to a pool. The whole
// amount lands in the sui balance and is earmarked in the rewards pool.
func (k *Keeper) DepositRewards(ctx sdk.Context, pool *types.Pool, amount math.Int) {
	if !amount.IsPositive() {
		return
	}
	pool.SuiBalance = pool.SuiBalance.Add(amount)
	pool.RewardsPoolBalance = pool.RewardsPoolBalance.Add(amount)
}

// processPendingStakeWithdraw subtracts the accumulated withdrawal totals
// from the pool balances and resets the accumulators. Balances never go
// negative; a shortfall means the accounting is broken.
func (k *Keeper) processPendingStakeWithdraw(pool *types.Pool) error {
	if pool.PendingTotalSuiWithdraw.GT(pool.SuiBalance) {
		return types.ErrInsufficientSuiBalance
	}
	if pool.PendingPoolTokenWithdraw.GT(pool.PoolTokenBalance) {
		return types.ErrInsufficientPoolTokens
	}
	pool.SuiBalance = pool.SuiBalance.Sub(pool.PendingTotalSuiWithdraw)
	pool.PoolTokenBalance = pool.PoolTokenBalance.Sub(pool.PendingPoolTokenWithdraw)
	pool.PendingTotalSuiWithdraw = math.ZeroInt()
	pool.PendingPoolTokenWithdraw = math.ZeroInt()
	return nil
}

// ProcessPendingStakesAndWithdraws runs the epoch-boundary batch for one
// pool. Order matters: withdrawals leave at the closing epoch's rate, the
// rate is then snapshotted, and only after that is new stake folded in, so
// stake arriving at this boundary earns no retroactive share of the rewards
// distributed in the same batch.
func (k *Keeper) ProcessPendingStakesAndWithdraws(ctx sdk.Context, pool *types.Pool, newEpoch uint64) error {
	if err := k.processPendingStakeWithdraw(pool); err != nil {
		return err
	}

	latestRate := types.ExchangeRate{
		SuiAmount:       pool.SuiBalance,
		PoolTokenAmount: pool.PoolTokenBalance,
	}
	pool.SuiBalance = pool.SuiBalance.Add(pool.PendingStake)
	pool.PoolTokenBalance = latestRate.GetTokenAmount(pool.SuiBalance)
	pool.PendingStake = math.ZeroInt()

	newRate := types.ExchangeRate{
		SuiAmount:       pool.SuiBalance,
		PoolTokenAmount: pool.PoolTokenBalance,
	}
	k.SetExchangeRateEntry(ctx, pool.PoolID, newEpoch, newRate)

	if !newRate.GetTokenAmount(pool.SuiBalance).Equal(pool.PoolTokenBalance) {
		return types.ErrTokenBalanceMismatch
	}

	pool.UpdatedAt = time.Now().Unix()
	k.SetPool(ctx, pool)
	return nil
}

// AdvanceEpoch closes the current epoch: newly created pools activate, the
// epoch's subsidy is split across pools pro rata by sui balance, every live
// pool runs its pending-stake/withdraw batch, flagged pools deactivate, and
// the epoch counter moves forward. Returns the new epoch and the subsidy
// dust left over by the floor-divided split.
func (k *Keeper) AdvanceEpoch(ctx sdk.Context, subsidy math.Int) (uint64, math.Int, error) {
	newEpoch := k.GetCurrentEpoch(ctx) + 1

	// Preactive pools join at the new epoch so their pending stake is folded
	// in below along with everyone else's.
	for _, pool := range k.GetAllPools(ctx) {
		if pool.IsPreactive() {
			if err := k.ActivateStakingPool(ctx, pool, newEpoch); err != nil {
				return 0, math.ZeroInt(), err
			}
		}
	}

	pools := k.GetAllPools(ctx)

	// Pro-rata subsidy split, floored. Whatever the flooring leaves behind
	// goes back to the subsidy fund rather than being minted as a windfall
	// for any one pool.
	totalStake := math.ZeroInt()
	for _, pool := range pools {
		if !pool.IsInactive() {
			totalStake = totalStake.Add(pool.SuiBalance)
		}
	}

	distributed := math.ZeroInt()
	for _, pool := range pools {
		if pool.IsInactive() {
			continue
		}

		if subsidy.IsPositive() && totalStake.IsPositive() {
			share := subsidy.Mul(pool.SuiBalance).Quo(totalStake)
			k.DepositRewards(ctx, pool, share)
			distributed = distributed.Add(share)
		}

		if err := k.ProcessPendingStakesAndWithdraws(ctx, pool, newEpoch); err != nil {
			k.logger.Error("Epoch batch failed",
				"pool_id", pool.PoolID,
				"epoch", newEpoch,
				"error", err.Error(),
			)
			return 0, math.ZeroInt(), err
		}

		if pool.PendingDeactivation {
			if err := pool.Deactivate(newEpoch); err != nil {
				return 0, math.ZeroInt(), err
			}
			pool.PendingDeactivation = false
			k.SetPool(ctx, pool)
			k.logger.Info("Deactivated staking pool", "pool_id", pool.PoolID, "epoch", newEpoch)
		}
	}

	k.SetCurrentEpoch(ctx, newEpoch)

	dust := subsidy.Sub(distributed)
	k.logger.Info("Epoch advanced",
		"epoch", newEpoch,
		"pools", len(pools),
		"subsidy", subsidy.String(),
		"subsidy_dust", dust.String(),
	)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent("epoch_advanced",
			sdk.NewAttribute("epoch", math.NewIntFromUint64(newEpoch).String()),
			sdk.NewAttribute("subsidy", subsidy.String()),
		),
	)

	return newEpoch, dust, nil
}
