package keeper

import (
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"
	"github.com/openalpha/poolstake/x/stakingpool/types"
)

// RequestWithdrawStake withdraws a full staked position: principal plus any
// reward it has earned, at the current epoch's exchange rate. The position is
// consumed and the payout leaves the module escrow immediately; the pool's
// authoritative balances are only adjusted at the next epoch boundary, via
// the pending withdrawal accumulators, except for inactive pools which are
// drained on the spot since they will never be advanced again.
func (k *Keeper) RequestWithdrawStake(ctx sdk.Context, staker sdk.AccAddress, positionID string) (*types.WithdrawalRecord, error) {
	position := k.GetPosition(ctx, positionID)
	if position == nil {
		return nil, types.ErrPositionNotFound
	}
	if position.Owner != staker.String() {
		return nil, types.ErrUnauthorized
	}

	pool := k.GetPool(ctx, position.PoolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}

	principal := position.Principal
	if !principal.IsPositive() {
		return nil, types.ErrZeroWithdraw
	}

	currentEpoch := k.GetCurrentEpoch(ctx)

	// A position whose activation epoch has not been reached was never folded
	// into the pool's balances; reverse the pending stake and refund the
	// principal as-is.
	if position.StakeActivationEpoch > currentEpoch {
		if principal.GT(pool.PendingStake) {
			return nil, types.ErrInsufficientSuiBalance
		}
		pool.PendingStake = pool.PendingStake.Sub(principal)
		k.SetPool(ctx, pool)
		return k.payOutWithdrawal(ctx, pool, position, principal, math.ZeroInt(), math.ZeroInt(), currentEpoch)
	}

	rateAtStake := k.PoolTokenExchangeRateAtEpoch(ctx, pool, position.StakeActivationEpoch)
	poolTokenAmount := rateAtStake.GetTokenAmount(principal)

	rateNow := k.PoolTokenExchangeRateAtEpoch(ctx, pool, currentEpoch)
	totalSuiOwed := rateNow.GetSuiAmount(poolTokenAmount)

	// Floor rounding can leave the owed amount a hair under the principal;
	// clamp to zero, then clamp to what the rewards pool actually holds.
	reward := math.ZeroInt()
	if totalSuiOwed.GT(principal) {
		reward = totalSuiOwed.Sub(principal)
	}
	if reward.GT(pool.RewardsPoolBalance) {
		reward = pool.RewardsPoolBalance
	}

	pool.RewardsPoolBalance = pool.RewardsPoolBalance.Sub(reward)
	pool.PendingTotalSuiWithdraw = pool.PendingTotalSuiWithdraw.Add(principal).Add(reward)
	pool.PendingPoolTokenWithdraw = pool.PendingPoolTokenWithdraw.Add(poolTokenAmount)

	// Inactive pools never reach another epoch boundary, so their
	// accumulators are drained immediately.
	if pool.IsInactive() {
		if err := k.processPendingStakeWithdraw(pool); err != nil {
			return nil, err
		}
	}

	k.SetPool(ctx, pool)
	return k.payOutWithdrawal(ctx, pool, position, principal, reward, poolTokenAmount, currentEpoch)
}

// payOutWithdrawal consumes the position, releases the coins from escrow and
// writes the historical record.
func (k *Keeper) payOutWithdrawal(ctx sdk.Context, pool *types.Pool, position *types.StakedSui, principal, reward, poolTokenAmount math.Int, epoch uint64) (*types.WithdrawalRecord, error) {
	k.DeletePosition(ctx, position)

	total := principal.Add(reward)
	staker := sdk.MustAccAddressFromBech32(position.Owner)
	coins := sdk.NewCoins(sdk.NewCoin(types.StakeDenom, total))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, staker, coins); err != nil {
		return nil, err
	}

	record := &types.WithdrawalRecord{
		RecordID:        uuid.New().String(),
		PoolID:          pool.PoolID,
		Owner:           position.Owner,
		PositionID:      position.PositionID,
		PrincipalAmount: principal,
		RewardAmount:    reward,
		PoolTokenAmount: poolTokenAmount,
		Epoch:           epoch,
		Timestamp:       time.Now().Unix(),
	}
	k.SetWithdrawalRecord(ctx, record)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent("stake_withdrawn",
			sdk.NewAttribute("pool_id", pool.PoolID),
			sdk.NewAttribute("position_id", position.PositionID),
			sdk.NewAttribute("staker", position.Owner),
			sdk.NewAttribute("principal", principal.String()),
			sdk.NewAttribute("reward", reward.String()),
		),
	)

	k.logger.Info("Stake withdrawn",
		"pool_id", pool.PoolID,
		"position_id", position.PositionID,
		"principal", principal.String(),
		"reward", reward.String(),
	)

	return record, nil
}
