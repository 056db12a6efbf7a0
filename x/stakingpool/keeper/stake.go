package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/poolstake/x/stakingpool/types"
)

// RequestAddStake escrows the staker's SUI into the module account and books
// it as pending stake. The principal starts earning at the next epoch; until
// then it carries no pool tokens and no reward exposure.
func (k *Keeper) RequestAddStake(ctx sdk.Context, staker sdk.AccAddress, poolID string, amount math.Int) (*types.StakedSui, error) {
	if !amount.IsPositive() {
		return nil, types.ErrZeroStake
	}

	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	if pool.IsInactive() {
		return nil, types.ErrPoolInactive
	}

	coins := sdk.NewCoins(sdk.NewCoin(types.StakeDenom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, staker, types.ModuleName, coins); err != nil {
		return nil, err
	}

	pool.PendingStake = pool.PendingStake.Add(amount)
	k.SetPool(ctx, pool)

	activationEpoch := k.GetCurrentEpoch(ctx) + 1
	position := types.NewStakedSui(k.NextPositionID(ctx), poolID, staker.String(), activationEpoch, amount)
	k.SetPosition(ctx, position)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent("stake_added",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("position_id", position.PositionID),
			sdk.NewAttribute("staker", staker.String()),
			sdk.NewAttribute("amount", amount.String()),
		),
	)

	k.logger.Info("Stake added",
		"pool_id", poolID,
		"position_id", position.PositionID,
		"amount", amount.String(),
		"activation_epoch", activationEpoch,
	)

	return position, nil
}

// SplitStakedSui carves a new position of the given principal out of an
// existing one. Both resulting positions keep the original stake activation
// epoch and must end up at or above the minimum staking threshold.
func (k *Keeper) SplitStakedSui(ctx sdk.Context, owner sdk.AccAddress, positionID string, amount math.Int) (*types.StakedSui, error) {
	if !amount.IsPositive() {
		return nil, types.ErrInvalidAmount
	}

	position := k.GetPosition(ctx, positionID)
	if position == nil {
		return nil, types.ErrPositionNotFound
	}
	if position.Owner != owner.String() {
		return nil, types.ErrUnauthorized
	}
	if amount.GT(position.Principal) {
		return nil, types.ErrInsufficientPrincipal
	}

	remaining := position.Principal.Sub(amount)
	if amount.LT(types.MinStakingThreshold) || remaining.LT(types.MinStakingThreshold) {
		return nil, types.ErrBelowThreshold
	}

	position.Principal = remaining
	k.SetPosition(ctx, position)

	split := types.NewStakedSui(k.NextPositionID(ctx), position.PoolID, position.Owner, position.StakeActivationEpoch, amount)
	k.SetPosition(ctx, split)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent("stake_split",
			sdk.NewAttribute("position_id", position.PositionID),
			sdk.NewAttribute("new_position_id", split.PositionID),
			sdk.NewAttribute("amount", amount.String()),
		),
	)

	return split, nil
}

// JoinStakedSui merges the source position into the target. The positions
// must share a pool and stake activation epoch; the source is consumed.
func (k *Keeper) JoinStakedSui(ctx sdk.Context, owner sdk.AccAddress, positionID, sourcePositionID string) (*types.StakedSui, error) {
	if positionID == sourcePositionID {
		return nil, types.ErrMetadataMismatch
	}

	target := k.GetPosition(ctx, positionID)
	if target == nil {
		return nil, types.ErrPositionNotFound
	}
	source := k.GetPosition(ctx, sourcePositionID)
	if source == nil {
		return nil, types.ErrPositionNotFound
	}
	if target.Owner != owner.String() || source.Owner != owner.String() {
		return nil, types.ErrUnauthorized
	}
	if !target.IsEqualStakingMetadata(source) {
		return nil, types.ErrMetadataMismatch
	}

	target.Principal = target.Principal.Add(source.Principal)
	k.DeletePosition(ctx, source)
	k.SetPosition(ctx, target)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent("stake_joined",
			sdk.NewAttribute("position_id", target.PositionID),
			sdk.NewAttribute("source_position_id", source.PositionID),
			sdk.NewAttribute("principal", target.Principal.String()),
		),
	)

	return target, nil
}
