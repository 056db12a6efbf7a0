package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/poolstake/x/stakingpool/types"
)

// QueryServer defines the stakingpool QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// Pool returns a pool by ID
func (q *QueryServer) Pool(ctx context.Context, poolID string) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := q.keeper.GetPool(sdkCtx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	return pool, nil
}

// Pools returns all pools
func (q *QueryServer) Pools(ctx context.Context, offset, limit uint64) ([]*types.Pool, uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	allPools := q.keeper.GetAllPools(sdkCtx)

	total := uint64(len(allPools))

	// Apply pagination
	if offset >= total {
		return []*types.Pool{}, total, nil
	}

	end := offset + limit
	if end > total || limit == 0 {
		end = total
	}

	return allPools[offset:end], total, nil
}

// Position returns a staked position by ID
func (q *QueryServer) Position(ctx context.Context, positionID string) (*types.StakedSui, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	position := q.keeper.GetPosition(sdkCtx, positionID)
	if position == nil {
		return nil, types.ErrPositionNotFound
	}
	return position, nil
}

// OwnerPositions returns all staked positions for an owner, with the total
// principal across them.
func (q *QueryServer) OwnerPositions(ctx context.Context, owner string) ([]*types.StakedSui, math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	positions := q.keeper.GetOwnerPositions(sdkCtx, owner)

	totalPrincipal := math.ZeroInt()
	for _, position := range positions {
		totalPrincipal = totalPrincipal.Add(position.Principal)
	}

	return positions, totalPrincipal, nil
}

// ExchangeRate returns the pool's exchange rate as of the given epoch
func (q *QueryServer) ExchangeRate(ctx context.Context, poolID string, epoch uint64) (types.ExchangeRate, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := q.keeper.GetPool(sdkCtx, poolID)
	if pool == nil {
		return types.ExchangeRate{}, types.ErrPoolNotFound
	}
	return q.keeper.PoolTokenExchangeRateAtEpoch(sdkCtx, pool, epoch), nil
}

// CurrentEpoch returns the current epoch number
func (q *QueryServer) CurrentEpoch(ctx context.Context) uint64 {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return q.keeper.GetCurrentEpoch(sdkCtx)
}

// OwnerWithdrawals returns all withdrawal records for an owner
func (q *QueryServer) OwnerWithdrawals(ctx context.Context, owner string) ([]*types.WithdrawalRecord, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return q.keeper.GetOwnerWithdrawals(sdkCtx, owner), nil
}
