package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/poolstake/metrics"
	"github.com/openalpha/poolstake/x/stakingpool/types"
)

// MsgServer defines the stakingpool MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// parseAmount converts a decimal string message field into a positive Int
func parseAmount(s string) (math.Int, error) {
	amount, ok := math.NewIntFromString(s)
	if !ok {
		return math.Int{}, types.ErrInvalidAmount
	}
	return amount, nil
}

// Stake handles MsgStake
func (m *MsgServer) Stake(ctx context.Context, msg *types.MsgStake) (*types.MsgStakeResponse, error) {
	amount, err := parseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}

	staker, err := sdk.AccAddressFromBech32(msg.Staker)
	if err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	position, err := m.keeper.RequestAddStake(sdkCtx, staker, msg.PoolID, amount)
	if err != nil {
		return nil, err
	}

	metrics.GetMetrics().RecordStake(msg.PoolID, amount)

	return &types.MsgStakeResponse{
		PositionID:      position.PositionID,
		Principal:       position.Principal.String(),
		ActivationEpoch: position.StakeActivationEpoch,
	}, nil
}

// WithdrawStake handles MsgWithdrawStake
func (m *MsgServer) WithdrawStake(ctx context.Context, msg *types.MsgWithdrawStake) (*types.MsgWithdrawStakeResponse, error) {
	staker, err := sdk.AccAddressFromBech32(msg.Staker)
	if err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	record, err := m.keeper.RequestWithdrawStake(sdkCtx, staker, msg.PositionID)
	if err != nil {
		return nil, err
	}

	metrics.GetMetrics().RecordWithdrawal(record.PoolID, record.PrincipalAmount, record.RewardAmount)

	return &types.MsgWithdrawStakeResponse{
		Principal:   record.PrincipalAmount.String(),
		Reward:      record.RewardAmount.String(),
		TotalAmount: record.PrincipalAmount.Add(record.RewardAmount).String(),
	}, nil
}

// SplitPosition handles MsgSplitPosition
func (m *MsgServer) SplitPosition(ctx context.Context, msg *types.MsgSplitPosition) (*types.MsgSplitPositionResponse, error) {
	amount, err := parseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	split, err := m.keeper.SplitStakedSui(sdkCtx, owner, msg.PositionID, amount)
	if err != nil {
		return nil, err
	}

	remaining := m.keeper.GetPosition(sdkCtx, msg.PositionID)
	if remaining == nil {
		return nil, types.ErrPositionNotFound
	}

	return &types.MsgSplitPositionResponse{
		NewPositionID:      split.PositionID,
		NewPrincipal:       split.Principal.String(),
		RemainingPrincipal: remaining.Principal.String(),
	}, nil
}

// JoinPositions handles MsgJoinPositions
func (m *MsgServer) JoinPositions(ctx context.Context, msg *types.MsgJoinPositions) (*types.MsgJoinPositionsResponse, error) {
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	joined, err := m.keeper.JoinStakedSui(sdkCtx, owner, msg.PositionID, msg.SourcePositionID)
	if err != nil {
		return nil, err
	}

	return &types.MsgJoinPositionsResponse{
		PositionID: joined.PositionID,
		Principal:  joined.Principal.String(),
	}, nil
}

// CreatePool handles MsgCreatePool (authority only)
func (m *MsgServer) CreatePool(ctx context.Context, msg *types.MsgCreatePool) (*types.MsgCreatePoolResponse, error) {
	if msg.Authority != m.keeper.GetAuthority() {
		return nil, types.ErrInvalidAuthority
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool, err := m.keeper.CreatePool(sdkCtx, msg.PoolID)
	if err != nil {
		return nil, err
	}

	return &types.MsgCreatePoolResponse{
		PoolID: pool.PoolID,
	}, nil
}

// DeactivatePool handles MsgDeactivatePool (authority only)
func (m *MsgServer) DeactivatePool(ctx context.Context, msg *types.MsgDeactivatePool) (*types.MsgDeactivatePoolResponse, error) {
	if msg.Authority != m.keeper.GetAuthority() {
		return nil, types.ErrInvalidAuthority
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool, err := m.keeper.RequestDeactivatePool(sdkCtx, msg.PoolID)
	if err != nil {
		return nil, err
	}

	// The pool goes inactive at the next epoch boundary.
	return &types.MsgDeactivatePoolResponse{
		PoolID:            pool.PoolID,
		DeactivationEpoch: m.keeper.GetCurrentEpoch(sdkCtx) + 1,
	}, nil
}
