package types

import (
	errorsmod "cosmossdk.io/errors"
)

// x/stakingpool module sentinel errors
var (
	ErrPoolNotFound           = errorsmod.Register(ModuleName, 1, "staking pool not found")
	ErrPoolAlreadyExists      = errorsmod.Register(ModuleName, 2, "staking pool already exists")
	ErrPoolAlreadyActive      = errorsmod.Register(ModuleName, 3, "staking pool already active")
	ErrPoolAlreadyInactive    = errorsmod.Register(ModuleName, 4, "staking pool already inactive")
	ErrPoolInactive           = errorsmod.Register(ModuleName, 5, "staking pool is inactive")
	ErrZeroStake              = errorsmod.Register(ModuleName, 6, "stake amount must be positive")
	ErrPositionNotFound       = errorsmod.Register(ModuleName, 7, "staked position not found")
	ErrUnauthorized           = errorsmod.Register(ModuleName, 8, "signer does not own the staked position")
	ErrMetadataMismatch       = errorsmod.Register(ModuleName, 9, "positions have different pool or activation epoch")
	ErrBelowThreshold         = errorsmod.Register(ModuleName, 10, "resulting principal below minimum staking threshold")
	ErrInsufficientPrincipal  = errorsmod.Register(ModuleName, 11, "split amount exceeds position principal")
	ErrInsufficientSuiBalance = errorsmod.Register(ModuleName, 12, "withdrawal exceeds pool sui balance")
	ErrInsufficientPoolTokens = errorsmod.Register(ModuleName, 13, "withdrawal exceeds pool token balance")
	ErrTokenBalanceMismatch   = errorsmod.Register(ModuleName, 14, "pool token balance does not match exchange rate")
	ErrInvalidAmount          = errorsmod.Register(ModuleName, 15, "invalid amount")
	ErrInvalidAuthority       = errorsmod.Register(ModuleName, 16, "invalid authority")
	ErrZeroWithdraw           = errorsmod.Register(ModuleName, 17, "withdrawal amount cannot be zero")
)
