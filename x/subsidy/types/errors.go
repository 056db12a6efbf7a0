package types

import (
	errorsmod "cosmossdk.io/errors"
)

// x/subsidy module sentinel errors
var (
	ErrEmitterNotFound     = errorsmod.Register(ModuleName, 1, "subsidy emitter not initialized")
	ErrInvalidDecreaseRate = errorsmod.Register(ModuleName, 2, "subsidy decrease rate cannot exceed 10000 basis points")
	ErrInvalidPeriodLength = errorsmod.Register(ModuleName, 3, "subsidy period length must be positive")
	ErrInvalidFundBalance  = errorsmod.Register(ModuleName, 4, "subsidy fund and distribution amounts must be non-negative")
)
