package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/poolstake/x/stakingpool/types"
)

// PoolTokenExchangeRateAtEpoch returns the pool's exchange rate as of the
// given epoch. Preactive pools, and epochs before activation, always resolve
// to the bootstrap 1:1 rate. For inactive pools the epoch is clamped to the
// deactivation epoch. Entries are sparse (only epochs in which the pool was
// processed have one), so the lookup scans backward to the latest recorded
// entry at or before the requested epoch.
func (k *Keeper) PoolTokenExchangeRateAtEpoch(ctx sdk.Context, pool *types.Pool, epoch uint64) types.ExchangeRate {
	if pool.IsPreactive() || epoch < *pool.ActivationEpoch {
		return types.InitialExchangeRate()
	}
	if pool.IsInactive() && epoch > *pool.DeactivationEpoch {
		epoch = *pool.DeactivationEpoch
	}

	activationEpoch := *pool.ActivationEpoch
	for e := epoch; ; e-- {
		if rate, ok := k.GetExchangeRateEntry(ctx, pool.PoolID, e); ok {
			return rate
		}
		if e == activationEpoch {
			break
		}
	}
	return types.InitialExchangeRate()
}
