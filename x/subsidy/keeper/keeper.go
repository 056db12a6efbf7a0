package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	stakingpooltypes "github.com/openalpha/poolstake/x/stakingpool/types"
	"github.com/openalpha/poolstake/x/subsidy/types"
)

// Store key prefixes
var (
	EmitterKey = []byte{0x01}
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error
}

// Keeper manages the subsidy module state
type Keeper struct {
	cdc        codec.BinaryCodec
	storeKey   storetypes.StoreKey
	bankKeeper BankKeeper
	logger     log.Logger
	authority  string
}

// NewKeeper creates a new subsidy keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	bankKeeper BankKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:        cdc,
		storeKey:   storeKey,
		bankKeeper: bankKeeper,
		authority:  authority,
		logger:     logger.With("module", "x/subsidy"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the governance authority address
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// SetEmitter stores the subsidy emitter singleton
func (k *Keeper) SetEmitter(ctx sdk.Context, emitter *types.Emitter) {
	store := ctx.KVStore(k.storeKey)
	bz, _ := json.Marshal(emitter)
	store.Set(EmitterKey, bz)
}

// GetEmitter retrieves the subsidy emitter singleton
func (k *Keeper) GetEmitter(ctx sdk.Context) *types.Emitter {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(EmitterKey)
	if bz == nil {
		return nil
	}
	var emitter types.Emitter
	if err := json.Unmarshal(bz, &emitter); err != nil {
		return nil
	}
	return &emitter
}

// InitEmitter creates the emitter with the given schedule and mints its fund
// into the module account. No-op if the emitter already exists.
func (k *Keeper) InitEmitter(ctx sdk.Context, fundBalance, initialDistributionAmount math.Int, periodLength uint64, decreaseRateBp uint16) error {
	if k.GetEmitter(ctx) != nil {
		return nil
	}

	emitter, err := types.NewEmitter(fundBalance, initialDistributionAmount, periodLength, decreaseRateBp)
	if err != nil {
		return err
	}

	if fundBalance.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(stakingpooltypes.StakeDenom, fundBalance))
		if err := k.bankKeeper.MintCoins(ctx, types.ModuleName, coins); err != nil {
			return err
		}
	}

	k.SetEmitter(ctx, emitter)
	k.logger.Info("Initialized subsidy emitter",
		"fund_balance", fundBalance.String(),
		"distribution_amount", initialDistributionAmount.String(),
		"period_length", periodLength,
		"decrease_rate_bp", decreaseRateBp,
	)
	return nil
}

// CurrentEpochSubsidyAmount returns the subsidy the next epoch will receive,
// capped by the remaining fund.
func (k *Keeper) CurrentEpochSubsidyAmount(ctx sdk.Context) math.Int {
	emitter := k.GetEmitter(ctx)
	if emitter == nil {
		return math.ZeroInt()
	}
	if emitter.CurrentDistributionAmount.GT(emitter.FundBalance) {
		return emitter.FundBalance
	}
	return emitter.CurrentDistributionAmount
}

// AdvanceEpoch withdraws one epoch's subsidy, moves the coins into the
// staking pool escrow so withdrawals stay fully backed, and steps the decay
// schedule.
func (k *Keeper) AdvanceEpoch(ctx sdk.Context) (math.Int, error) {
	emitter := k.GetEmitter(ctx)
	if emitter == nil {
		return math.ZeroInt(), types.ErrEmitterNotFound
	}

	withdrawn := emitter.Advance()
	if withdrawn.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(stakingpooltypes.StakeDenom, withdrawn))
		if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, types.ModuleName, stakingpooltypes.ModuleName, coins); err != nil {
			return math.ZeroInt(), err
		}
	}
	k.SetEmitter(ctx, emitter)

	k.logger.Info("Subsidy distributed",
		"amount", withdrawn.String(),
		"distribution_counter", emitter.DistributionCounter,
		"next_distribution_amount", emitter.CurrentDistributionAmount.String(),
		"fund_balance", emitter.FundBalance.String(),
	)
	return withdrawn, nil
}

// ReturnDust puts back the part of a distribution that the pro-rata split
// could not allocate. The coins move out of the staking pool escrow and the
// fund balance grows by the same amount.
func (k *Keeper) ReturnDust(ctx sdk.Context, dust math.Int) error {
	if !dust.IsPositive() {
		return nil
	}

	emitter := k.GetEmitter(ctx)
	if emitter == nil {
		return types.ErrEmitterNotFound
	}

	coins := sdk.NewCoins(sdk.NewCoin(stakingpooltypes.StakeDenom, dust))
	if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, stakingpooltypes.ModuleName, types.ModuleName, coins); err != nil {
		return err
	}

	emitter.FundBalance = emitter.FundBalance.Add(dust)
	k.SetEmitter(ctx, emitter)
	return nil
}
