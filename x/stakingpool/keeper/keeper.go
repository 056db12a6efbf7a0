package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/poolstake/x/stakingpool/types"
)

// Store key prefixes
var (
	PoolKeyPrefix             = []byte{0x01}
	PositionKeyPrefix         = []byte{0x02}
	OwnerPositionsKeyPrefix   = []byte{0x03}
	ExchangeRateKeyPrefix     = []byte{0x04}
	WithdrawalRecordKeyPrefix = []byte{0x05}
	OwnerWithdrawalsKeyPrefix = []byte{0x06}
	CurrentEpochKey           = []byte{0x07}
	PositionCounterKey        = []byte{0x08}
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
}

// Keeper manages the stakingpool module state
type Keeper struct {
	cdc         codec.BinaryCodec
	storeKey    storetypes.StoreKey
	bankKeeper  BankKeeper
	logger      log.Logger
	authority   string
	epochLength uint64
}

// NewKeeper creates a new stakingpool keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	bankKeeper BankKeeper,
	authority string,
	epochLength uint64,
	logger log.Logger,
) *Keeper {
	if epochLength == 0 {
		epochLength = 1
	}
	k := &Keeper{
		cdc:         cdc,
		storeKey:    storeKey,
		bankKeeper:  bankKeeper,
		authority:   authority,
		epochLength: epochLength,
		logger:      logger.With("module", "x/stakingpool"),
	}
	return k
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the governance authority address
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// EpochLength returns the epoch length in blocks
func (k *Keeper) EpochLength() uint64 {
	return k.epochLength
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// ============ Epoch State ============

// GetCurrentEpoch returns the current epoch number
func (k *Keeper) GetCurrentEpoch(ctx sdk.Context) uint64 {
	store := k.GetStore(ctx)
	bz := store.Get(CurrentEpochKey)
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

// SetCurrentEpoch stores the current epoch number
func (k *Keeper) SetCurrentEpoch(ctx sdk.Context, epoch uint64) {
	store := k.GetStore(ctx)
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, epoch)
	store.Set(CurrentEpochKey, bz)
}

// IsEpochBoundary reports whether the current block closes an epoch
func (k *Keeper) IsEpochBoundary(ctx sdk.Context) bool {
	height := ctx.BlockHeight()
	return height > 0 && uint64(height)%k.epochLength == 0
}

// ============ Pool Operations ============

// SetPool saves a pool to the store
func (k *Keeper) SetPool(ctx sdk.Context, pool *types.Pool) {
	store := k.GetStore(ctx)
	key := append(PoolKeyPrefix, []byte(pool.PoolID)...)
	bz, _ := json.Marshal(pool)
	store.Set(key, bz)
}

// GetPool retrieves a pool from the store
func (k *Keeper) GetPool(ctx sdk.Context, poolID string) *types.Pool {
	store := k.GetStore(ctx)
	key := append(PoolKeyPrefix, []byte(poolID)...)
	bz := store.Get(key)
	if bz == nil {
		return nil
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil
	}
	return &pool
}

// GetAllPools returns all pools ordered by pool ID
func (k *Keeper) GetAllPools(ctx sdk.Context) []*types.Pool {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, PoolKeyPrefix)
	defer iterator.Close()

	var pools []*types.Pool
	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			continue
		}
		pools = append(pools, &pool)
	}
	return pools
}

// CreatePool registers a new preactive pool and records its bootstrap
// exchange rate at the current epoch.
func (k *Keeper) CreatePool(ctx sdk.Context, poolID string) (*types.Pool, error) {
	if k.GetPool(ctx, poolID) != nil {
		return nil, types.ErrPoolAlreadyExists
	}
	pool := types.NewPool(poolID)
	k.SetPool(ctx, pool)
	k.SetExchangeRateEntry(ctx, poolID, k.GetCurrentEpoch(ctx), types.InitialExchangeRate())
	k.logger.Info("Created staking pool", "pool_id", poolID)
	return pool, nil
}

// ============ Position Operations ============

// positionKey generates the key for a staked position
func positionKey(positionID string) []byte {
	return append(PositionKeyPrefix, []byte(positionID)...)
}

// ownerPositionsKey generates the key for an owner's positions index
func ownerPositionsKey(owner, positionID string) []byte {
	return append(OwnerPositionsKeyPrefix, []byte(owner+":"+positionID)...)
}

// NextPositionID reserves the next monotonically increasing position ID
func (k *Keeper) NextPositionID(ctx sdk.Context) string {
	store := k.GetStore(ctx)
	var counter uint64
	if bz := store.Get(PositionCounterKey); bz != nil {
		counter = binary.BigEndian.Uint64(bz)
	}
	counter++
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, counter)
	store.Set(PositionCounterKey, bz)
	return fmt.Sprintf("stake-%d", counter)
}

// SetPosition saves a staked position to the store
func (k *Keeper) SetPosition(ctx sdk.Context, position *types.StakedSui) {
	store := k.GetStore(ctx)

	key := positionKey(position.PositionID)
	bz, _ := json.Marshal(position)
	store.Set(key, bz)

	// Index by owner
	ownerKey := ownerPositionsKey(position.Owner, position.PositionID)
	store.Set(ownerKey, []byte(position.PositionID))
}

// GetPosition retrieves a staked position from the store
func (k *Keeper) GetPosition(ctx sdk.Context, positionID string) *types.StakedSui {
	store := k.GetStore(ctx)
	bz := store.Get(positionKey(positionID))
	if bz == nil {
		return nil
	}
	var position types.StakedSui
	if err := json.Unmarshal(bz, &position); err != nil {
		return nil
	}
	return &position
}

// DeletePosition removes a staked position and its owner index
func (k *Keeper) DeletePosition(ctx sdk.Context, position *types.StakedSui) {
	store := k.GetStore(ctx)
	store.Delete(positionKey(position.PositionID))
	store.Delete(ownerPositionsKey(position.Owner, position.PositionID))
}

// GetOwnerPositions returns all staked positions for an owner
func (k *Keeper) GetOwnerPositions(ctx sdk.Context, owner string) []*types.StakedSui {
	store := k.GetStore(ctx)
	prefix := append(OwnerPositionsKeyPrefix, []byte(owner+":")...)
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	var positions []*types.StakedSui
	for ; iterator.Valid(); iterator.Next() {
		positionID := string(iterator.Value())
		position := k.GetPosition(ctx, positionID)
		if position != nil {
			positions = append(positions, position)
		}
	}
	return positions
}

// ============ Exchange Rate History ============

// exchangeRateKey generates the key for one pool's rate at one epoch
func exchangeRateKey(poolID string, epoch uint64) []byte {
	key := append(ExchangeRateKeyPrefix, []byte(poolID+":")...)
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, epoch)
	return append(key, bz...)
}

// SetExchangeRateEntry records a pool's exchange rate for an epoch
func (k *Keeper) SetExchangeRateEntry(ctx sdk.Context, poolID string, epoch uint64, rate types.ExchangeRate) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(rate)
	store.Set(exchangeRateKey(poolID, epoch), bz)
}

// GetExchangeRateEntry retrieves a pool's exchange rate recorded at exactly
// the given epoch, if any.
func (k *Keeper) GetExchangeRateEntry(ctx sdk.Context, poolID string, epoch uint64) (types.ExchangeRate, bool) {
	store := k.GetStore(ctx)
	bz := store.Get(exchangeRateKey(poolID, epoch))
	if bz == nil {
		return types.ExchangeRate{}, false
	}
	var rate types.ExchangeRate
	if err := json.Unmarshal(bz, &rate); err != nil {
		return types.ExchangeRate{}, false
	}
	return rate, true
}

// ============ Withdrawal Records ============

// withdrawalRecordKey generates the key for a withdrawal record
func withdrawalRecordKey(recordID string) []byte {
	return append(WithdrawalRecordKeyPrefix, []byte(recordID)...)
}

// ownerWithdrawalsKey generates the key for an owner's withdrawals index
func ownerWithdrawalsKey(owner, recordID string) []byte {
	return append(OwnerWithdrawalsKeyPrefix, []byte(owner+":"+recordID)...)
}

// SetWithdrawalRecord saves a withdrawal record to the store
func (k *Keeper) SetWithdrawalRecord(ctx sdk.Context, record *types.WithdrawalRecord) {
	store := k.GetStore(ctx)

	key := withdrawalRecordKey(record.RecordID)
	bz, _ := json.Marshal(record)
	store.Set(key, bz)

	// Index by owner
	ownerKey := ownerWithdrawalsKey(record.Owner, record.RecordID)
	store.Set(ownerKey, []byte(record.RecordID))
}

// GetWithdrawalRecord retrieves a withdrawal record from the store
func (k *Keeper) GetWithdrawalRecord(ctx sdk.Context, recordID string) *types.WithdrawalRecord {
	store := k.GetStore(ctx)
	bz := store.Get(withdrawalRecordKey(recordID))
	if bz == nil {
		return nil
	}
	var record types.WithdrawalRecord
	if err := json.Unmarshal(bz, &record); err != nil {
		return nil
	}
	return &record
}

// GetOwnerWithdrawals returns all withdrawal records for an owner
func (k *Keeper) GetOwnerWithdrawals(ctx sdk.Context, owner string) []*types.WithdrawalRecord {
	store := k.GetStore(ctx)
	prefix := append(OwnerWithdrawalsKeyPrefix, []byte(owner+":")...)
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	var records []*types.WithdrawalRecord
	for ; iterator.Valid(); iterator.Next() {
		recordID := string(iterator.Value())
		record := k.GetWithdrawalRecord(ctx, recordID)
		if record != nil {
			records = append(records, record)
		}
	}
	return records
}
