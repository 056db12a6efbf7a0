package types

import (
	"time"

	"cosmossdk.io/math"
)

// Module name and store key
const (
	ModuleName = "stakingpool"
	StoreKey   = ModuleName

	// StakeDenom is the native staking denom (1 SUI = 1e9 mist)
	StakeDenom = "mist"
)

// MinStakingThreshold is the smallest principal a staked position may hold
// after a split (1 SUI).
var MinStakingThreshold = math.NewInt(1_000_000_000)

// ExchangeRate is a snapshot of the pool's SUI-to-pool-token ratio at one
// epoch. A zero rate on either side is the bootstrap rate, where 1 mist of
// SUI converts to exactly 1 pool token.
type ExchangeRate struct {
	SuiAmount       math.Int `json:"sui_amount"`
	PoolTokenAmount math.Int `json:"pool_token_amount"`
}

// InitialExchangeRate returns the bootstrap 1:1 rate.
func InitialExchangeRate() ExchangeRate {
	return ExchangeRate{
		SuiAmount:       math.ZeroInt(),
		PoolTokenAmount: math.ZeroInt(),
	}
}

// IsBootstrap reports whether the rate is the bootstrap 1:1 rate.
func (r ExchangeRate) IsBootstrap() bool {
	return r.SuiAmount.IsZero() || r.PoolTokenAmount.IsZero()
}

// GetSuiAmount converts a pool-token amount to SUI at this rate.
// The division floors, so conversion dust stays inside the pool.
func (r ExchangeRate) GetSuiAmount(tokenAmount math.Int) math.Int {
	if r.IsBootstrap() {
		return tokenAmount
	}
	return r.SuiAmount.Mul(tokenAmount).Quo(r.PoolTokenAmount)
}

// GetTokenAmount converts a SUI amount to pool tokens at this rate.
// The division floors, so conversion dust stays inside the pool.
func (r ExchangeRate) GetTokenAmount(suiAmount math.Int) math.Int {
	if r.IsBootstrap() {
		return suiAmount
	}
	return r.PoolTokenAmount.Mul(suiAmount).Quo(r.SuiAmount)
}

// Pool is the ledger of one staking pool: authoritative balances as of the
// start of the current epoch, plus the pending accumulators that are drained
// at the next epoch boundary.
type Pool struct {
	PoolID string `json:"pool_id"`

	// Lifecycle: nil activation epoch means preactive, a set deactivation
	// epoch means inactive. Each is set at most once. A pool flagged for
	// deactivation is processed one last time at the next epoch boundary
	// before going inactive.
	ActivationEpoch     *uint64 `json:"activation_epoch,omitempty"`
	DeactivationEpoch   *uint64 `json:"deactivation_epoch,omitempty"`
	PendingDeactivation bool    `json:"pending_deactivation,omitempty"`

	// SuiBalance is principal plus undistributed rewards; RewardsPoolBalance
	// is the sub-balance of SuiBalance earmarked for reward withdrawals.
	SuiBalance         math.Int `json:"sui_balance"`
	RewardsPoolBalance math.Int `json:"rewards_pool_balance"`
	PoolTokenBalance   math.Int `json:"pool_token_balance"`

	// Epoch-scoped accumulators, reset to zero after each batch processing.
	PendingStake             math.Int `json:"pending_stake"`
	PendingTotalSuiWithdraw  math.Int `json:"pending_total_sui_withdraw"`
	PendingPoolTokenWithdraw math.Int `json:"pending_pool_token_withdraw"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewPool creates a preactive pool with zero balances.
func NewPool(poolID string) *Pool {
	now := time.Now().Unix()
	return &Pool{
		PoolID:                   poolID,
		SuiBalance:               math.ZeroInt(),
		RewardsPoolBalance:       math.ZeroInt(),
		PoolTokenBalance:         math.ZeroInt(),
		PendingStake:             math.ZeroInt(),
		PendingTotalSuiWithdraw:  math.ZeroInt(),
		PendingPoolTokenWithdraw: math.ZeroInt(),
		CreatedAt:                now,
		UpdatedAt:                now,
	}
}

// IsPreactive reports whether the pool has not been activated yet.
func (p *Pool) IsPreactive() bool {
	return p.ActivationEpoch == nil
}

// IsInactive reports whether the pool has been deactivated.
func (p *Pool) IsInactive() bool {
	return p.DeactivationEpoch != nil
}

// Activate transitions a preactive pool to active at the given epoch.
func (p *Pool) Activate(epoch uint64) error {
	if p.IsInactive() {
		return ErrPoolAlreadyInactive
	}
	if !p.IsPreactive() {
		return ErrPoolAlreadyActive
	}
	e := epoch
	p.ActivationEpoch = &e
	p.UpdatedAt = time.Now().Unix()
	return nil
}

// Deactivate transitions an active pool to inactive at the given epoch.
// This is one-way and terminal.
func (p *Pool) Deactivate(epoch uint64) error {
	if p.IsInactive() {
		return ErrPoolAlreadyInactive
	}
	e := epoch
	p.DeactivationEpoch = &e
	p.UpdatedAt = time.Now().Unix()
	return nil
}

// StakedSui is a staker-owned claim on a pool: the principal deposited plus
// the epoch at which it starts earning rewards. It is consumed (deleted) by
// withdrawal, split and join; ownership is checked at every entry point.
type StakedSui struct {
	PositionID           string   `json:"position_id"`
	PoolID               string   `json:"pool_id"`
	Owner                string   `json:"owner"`
	StakeActivationEpoch uint64   `json:"stake_activation_epoch"`
	Principal            math.Int `json:"principal"`
	CreatedAt            int64    `json:"created_at"`
}

// NewStakedSui creates a staked position record.
func NewStakedSui(positionID, poolID, owner string, activationEpoch uint64, principal math.Int) *StakedSui {
	return &StakedSui{
		PositionID:           positionID,
		PoolID:               poolID,
		Owner:                owner,
		StakeActivationEpoch: activationEpoch,
		Principal:            principal,
		CreatedAt:            time.Now().Unix(),
	}
}

// IsEqualStakingMetadata reports whether two positions can be joined: same
// pool and same stake activation epoch.
func (s *StakedSui) IsEqualStakingMetadata(other *StakedSui) bool {
	return s.PoolID == other.PoolID && s.StakeActivationEpoch == other.StakeActivationEpoch
}

// WithdrawalRecord is the historical record of a completed withdrawal, kept
// for query history only; it carries no accounting weight.
type WithdrawalRecord struct {
	RecordID        string   `json:"record_id"`
	PoolID          string   `json:"pool_id"`
	Owner           string   `json:"owner"`
	PositionID      string   `json:"position_id"`
	PrincipalAmount math.Int `json:"principal_amount"`
	RewardAmount    math.Int `json:"reward_amount"`
	PoolTokenAmount math.Int `json:"pool_token_amount"`
	Epoch           uint64   `json:"epoch"`
	Timestamp       int64    `json:"timestamp"`
}
