package types

import (
	"cosmossdk.io/math"
)

// Module name and store key
const (
	ModuleName = "subsidy"
	StoreKey   = ModuleName

	// DefaultPeriodLength is the number of distributions between decay steps
	DefaultPeriodLength = uint64(10)

	// DefaultDecreaseRateBp is the per-period decay in basis points (10%)
	DefaultDecreaseRateBp = uint16(1000)
)

// Default genesis schedule: a 1B SUI fund paying out 1M SUI per epoch,
// denominated in mist (1 SUI = 1e9 mist).
var (
	DefaultFundBalance        = math.NewInt(1_000_000_000).MulRaw(1_000_000_000)
	DefaultDistributionAmount = math.NewInt(1_000_000).MulRaw(1_000_000_000)
)

// Emitter is the singleton stake subsidy schedule: a fixed fund drained by a
// per-epoch distribution amount that decays geometrically every period.
type Emitter struct {
	FundBalance               math.Int `json:"fund_balance"`
	DistributionCounter       uint64   `json:"distribution_counter"`
	CurrentDistributionAmount math.Int `json:"current_distribution_amount"`
	PeriodLength              uint64   `json:"period_length"`
	DecreaseRateBp            uint16   `json:"decrease_rate_bp"`
}

// NewEmitter validates the schedule parameters and returns a fresh emitter.
func NewEmitter(fundBalance, initialDistributionAmount math.Int, periodLength uint64, decreaseRateBp uint16) (*Emitter, error) {
	if decreaseRateBp > 10000 {
		return nil, ErrInvalidDecreaseRate
	}
	if periodLength == 0 {
		return nil, ErrInvalidPeriodLength
	}
	if fundBalance.IsNegative() || initialDistributionAmount.IsNegative() {
		return nil, ErrInvalidFundBalance
	}
	return &Emitter{
		FundBalance:               fundBalance,
		DistributionCounter:       0,
		CurrentDistributionAmount: initialDistributionAmount,
		PeriodLength:              periodLength,
		DecreaseRateBp:            decreaseRateBp,
	}, nil
}

// Advance withdraws one epoch's subsidy from the fund and steps the decay
// schedule. The withdrawal is capped by what the fund still holds; the
// distribution amount decreases by floor(current * rate_bp / 10000) once
// every period_length distributions.
func (e *Emitter) Advance() math.Int {
	withdraw := e.CurrentDistributionAmount
	if withdraw.GT(e.FundBalance) {
		withdraw = e.FundBalance
	}
	e.FundBalance = e.FundBalance.Sub(withdraw)
	e.DistributionCounter++

	if e.DistributionCounter%e.PeriodLength == 0 {
		decrease := e.CurrentDistributionAmount.MulRaw(int64(e.DecreaseRateBp)).QuoRaw(10000)
		e.CurrentDistributionAmount = e.CurrentDistributionAmount.Sub(decrease)
	}

	return withdraw
}
