package metrics

import (
	"math/big"
	"net/http"
	"sync"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Poolstake Metrics Collector
// Provides metrics for monitoring pool accounting and epoch processing

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all poolstake metrics
type Collector struct {
	// Stake flow metrics
	StakesTotal      *prometheus.CounterVec
	WithdrawalsTotal *prometheus.CounterVec
	StakeVolume      *prometheus.CounterVec
	WithdrawalVolume *prometheus.CounterVec
	RewardsPaid      *prometheus.CounterVec

	// Pool balance metrics
	PoolSuiBalance     *prometheus.GaugeVec
	PoolRewardsBalance *prometheus.GaugeVec
	PoolTokenBalance   *prometheus.GaugeVec
	PoolsActive        prometheus.Gauge

	// Epoch metrics
	CurrentEpoch    prometheus.Gauge
	EpochsTotal     prometheus.Counter
	EpochDurationMs prometheus.Histogram

	// Subsidy metrics
	SubsidyDistributed prometheus.Counter
	SubsidyDust        prometheus.Counter
	SubsidyFundBalance prometheus.Gauge

	// System metrics
	BlockHeight prometheus.Gauge
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

// GetMetrics is an alias for GetCollector
func GetMetrics() *Collector {
	return GetCollector()
}

// newCollector creates a new metrics collector
func newCollector() *Collector {
	c := &Collector{}

	// Stake flow metrics
	c.StakesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poolstake",
			Subsystem: "stakes",
			Name:      "total",
			Help:      "Total number of stake requests",
		},
		[]string{"pool_id"},
	)

	c.WithdrawalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poolstake",
			Subsystem: "withdrawals",
			Name:      "total",
			Help:      "Total number of stake withdrawals",
		},
		[]string{"pool_id"},
	)

	c.StakeVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poolstake",
			Subsystem: "stakes",
			Name:      "volume_mist",
			Help:      "Total staked volume in mist",
		},
		[]string{"pool_id"},
	)

	c.WithdrawalVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poolstake",
			Subsystem: "withdrawals",
			Name:      "volume_mist",
			Help:      "Total withdrawn volume in mist",
		},
		[]string{"pool_id"},
	)

	c.RewardsPaid = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poolstake",
			Subsystem: "withdrawals",
			Name:      "rewards_mist",
			Help:      "Total rewards paid out in mist",
		},
		[]string{"pool_id"},
	)

	// Pool balance metrics
	c.PoolSuiBalance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "poolstake",
			Subsystem: "pool",
			Name:      "sui_balance_mist",
			Help:      "Pool sui balance (principal + undistributed rewards) in mist",
		},
		[]string{"pool_id"},
	)

	c.PoolRewardsBalance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "poolstake",
			Subsystem: "pool",
			Name:      "rewards_balance_mist",
			Help:      "Pool rewards sub-balance in mist",
		},
		[]string{"pool_id"},
	)

	c.PoolTokenBalance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "poolstake",
			Subsystem: "pool",
			Name:      "token_balance",
			Help:      "Pool tokens outstanding",
		},
		[]string{"pool_id"},
	)

	c.PoolsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "poolstake",
			Subsystem: "pool",
			Name:      "active",
			Help:      "Number of active pools",
		},
	)

	// Epoch metrics
	c.CurrentEpoch = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "poolstake",
			Subsystem: "epoch",
			Name:      "current",
			Help:      "Current epoch number",
		},
	)

	c.EpochsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "poolstake",
			Subsystem: "epoch",
			Name:      "total",
			Help:      "Total number of epoch transitions processed",
		},
	)

	c.EpochDurationMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "poolstake",
			Subsystem: "epoch",
			Name:      "duration_ms",
			Help:      "Epoch transition processing time in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// Subsidy metrics
	c.SubsidyDistributed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "poolstake",
			Subsystem: "subsidy",
			Name:      "distributed_mist",
			Help:      "Total subsidy distributed to pools in mist",
		},
	)

	c.SubsidyDust = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "poolstake",
			Subsystem: "subsidy",
			Name:      "dust_returned_mist",
			Help:      "Total distribution dust returned to the subsidy fund in mist",
		},
	)

	c.SubsidyFundBalance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "poolstake",
			Subsystem: "subsidy",
			Name:      "fund_balance_mist",
			Help:      "Remaining subsidy fund balance in mist",
		},
	)

	// System metrics
	c.BlockHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "poolstake",
			Subsystem: "system",
			Name:      "block_height",
			Help:      "Current block height",
		},
	)

	c.registerAll()

	return c
}

// registerAll registers all metrics with Prometheus
func (c *Collector) registerAll() {
	// Stake flow metrics
	prometheus.MustRegister(c.StakesTotal)
	prometheus.MustRegister(c.WithdrawalsTotal)
	prometheus.MustRegister(c.StakeVolume)
	prometheus.MustRegister(c.WithdrawalVolume)
	prometheus.MustRegister(c.RewardsPaid)

	// Pool balance metrics
	prometheus.MustRegister(c.PoolSuiBalance)
	prometheus.MustRegister(c.PoolRewardsBalance)
	prometheus.MustRegister(c.PoolTokenBalance)
	prometheus.MustRegister(c.PoolsActive)

	// Epoch metrics
	prometheus.MustRegister(c.CurrentEpoch)
	prometheus.MustRegister(c.EpochsTotal)
	prometheus.MustRegister(c.EpochDurationMs)

	// Subsidy metrics
	prometheus.MustRegister(c.SubsidyDistributed)
	prometheus.MustRegister(c.SubsidyDust)
	prometheus.MustRegister(c.SubsidyFundBalance)

	// System metrics
	prometheus.MustRegister(c.BlockHeight)
}

// intToFloat converts an arbitrary-precision Int to a float64 for gauges.
// Precision loss is acceptable for monitoring.
func intToFloat(v sdkmath.Int) float64 {
	f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
	return f
}

// ============ Recording Helpers ============

// RecordStake records a stake request
func (c *Collector) RecordStake(poolID string, amount sdkmath.Int) {
	c.StakesTotal.WithLabelValues(poolID).Inc()
	c.StakeVolume.WithLabelValues(poolID).Add(intToFloat(amount))
}

// RecordWithdrawal records a stake withdrawal
func (c *Collector) RecordWithdrawal(poolID string, principal, reward sdkmath.Int) {
	c.WithdrawalsTotal.WithLabelValues(poolID).Inc()
	c.WithdrawalVolume.WithLabelValues(poolID).Add(intToFloat(principal.Add(reward)))
	if reward.IsPositive() {
		c.RewardsPaid.WithLabelValues(poolID).Add(intToFloat(reward))
	}
}

// RecordPoolBalances updates a pool's balance gauges
func (c *Collector) RecordPoolBalances(poolID string, suiBalance, rewardsBalance, tokenBalance sdkmath.Int) {
	c.PoolSuiBalance.WithLabelValues(poolID).Set(intToFloat(suiBalance))
	c.PoolRewardsBalance.WithLabelValues(poolID).Set(intToFloat(rewardsBalance))
	c.PoolTokenBalance.WithLabelValues(poolID).Set(intToFloat(tokenBalance))
}

// RecordEpochAdvance records one epoch transition
func (c *Collector) RecordEpochAdvance(epoch uint64, duration time.Duration) {
	c.CurrentEpoch.Set(float64(epoch))
	c.EpochsTotal.Inc()
	c.EpochDurationMs.Observe(float64(duration.Microseconds()) / 1000.0)
}

// RecordSubsidyDistribution records one subsidy payout and its dust
func (c *Collector) RecordSubsidyDistribution(amount, dust sdkmath.Int) {
	c.SubsidyDistributed.Add(intToFloat(amount))
	if dust.IsPositive() {
		c.SubsidyDust.Add(intToFloat(dust))
	}
}

// RecordSubsidyFund updates the remaining fund gauge
func (c *Collector) RecordSubsidyFund(balance sdkmath.Int) {
	c.SubsidyFundBalance.Set(intToFloat(balance))
}

// UpdateSystemMetrics updates system-level metrics
func (c *Collector) UpdateSystemMetrics(blockHeight int64, activePools int) {
	c.BlockHeight.Set(float64(blockHeight))
	c.PoolsActive.Set(float64(activePools))
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
