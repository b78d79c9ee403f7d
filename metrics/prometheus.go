package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Basket fund metrics collector

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all basket fund metrics
type Collector struct {
	// Flow metrics
	ContributionsTotal *prometheus.CounterVec
	ContributionValue  *prometheus.CounterVec
	WithdrawalsTotal   *prometheus.CounterVec
	WithdrawalValue    *prometheus.CounterVec

	// Fee metrics
	PlatformFeesTotal   *prometheus.CounterVec
	PlatformFeeValue    *prometheus.CounterVec
	ManagementFeeMinted *prometheus.CounterVec
	ManagementFeeClaims *prometheus.CounterVec

	// Manager actions
	RebalancesTotal *prometheus.CounterVec

	// Guard metrics
	ReentrancyRejected *prometheus.CounterVec
	OperationLatency   *prometheus.HistogramVec

	// Fund state
	FundValue  *prometheus.GaugeVec
	FundSupply *prometheus.GaugeVec
	FundsTotal prometheus.Gauge

	// Block processing
	EndBlockLatency prometheus.Histogram
	FundsAccrued    prometheus.Counter
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

// newCollector creates a new metrics collector
func newCollector() *Collector {
	c := &Collector{}

	// Flow metrics
	c.ContributionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "basket",
			Subsystem: "flows",
			Name:      "contributions_total",
			Help:      "Total number of committed contributions",
		},
		[]string{"fund_id"},
	)

	c.ContributionValue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "basket",
			Subsystem: "flows",
			Name:      "contribution_value",
			Help:      "Gross base currency contributed",
		},
		[]string{"fund_id"},
	)

	c.WithdrawalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "basket",
			Subsystem: "flows",
			Name:      "withdrawals_total",
			Help:      "Total number of committed withdrawals",
		},
		[]string{"fund_id", "kind"},
	)

	c.WithdrawalValue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "basket",
			Subsystem: "flows",
			Name:      "withdrawal_lp",
			Help:      "Claim tokens redeemed by withdrawals",
		},
		[]string{"fund_id", "kind"},
	)

	// Fee metrics
	c.PlatformFeesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "basket",
			Subsystem: "fees",
			Name:      "platform_total",
			Help:      "Number of platform fee deductions",
		},
		[]string{"action"},
	)

	c.PlatformFeeValue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "basket",
			Subsystem: "fees",
			Name:      "platform_value",
			Help:      "Platform fees sent to the collector",
		},
		[]string{"action", "denom"},
	)

	c.ManagementFeeMinted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "basket",
			Subsystem: "fees",
			Name:      "management_minted",
			Help:      "Claim tokens minted as management fee",
		},
		[]string{"fund_id"},
	)

	c.ManagementFeeClaims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "basket",
			Subsystem: "fees",
			Name:      "management_claimed",
			Help:      "Base currency paid to managers from claimed fees",
		},
		[]string{"fund_id"},
	)

	// Manager actions
	c.RebalancesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "basket",
			Subsystem: "manager",
			Name:      "rebalances_total",
			Help:      "Total number of rebalances",
		},
		[]string{"fund_id", "kind"},
	)

	// Guard metrics
	c.ReentrancyRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "basket",
			Subsystem: "guard",
			Name:      "reentrancy_rejected_total",
			Help:      "Calls rejected because the fund was busy",
		},
		[]string{"operation"},
	)

	c.OperationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "basket",
			Subsystem: "guard",
			Name:      "operation_latency_ms",
			Help:      "Guarded operation latency in milliseconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"operation", "status"},
	)

	// Fund state
	c.FundValue = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "basket",
			Subsystem: "fund",
			Name:      "reserve_value",
			Help:      "Total reserve value in base currency",
		},
		[]string{"fund_id"},
	)

	c.FundSupply = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "basket",
			Subsystem: "fund",
			Name:      "claim_supply",
			Help:      "Outstanding claim token supply",
		},
		[]string{"fund_id"},
	)

	c.FundsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "basket",
			Subsystem: "fund",
			Name:      "count",
			Help:      "Number of funds",
		},
	)

	// Block processing
	c.EndBlockLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "basket",
			Subsystem: "block",
			Name:      "endblock_latency_ms",
			Help:      "EndBlocker latency in milliseconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500},
		},
	)

	c.FundsAccrued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "basket",
			Subsystem: "block",
			Name:      "funds_accrued_total",
			Help:      "Management fee accruals performed by the EndBlocker",
		},
	)

	c.registerAll()

	return c
}

// registerAll registers all metrics with Prometheus
func (c *Collector) registerAll() {
	// Flow metrics
	prometheus.MustRegister(c.ContributionsTotal)
	prometheus.MustRegister(c.ContributionValue)
	prometheus.MustRegister(c.WithdrawalsTotal)
	prometheus.MustRegister(c.WithdrawalValue)

	// Fee metrics
	prometheus.MustRegister(c.PlatformFeesTotal)
	prometheus.MustRegister(c.PlatformFeeValue)
	prometheus.MustRegister(c.ManagementFeeMinted)
	prometheus.MustRegister(c.ManagementFeeClaims)

	// Manager actions
	prometheus.MustRegister(c.RebalancesTotal)

	// Guard metrics
	prometheus.MustRegister(c.ReentrancyRejected)
	prometheus.MustRegister(c.OperationLatency)

	// Fund state
	prometheus.MustRegister(c.FundValue)
	prometheus.MustRegister(c.FundSupply)
	prometheus.MustRegister(c.FundsTotal)

	// Block processing
	prometheus.MustRegister(c.EndBlockLatency)
	prometheus.MustRegister(c.FundsAccrued)
}

// ============ Recording Helpers ============

// RecordContribution records a committed contribution
func (c *Collector) RecordContribution(fundID string, value float64) {
	c.ContributionsTotal.WithLabelValues(fundID).Inc()
	c.ContributionValue.WithLabelValues(fundID).Add(value)
}

// RecordWithdrawal records a committed withdrawal of lp claim tokens
func (c *Collector) RecordWithdrawal(fundID, kind string, lp float64) {
	c.WithdrawalsTotal.WithLabelValues(fundID, kind).Inc()
	c.WithdrawalValue.WithLabelValues(fundID, kind).Add(lp)
}

// RecordPlatformFee records a platform fee deduction
func (c *Collector) RecordPlatformFee(action, denom string, value float64) {
	c.PlatformFeesTotal.WithLabelValues(action).Inc()
	c.PlatformFeeValue.WithLabelValues(action, denom).Add(value)
}

// RecordManagementFee records claim tokens minted as management fee
func (c *Collector) RecordManagementFee(fundID string, minted float64) {
	if minted > 0 {
		c.ManagementFeeMinted.WithLabelValues(fundID).Add(minted)
	}
}

// RecordFeeClaim records base currency paid out to a manager
func (c *Collector) RecordFeeClaim(fundID string, value float64) {
	c.ManagementFeeClaims.WithLabelValues(fundID).Add(value)
}

// RecordRebalance records a rebalance or emergency transition
func (c *Collector) RecordRebalance(fundID, kind string) {
	c.RebalancesTotal.WithLabelValues(fundID, kind).Inc()
}

// RecordReentrancyRejected records a call rejected by the busy flag
func (c *Collector) RecordReentrancyRejected(operation string) {
	c.ReentrancyRejected.WithLabelValues(operation).Inc()
}

// RecordOperation records a guarded operation's outcome and latency
func (c *Collector) RecordOperation(operation string, success bool, latencyMs float64) {
	status := "ok"
	if !success {
		status = "failed"
	}
	c.OperationLatency.WithLabelValues(operation, status).Observe(latencyMs)
}

// RecordFundState records a fund's reserve value and claim supply
func (c *Collector) RecordFundState(fundID string, value, supply float64) {
	c.FundValue.WithLabelValues(fundID).Set(value)
	c.FundSupply.WithLabelValues(fundID).Set(supply)
}

// RecordEndBlock records EndBlocker latency and the number of funds accrued
func (c *Collector) RecordEndBlock(latencyMs float64, fundCount, accrued int) {
	c.EndBlockLatency.Observe(latencyMs)
	c.FundsTotal.Set(float64(fundCount))
	c.FundsAccrued.Add(float64(accrued))
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
