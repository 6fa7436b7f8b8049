package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ChainMetrics records audit chain activity: appends, verification runs
// and detected breaks.
type ChainMetrics struct {
	appends        *prometheus.CounterVec
	verifyRuns     *prometheus.CounterVec
	verifyDuration prometheus.Histogram
	brokenChains   prometheus.Counter
}

// NewChainMetrics registers the audit chain metrics on the provided registerer.
func NewChainMetrics(reg prometheus.Registerer) *ChainMetrics {
	if reg == nil {
		return &ChainMetrics{}
	}
	appends := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_chain_appends_total",
		Help: "Audit chain entries appended, by category.",
	}, []string{"category"})
	verifyRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_chain_verify_runs_total",
		Help: "Chain verification runs, by result.",
	}, []string{"result"})
	verifyDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "audit_chain_verify_duration_seconds",
		Help:    "Duration of chain verification scans in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	brokenChains := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audit_chain_breaks_detected_total",
		Help: "Verification runs that found a broken chain.",
	})
	reg.MustRegister(appends, verifyRuns, verifyDuration, brokenChains)
	return &ChainMetrics{
		appends:        appends,
		verifyRuns:     verifyRuns,
		verifyDuration: verifyDuration,
		brokenChains:   brokenChains,
	}
}

// IncAppend increments the append counter for the given category.
func (c *ChainMetrics) IncAppend(category string) {
	if c == nil || c.appends == nil {
		return
	}
	c.appends.WithLabelValues(normalizeLabel(category)).Inc()
}

// ObserveVerify records one verification run and its outcome.
func (c *ChainMetrics) ObserveVerify(valid bool, duration time.Duration) {
	if c == nil || c.verifyRuns == nil {
		return
	}
	result := "valid"
	if !valid {
		result = "broken"
		c.brokenChains.Inc()
	}
	c.verifyRuns.WithLabelValues(result).Inc()
	c.verifyDuration.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
