package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aegis-hq/aegis/pkg/config"
)

// Collector registers and records all decision service metrics.
// A nil *Collector is valid and records nothing, so callers never need to
// branch on whether metrics are enabled.
type Collector struct {
	registry *prometheus.Registry

	decisionsTotal      *prometheus.CounterVec
	evalDuration        prometheus.Histogram
	replayConflicts     prometheus.Counter
	idempotencyHits     prometheus.Counter
	ledgerEntries       prometheus.Counter
	verifyRuns          prometheus.Counter
	verifyFailures      prometheus.Counter
	idempotencySwept    prometheus.Counter
	idempotencyRetained prometheus.Gauge
}

// NewCollector creates a collector and registers its metrics. If registry
// is nil a fresh registry is used. Returns nil when metrics are disabled.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if !cfg.Enabled {
		return nil
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decisions_total",
				Help:      "Total decisions rendered, by verdict and risk grade",
			},
			[]string{"decision", "risk_grade"},
		),

		evalDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluate_duration_seconds",
				Help:      "Duration of decision evaluation in seconds",
				Buckets:   cfg.EvalDurationBuckets,
			},
		),

		replayConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "replay_conflicts_total",
			Help:      "Requests rejected for reusing a request ID with a different payload",
		}),

		idempotencyHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "idempotency_hits_total",
			Help:      "Requests answered from the idempotency table",
		}),

		ledgerEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "ledger_entries_total",
			Help:      "Ledger entries appended",
		}),

		verifyRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "ledger_verify_runs_total",
			Help:      "Ledger chain verification runs",
		}),

		verifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "ledger_verify_failures_total",
			Help:      "Ledger chain verification failures",
		}),

		idempotencySwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "idempotency_swept_total",
			Help:      "Idempotency records removed by TTL sweeps",
		}),

		idempotencyRetained: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "idempotency_retained",
			Help:      "Idempotency records currently retained",
		}),
	}

	registry.MustRegister(
		c.decisionsTotal,
		c.evalDuration,
		c.replayConflicts,
		c.idempotencyHits,
		c.ledgerEntries,
		c.verifyRuns,
		c.verifyFailures,
		c.idempotencySwept,
		c.idempotencyRetained,
	)

	return c
}

// RecordDecision counts a rendered decision and its evaluation latency.
func (c *Collector) RecordDecision(decision, riskGrade string, duration time.Duration) {
	if c == nil {
		return
	}
	c.decisionsTotal.WithLabelValues(decision, riskGrade).Inc()
	c.evalDuration.Observe(duration.Seconds())
}

// RecordReplayConflict counts a rejected request ID reuse.
func (c *Collector) RecordReplayConflict() {
	if c == nil {
		return
	}
	c.replayConflicts.Inc()
}

// RecordIdempotencyHit counts a request answered from the table.
func (c *Collector) RecordIdempotencyHit() {
	if c == nil {
		return
	}
	c.idempotencyHits.Inc()
}

// RecordLedgerAppend counts an appended ledger entry.
func (c *Collector) RecordLedgerAppend() {
	if c == nil {
		return
	}
	c.ledgerEntries.Inc()
}

// RecordVerify counts a chain verification run and its outcome.
func (c *Collector) RecordVerify(ok bool) {
	if c == nil {
		return
	}
	c.verifyRuns.Inc()
	if !ok {
		c.verifyFailures.Inc()
	}
}

// RecordSweep records an idempotency sweep outcome.
func (c *Collector) RecordSweep(removed, retained int) {
	if c == nil {
		return
	}
	c.idempotencySwept.Add(float64(removed))
	c.idempotencyRetained.Set(float64(retained))
}

// Handler returns an HTTP handler exposing the registry in Prometheus
// text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
