// Package metrics provides Prometheus metrics for the decision service:
// decision counts by verdict and risk grade, evaluation latency, replay
// conflicts, idempotency hits, and ledger health.
package metrics
