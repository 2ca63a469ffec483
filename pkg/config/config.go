package config

import "time"

// Config is the root configuration structure for Aegis.
// It contains all configuration sections for the decision service, policy
// engine, risk router, ledger, idempotency retention, telemetry, and the
// HTTP decision surface.
type Config struct {
	// Service contains decision service configuration including the agent
	// identity recorded in ledger entries and background maintenance
	// schedules.
	Service ServiceConfig `yaml:"service"`

	// Policy contains configuration for the policy engine including the
	// policy definition directory and the default risk grade applied when
	// no rule matches.
	Policy PolicyConfig `yaml:"policy"`

	// Router contains configuration for the risk evaluation router
	// including tier thresholds and novelty heuristics.
	Router RouterConfig `yaml:"router"`

	// Ledger contains configuration for the tamper-evident ledger
	// including the storage backend and the chain secret name.
	Ledger LedgerConfig `yaml:"ledger"`

	// Idempotency contains retention settings for the orchestrator's
	// idempotency table.
	Idempotency IdempotencyConfig `yaml:"idempotency"`

	// Escalation contains the fail-closed escalation boundary settings.
	Escalation EscalationConfig `yaml:"escalation"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Server contains configuration for the HTTP decision surface.
	Server ServerConfig `yaml:"server"`
}

// ServiceConfig contains configuration for the decision service.
type ServiceConfig struct {
	// AgentDID is the decentralized identifier recorded as the appending
	// agent on every ledger entry.
	// Default: "did:aegis:governor"
	AgentDID string `yaml:"agent_did"`

	// VerifySchedule is a cron expression controlling scheduled background
	// chain verification. Empty disables scheduled verification.
	// Default: "@every 5m"
	VerifySchedule string `yaml:"verify_schedule"`

	// SweepSchedule is a cron expression controlling idempotency table
	// sweeps. Empty disables sweeping.
	// Default: "@every 1m"
	SweepSchedule string `yaml:"sweep_schedule"`
}

// PolicyConfig contains configuration for the policy engine.
type PolicyConfig struct {
	// Dir is the directory containing policy definition files (*.yaml).
	// Default: "policies"
	Dir string `yaml:"dir"`

	// DefaultGrade is the risk grade assigned when no path or keyword rule
	// matches. The conservative default is L2.
	// Default: "L2"
	DefaultGrade string `yaml:"default_grade"`
}

// RouterConfig contains configuration for the risk evaluation router.
type RouterConfig struct {
	// SensitivePatterns are path patterns that force tier 3 routing
	// regardless of event category.
	// Default: ["**/auth/**", "**/credential*", "**/secret*"]
	SensitivePatterns []string `yaml:"sensitive_patterns"`

	// NoveltySmallBytes is the content size at or below which an L1 event
	// with no historical signal defaults to low novelty.
	// Default: 4096
	NoveltySmallBytes int `yaml:"novelty_small_bytes"`

	// NoveltyMediumBytes is the content size at or below which an event
	// with no historical signal defaults to medium novelty.
	// Default: 65536
	NoveltyMediumBytes int `yaml:"novelty_medium_bytes"`

	// BusBuffer is the buffer size of the routing event bus. Zero disables
	// the bus.
	// Default: 256
	BusBuffer int `yaml:"bus_buffer"`
}

// LedgerConfig contains configuration for the tamper-evident ledger.
type LedgerConfig struct {
	// Backend selects the chain store backend: "sqlite" or "memory".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path for the sqlite backend.
	// Default: "data/ledger.db"
	Path string `yaml:"path"`

	// SecretName is the name of the chain secret resolved through the
	// secret provider. The secret itself is never part of configuration.
	// Default: "ledger-chain-secret"
	SecretName string `yaml:"secret_name"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// IdempotencyConfig contains retention settings for the idempotency table.
type IdempotencyConfig struct {
	// MaxEntries is the maximum number of retained idempotency records.
	// When the table is full the oldest record is evicted; a replayed
	// request whose record was evicted is treated as new.
	// Default: 100000
	MaxEntries int `yaml:"max_entries"`

	// TTL is how long an idempotency record is retained. Zero or negative
	// disables TTL-based expiry.
	// Default: 24h
	TTL time.Duration `yaml:"ttl"`
}

// EscalationConfig contains the fail-closed escalation boundary.
type EscalationConfig struct {
	// DenyHighestTier resolves mutating actions at the highest risk grade
	// and tier to DENY instead of ESCALATE.
	// Default: true
	DenyHighestTier bool `yaml:"deny_highest_tier"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection and the /metrics endpoint.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the Prometheus metric namespace.
	// Default: "aegis"
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metric subsystem.
	// Default: "governor"
	Subsystem string `yaml:"subsystem"`

	// EvalDurationBuckets are histogram buckets for evaluate latency in
	// seconds. Evaluation is local computation plus local I/O, so buckets
	// are sub-second.
	EvalDurationBuckets []float64 `yaml:"eval_duration_buckets"`
}

// ServerConfig contains configuration for the HTTP decision surface.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8710"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response
	// writes.
	// Default: 15s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}
