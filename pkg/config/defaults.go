package config

import "time"

// ApplyDefaults fills in default values for any unset configuration fields.
// It is called automatically by LoadConfig but can be used directly on a
// hand-built Config.
func ApplyDefaults(cfg *Config) {
	if cfg.Service.AgentDID == "" {
		cfg.Service.AgentDID = "did:aegis:governor"
	}
	if cfg.Service.VerifySchedule == "" {
		cfg.Service.VerifySchedule = "@every 5m"
	}
	if cfg.Service.SweepSchedule == "" {
		cfg.Service.SweepSchedule = "@every 1m"
	}

	if cfg.Policy.Dir == "" {
		cfg.Policy.Dir = "policies"
	}
	if cfg.Policy.DefaultGrade == "" {
		cfg.Policy.DefaultGrade = "L2"
	}

	if len(cfg.Router.SensitivePatterns) == 0 {
		cfg.Router.SensitivePatterns = []string{
			"**/auth/**",
			"**/credential*",
			"**/secret*",
		}
	}
	if cfg.Router.NoveltySmallBytes == 0 {
		cfg.Router.NoveltySmallBytes = 4096
	}
	if cfg.Router.NoveltyMediumBytes == 0 {
		cfg.Router.NoveltyMediumBytes = 65536
	}
	if cfg.Router.BusBuffer == 0 {
		cfg.Router.BusBuffer = 256
	}

	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = "sqlite"
	}
	if cfg.Ledger.Path == "" {
		cfg.Ledger.Path = "data/ledger.db"
	}
	if cfg.Ledger.SecretName == "" {
		cfg.Ledger.SecretName = "ledger-chain-secret"
	}
	if cfg.Ledger.BusyTimeout == 0 {
		cfg.Ledger.BusyTimeout = 5 * time.Second
	}

	if cfg.Idempotency.MaxEntries == 0 {
		cfg.Idempotency.MaxEntries = 100000
	}
	if cfg.Idempotency.TTL == 0 {
		cfg.Idempotency.TTL = 24 * time.Hour
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "json"
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = "aegis"
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = "governor"
	}
	if len(cfg.Telemetry.Metrics.EvalDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.EvalDurationBuckets = []float64{
			0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0,
		}
	}

	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = "127.0.0.1:8710"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
}

// DefaultConfig returns a Config populated entirely with defaults.
// Boolean fields cannot distinguish "unset" from "false" in
// ApplyDefaults, so their defaults live here.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Telemetry.Metrics.Enabled = true
	cfg.Escalation.DenyHighestTier = true
	ApplyDefaults(cfg)
	return cfg
}
