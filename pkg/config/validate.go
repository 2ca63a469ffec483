package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/robfig/cron/v3"
)

// validGrades are the accepted risk grade labels.
var validGrades = map[string]bool{"L1": true, "L2": true, "L3": true}

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first problem found.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if cfg.Service.AgentDID == "" {
		return fmt.Errorf("service.agent_did cannot be empty")
	}
	if err := validateCron("service.verify_schedule", cfg.Service.VerifySchedule); err != nil {
		return err
	}
	if err := validateCron("service.sweep_schedule", cfg.Service.SweepSchedule); err != nil {
		return err
	}

	if cfg.Policy.Dir == "" {
		return fmt.Errorf("policy.dir cannot be empty")
	}
	if !validGrades[cfg.Policy.DefaultGrade] {
		return fmt.Errorf("policy.default_grade must be one of L1, L2, L3, got %q", cfg.Policy.DefaultGrade)
	}

	for _, p := range cfg.Router.SensitivePatterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("router.sensitive_patterns: invalid pattern %q", p)
		}
	}
	if cfg.Router.NoveltySmallBytes < 0 || cfg.Router.NoveltyMediumBytes < 0 {
		return fmt.Errorf("router novelty thresholds cannot be negative")
	}
	if cfg.Router.NoveltySmallBytes > cfg.Router.NoveltyMediumBytes {
		return fmt.Errorf("router.novelty_small_bytes (%d) cannot exceed router.novelty_medium_bytes (%d)",
			cfg.Router.NoveltySmallBytes, cfg.Router.NoveltyMediumBytes)
	}

	switch cfg.Ledger.Backend {
	case "sqlite":
		if cfg.Ledger.Path == "" {
			return fmt.Errorf("ledger.path cannot be empty for the sqlite backend")
		}
	case "memory":
	default:
		return fmt.Errorf("ledger.backend must be \"sqlite\" or \"memory\", got %q", cfg.Ledger.Backend)
	}
	if cfg.Ledger.SecretName == "" {
		return fmt.Errorf("ledger.secret_name cannot be empty")
	}

	if cfg.Idempotency.MaxEntries < 1 {
		return fmt.Errorf("idempotency.max_entries must be positive, got %d", cfg.Idempotency.MaxEntries)
	}

	switch strings.ToLower(cfg.Telemetry.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level must be one of debug, info, warn, error, got %q",
			cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format must be \"json\" or \"text\", got %q",
			cfg.Telemetry.Logging.Format)
	}

	if _, _, err := net.SplitHostPort(cfg.Server.ListenAddress); err != nil {
		return fmt.Errorf("server.listen_address %q is not a valid host:port: %w", cfg.Server.ListenAddress, err)
	}

	return nil
}

// validateCron checks a cron expression, allowing the empty string
// (schedules are optional).
func validateCron(field, spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("%s: invalid cron expression %q: %w", field, spec, err)
	}
	return nil
}
