package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that behavior.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Unmarshal over a fully defaulted config so boolean defaults
	// survive: ApplyDefaults cannot tell an absent false from an
	// explicit one.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention AEGIS_SECTION_FIELD (e.g. AEGIS_SERVER_LISTEN_ADDRESS) and
// always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate the final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration using the AEGIS_SECTION_FIELD format.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("AEGIS_SERVICE_AGENT_DID"); val != "" {
		cfg.Service.AgentDID = val
	}
	if val := os.Getenv("AEGIS_SERVICE_VERIFY_SCHEDULE"); val != "" {
		cfg.Service.VerifySchedule = val
	}
	if val := os.Getenv("AEGIS_SERVICE_SWEEP_SCHEDULE"); val != "" {
		cfg.Service.SweepSchedule = val
	}

	if val := os.Getenv("AEGIS_POLICY_DIR"); val != "" {
		cfg.Policy.Dir = val
	}
	if val := os.Getenv("AEGIS_POLICY_DEFAULT_GRADE"); val != "" {
		cfg.Policy.DefaultGrade = val
	}

	if val := os.Getenv("AEGIS_LEDGER_BACKEND"); val != "" {
		cfg.Ledger.Backend = val
	}
	if val := os.Getenv("AEGIS_LEDGER_PATH"); val != "" {
		cfg.Ledger.Path = val
	}
	if val := os.Getenv("AEGIS_LEDGER_SECRET_NAME"); val != "" {
		cfg.Ledger.SecretName = val
	}

	if val := os.Getenv("AEGIS_IDEMPOTENCY_MAX_ENTRIES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Idempotency.MaxEntries = n
		}
	}
	if val := os.Getenv("AEGIS_IDEMPOTENCY_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Idempotency.TTL = d
		}
	}

	if val := os.Getenv("AEGIS_ESCALATION_DENY_HIGHEST_TIER"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Escalation.DenyHighestTier = b
		}
	}

	if val := os.Getenv("AEGIS_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("AEGIS_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("AEGIS_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}

	if val := os.Getenv("AEGIS_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("AEGIS_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("AEGIS_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
}
