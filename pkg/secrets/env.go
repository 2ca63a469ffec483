package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvProvider loads secrets from environment variables.
//
// Secret names are converted to uppercase environment variable names with
// hyphens replaced by underscores. An optional prefix can be configured to
// namespace secrets.
//
// Example:
//   - Secret name: "ledger-chain-secret"
//   - Env var name: "AEGIS_SECRET_LEDGER_CHAIN_SECRET" (with prefix "AEGIS_SECRET_")
type EnvProvider struct {
	Prefix string // Optional prefix for environment variables
}

// NewEnvProvider creates a new environment variable secret provider.
func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{
		Prefix: prefix,
	}
}

// GetSecret retrieves a secret from an environment variable.
//
// The secret name is converted to an environment variable name by:
//  1. Converting to uppercase
//  2. Replacing hyphens with underscores
//  3. Prepending the configured prefix
func (p *EnvProvider) GetSecret(ctx context.Context, name string) (string, error) {
	envVar := p.secretNameToEnvVar(name)

	value := os.Getenv(envVar)
	if value == "" {
		return "", fmt.Errorf("secret not found in environment: %s (env var: %s)", name, envVar)
	}

	return value, nil
}

// ListSecrets returns all secret names from environment variables with the
// configured prefix. Names are converted back to secret format (lowercase
// with hyphens).
func (p *EnvProvider) ListSecrets(ctx context.Context) ([]string, error) {
	var names []string

	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, p.Prefix) {
			continue
		}

		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		names = append(names, p.envVarToSecretName(parts[0]))
	}

	return names, nil
}

// Provider returns the provider name.
func (p *EnvProvider) Provider() string {
	return "env"
}

// Supports indicates whether the named secret is present in the environment.
func (p *EnvProvider) Supports(name string) bool {
	return os.Getenv(p.secretNameToEnvVar(name)) != ""
}

func (p *EnvProvider) secretNameToEnvVar(name string) string {
	envName := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	return p.Prefix + envName
}

func (p *EnvProvider) envVarToSecretName(envVar string) string {
	name := strings.TrimPrefix(envVar, p.Prefix)
	return strings.ToLower(strings.ReplaceAll(name, "_", "-"))
}
