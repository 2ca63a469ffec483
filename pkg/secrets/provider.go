// Package secrets provides a pluggable framework for loading secrets from
// multiple sources.
package secrets

import "context"

// Provider retrieves secrets from a backend.
//
// Implementations include environment variables, files, and a static
// in-memory provider for tests. The ledger resolves its hash-chain secret
// through this interface so that the secret is never compiled into the
// binary and test doubles are straightforward.
type Provider interface {
	// GetSecret retrieves a secret by name.
	// Returns an error if the secret is not found or cannot be retrieved.
	GetSecret(ctx context.Context, name string) (string, error)

	// ListSecrets returns all secret names available from this provider.
	// Values are not included for security reasons.
	ListSecrets(ctx context.Context) ([]string, error)

	// Provider returns the provider name (env, file, static).
	Provider() string

	// Supports indicates if this provider supports the given secret name.
	Supports(name string) bool
}
