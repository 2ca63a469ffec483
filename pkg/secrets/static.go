package secrets

import (
	"context"
	"fmt"
	"sync"
)

// StaticProvider serves secrets from an in-memory map.
//
// It is intended for tests and for embedding Aegis in a host process that
// manages secrets itself.
type StaticProvider struct {
	mu      sync.RWMutex
	secrets map[string]string
}

// NewStaticProvider creates a static provider with an initial secret set.
// The map is copied; later mutation of the argument has no effect.
func NewStaticProvider(secrets map[string]string) *StaticProvider {
	copied := make(map[string]string, len(secrets))
	for k, v := range secrets {
		copied[k] = v
	}
	return &StaticProvider{secrets: copied}
}

// GetSecret retrieves a secret by name.
func (p *StaticProvider) GetSecret(ctx context.Context, name string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	value, ok := p.secrets[name]
	if !ok {
		return "", fmt.Errorf("secret not found: %s", name)
	}
	return value, nil
}

// ListSecrets returns all secret names.
func (p *StaticProvider) ListSecrets(ctx context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.secrets))
	for name := range p.secrets {
		names = append(names, name)
	}
	return names, nil
}

// Provider returns the provider name.
func (p *StaticProvider) Provider() string {
	return "static"
}

// Supports indicates whether the named secret is present.
func (p *StaticProvider) Supports(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, ok := p.secrets[name]
	return ok
}

// SetSecret adds or replaces a secret. Useful for rotation tests.
func (p *StaticProvider) SetSecret(name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.secrets[name] = value
}
