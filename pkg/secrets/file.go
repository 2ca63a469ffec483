package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileProvider loads secrets from individual files in a directory.
//
// This provider supports Kubernetes-style secret mounting where each secret
// is stored as a separate file named after the secret. File permissions are
// validated to ensure secrets are properly protected (0600 or 0400 only).
type FileProvider struct {
	BasePath string // Directory containing secret files
}

// NewFileProvider creates a new file-based secret provider rooted at
// basePath. The path must exist and be a directory.
func NewFileProvider(basePath string) (*FileProvider, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base path is not a directory: %s", basePath)
	}

	return &FileProvider{BasePath: basePath}, nil
}

// GetSecret retrieves a secret from a file.
//
// The secret name is used as the filename within the configured base path.
// File permissions must be 0600 or 0400; anything more permissive is
// rejected.
func (p *FileProvider) GetSecret(ctx context.Context, name string) (string, error) {
	path, err := p.secretPath(name)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("secret not found: %s: %w", name, err)
	}

	perm := info.Mode().Perm()
	if perm != 0o600 && perm != 0o400 {
		return "", fmt.Errorf("secret file %s has insecure permissions %04o (want 0600 or 0400)", name, perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", name, err)
	}

	return strings.TrimRight(string(data), "\r\n"), nil
}

// ListSecrets returns the names of all regular files in the base path.
func (p *FileProvider) ListSecrets(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(p.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}

// Provider returns the provider name.
func (p *FileProvider) Provider() string {
	return "file"
}

// Supports indicates whether a file for the named secret exists.
func (p *FileProvider) Supports(name string) bool {
	path, err := p.secretPath(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// secretPath joins the secret name with the base path, rejecting names
// that would escape the directory.
func (p *FileProvider) secretPath(name string) (string, error) {
	path := filepath.Join(p.BasePath, name)

	absBase, err := filepath.Abs(p.BasePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve secret path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid secret path: directory traversal detected")
	}

	return path, nil
}
