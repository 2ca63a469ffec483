package secrets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// TestStaticProvider tests the in-memory provider.
func TestStaticProvider(t *testing.T) {
	ctx := context.Background()
	provider := NewStaticProvider(map[string]string{"chain-secret": "v1"})

	value, err := provider.GetSecret(ctx, "chain-secret")
	if err != nil {
		t.Fatalf("GetSecret() failed: %v", err)
	}
	if value != "v1" {
		t.Errorf("Expected v1, got %q", value)
	}

	if _, err := provider.GetSecret(ctx, "absent"); err == nil {
		t.Error("Expected error for absent secret, got nil")
	}
	if !provider.Supports("chain-secret") || provider.Supports("absent") {
		t.Error("Supports() reported wrong availability")
	}

	provider.SetSecret("chain-secret", "v2")
	value, err = provider.GetSecret(ctx, "chain-secret")
	if err != nil {
		t.Fatalf("GetSecret() after rotation failed: %v", err)
	}
	if value != "v2" {
		t.Errorf("Expected rotated value v2, got %q", value)
	}
}

// TestEnvProvider tests name-to-variable mapping and prefixing.
func TestEnvProvider(t *testing.T) {
	ctx := context.Background()
	provider := NewEnvProvider("AEGIS_SECRET_")

	t.Setenv("AEGIS_SECRET_LEDGER_CHAIN_SECRET", "from-env")

	value, err := provider.GetSecret(ctx, "ledger-chain-secret")
	if err != nil {
		t.Fatalf("GetSecret() failed: %v", err)
	}
	if value != "from-env" {
		t.Errorf("Expected from-env, got %q", value)
	}

	if !provider.Supports("ledger-chain-secret") {
		t.Error("Expected Supports() to find the env secret")
	}
	if _, err := provider.GetSecret(ctx, "missing-secret"); err == nil {
		t.Error("Expected error for unset variable, got nil")
	}
	if provider.Provider() != "env" {
		t.Errorf("Expected provider name env, got %q", provider.Provider())
	}
}

// TestFileProvider tests file-backed secrets with permission checks.
func TestFileProvider(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "chain-secret"), []byte("file-value\n"), 0o600); err != nil {
		t.Fatalf("Failed to write secret file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "world-readable"), []byte("leaky"), 0o644); err != nil {
		t.Fatalf("Failed to write secret file: %v", err)
	}

	provider, err := NewFileProvider(dir)
	if err != nil {
		t.Fatalf("NewFileProvider() failed: %v", err)
	}

	value, err := provider.GetSecret(ctx, "chain-secret")
	if err != nil {
		t.Fatalf("GetSecret() failed: %v", err)
	}
	if value != "file-value" {
		t.Errorf("Expected trailing newline trimmed, got %q", value)
	}

	if _, err := provider.GetSecret(ctx, "world-readable"); err == nil {
		t.Error("Expected error for insecure permissions, got nil")
	}
	if _, err := provider.GetSecret(ctx, "absent"); err == nil {
		t.Error("Expected error for absent secret, got nil")
	}
}

// TestFileProvider_RejectsTraversal tests that secret names cannot escape
// the base directory.
func TestFileProvider_RejectsTraversal(t *testing.T) {
	provider, err := NewFileProvider(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileProvider() failed: %v", err)
	}

	if _, err := provider.GetSecret(context.Background(), "../etc/passwd"); err == nil {
		t.Error("Expected traversal to be rejected, got nil")
	}
}

// TestNewFileProvider_RequiresDirectory tests base path validation.
func TestNewFileProvider_RequiresDirectory(t *testing.T) {
	if _, err := NewFileProvider(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("Expected error for missing base path, got nil")
	}

	file := filepath.Join(t.TempDir(), "regular")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := NewFileProvider(file); err == nil {
		t.Error("Expected error for non-directory base path, got nil")
	}
}
