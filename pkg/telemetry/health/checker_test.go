package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestCheckLiveness tests that liveness always reports ok.
func TestCheckLiveness(t *testing.T) {
	checker := New(0)

	status := checker.CheckLiveness(context.Background())
	if status.Status != "ok" {
		t.Errorf("Expected ok, got %q", status.Status)
	}
}

// TestCheckReadiness tests aggregation across component checks.
func TestCheckReadiness(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("healthy", func(ctx context.Context) error {
		return nil
	})

	status := checker.CheckReadiness(context.Background())
	if status.Status != "ready" {
		t.Errorf("Expected ready, got %q", status.Status)
	}
	if status.Checks["healthy"].Status != "ok" {
		t.Errorf("Expected ok component status, got %+v", status.Checks["healthy"])
	}

	checker.RegisterCheck("failing", func(ctx context.Context) error {
		return errors.New("component down")
	})

	status = checker.CheckReadiness(context.Background())
	if status.Status != "degraded" {
		t.Errorf("Expected degraded, got %q", status.Status)
	}
	if status.Checks["failing"].Status != "unhealthy" {
		t.Errorf("Expected unhealthy component status, got %+v", status.Checks["failing"])
	}
	if status.Checks["failing"].Message == "" {
		t.Error("Expected failure message for unhealthy component")
	}
}

// TestCheckReadiness_NoChecks tests an empty checker.
func TestCheckReadiness_NoChecks(t *testing.T) {
	status := New(0).CheckReadiness(context.Background())
	if status.Status != "ready" {
		t.Errorf("Expected ready with no checks, got %q", status.Status)
	}
}

// TestCheckReadiness_Timeout tests that a slow check degrades readiness
// instead of hanging it.
func TestCheckReadiness_Timeout(t *testing.T) {
	checker := New(50 * time.Millisecond)
	checker.RegisterCheck("slow", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	})

	start := time.Now()
	status := checker.CheckReadiness(context.Background())
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Readiness check took %v, expected timeout near 50ms", elapsed)
	}
	if status.Status != "degraded" {
		t.Errorf("Expected degraded on timeout, got %q", status.Status)
	}
}
