package policy

import (
	"fmt"
	"strings"
)

// LoadError reports a structurally invalid policy definition set. No part
// of the set is applied when loading fails.
type LoadError struct {
	Dir      string   // Directory that was being loaded
	Problems []string // All validation problems found
	Cause    error    // Underlying I/O or parse error, if any
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if len(e.Problems) > 0 {
		return fmt.Sprintf("invalid policy definitions in %s: %s", e.Dir, strings.Join(e.Problems, "; "))
	}
	return fmt.Sprintf("failed to load policy definitions from %s: %v", e.Dir, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// NewLoadError creates a LoadError for validation problems.
func NewLoadError(dir string, problems []string) *LoadError {
	return &LoadError{Dir: dir, Problems: problems}
}

// NewLoadIOError creates a LoadError wrapping an I/O or parse failure.
func NewLoadIOError(dir string, cause error) *LoadError {
	return &LoadError{Dir: dir, Cause: cause}
}

// ValidationResult is the outcome of a pure validation pass over a policy
// directory, usable at release-gate time without loading anything into a
// running service.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}
