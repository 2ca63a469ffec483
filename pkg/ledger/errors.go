package ledger

import "fmt"

// IntegrityError reports a failed chain verification. It is a fatal
// condition for the audit trail: decision issuance must stop until an
// operator resolves it. The chain never repairs itself.
type IntegrityError struct {
	Sequence uint64 // Sequence of the first entry that failed verification
	Reason   string // What check failed (hash mismatch, broken link, bad order)
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("ledger integrity violation at sequence %d: %s", e.Sequence, e.Reason)
}

// NewIntegrityError creates a new IntegrityError.
func NewIntegrityError(sequence uint64, reason string) *IntegrityError {
	return &IntegrityError{Sequence: sequence, Reason: reason}
}

// NotInitializedError is returned when the chain is used before
// Initialize has created the genesis entry.
type NotInitializedError struct {
	Operation string // Operation that was attempted
}

// Error implements the error interface.
func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("ledger not initialized: %s called before Initialize", e.Operation)
}

// NewNotInitializedError creates a new NotInitializedError.
func NewNotInitializedError(operation string) *NotInitializedError {
	return &NotInitializedError{Operation: operation}
}
