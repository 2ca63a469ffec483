package governor

import "fmt"

// InitializationError is returned when the service is used before it
// reaches the ready state, or after it has halted.
type InitializationError struct {
	State string // Service state at the time of the call
}

// Error implements the error interface.
func (e *InitializationError) Error() string {
	return fmt.Sprintf("decision service not ready (state: %s)", e.State)
}

// NewInitializationError creates a new InitializationError.
func NewInitializationError(state string) *InitializationError {
	return &InitializationError{State: state}
}

// ReplayConflictError is returned when a request ID is reused with a
// different payload fingerprint. The request ID is already bound to a
// different action; the conflict is surfaced, never silently resolved.
type ReplayConflictError struct {
	RequestID string // Conflicting request ID
	Stored    string // Fingerprint bound to the request ID
	Presented string // Fingerprint of the conflicting call
}

// Error implements the error interface.
func (e *ReplayConflictError) Error() string {
	return fmt.Sprintf("request_id %s already bound to a different payload (stored fingerprint %.12s, presented %.12s)",
		e.RequestID, e.Stored, e.Presented)
}

// NewReplayConflictError creates a new ReplayConflictError.
func NewReplayConflictError(requestID, stored, presented string) *ReplayConflictError {
	return &ReplayConflictError{RequestID: requestID, Stored: stored, Presented: presented}
}

// RequestError is returned for requests missing required fields. These are
// protocol violations by the adapter, not classification outcomes.
type RequestError struct {
	Field  string // Offending field
	Reason string // Why it is invalid
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid decision request: %s %s", e.Field, e.Reason)
}

// NewRequestError creates a new RequestError.
func NewRequestError(field, reason string) *RequestError {
	return &RequestError{Field: field, Reason: reason}
}
