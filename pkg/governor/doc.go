// Package governor implements the runtime decision service.
//
// The service composes the policy engine, the risk router, and the
// tamper-evident ledger: it classifies a proposed action, routes it to an
// evaluation tier, applies fail-closed escalation, appends the outcome to
// the ledger, and returns an auditable decision.
//
// Repeated requests carrying the same request ID and payload collapse to
// one ledger entry and one canonical response. Reusing a request ID with a
// different payload is a protocol violation, not a retry. Once ledger
// tampering is detected the service halts decision issuance until an
// operator intervenes.
package governor
