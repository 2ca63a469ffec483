// Package intent records the lifecycle of captured intents in a
// hash-chained history log, reusing the same tamper-evident primitive as
// the decision ledger.
package intent
