// Package ledger implements an append-only, hash-chained audit log.
//
// Each entry's hash is a SHA-256 digest over the previous entry's hash, the
// canonical JSON encoding of the entry, and a secret resolved through an
// injected secret provider. Any mutation of a stored entry, or any
// reordering of entries, makes chain verification fail.
//
// The chain is generic over its payload type so that the same primitive
// backs both the decision audit ledger and the intent lifecycle history.
package ledger
