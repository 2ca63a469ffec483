// Package storage provides append-only backing stores for the hash-chained
// ledger. Stores persist opaque records; chaining and verification live in
// the ledger package.
package storage
