// Package storage defines the persistence interfaces of the reports service:
// report rows, the job queue and the transactions that tie the two together.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import "context"

// AllStorage is everything the reports service reads and writes.
type AllStorage interface {
	ReportStorage
	JobStorage
}

// TxStorage is an AllStorage bound to an open transaction. It must not be
// used after Commit or Rollback.
type TxStorage interface {
	AllStorage

	// Commit finalizes the transaction, persisting all changes.
	Commit() error
	// Rollback aborts the transaction, discarding all uncommitted changes.
	Rollback() error
}

// Storage describes a non-transactional storage handle with the ability to
// start transactions.
type Storage interface {
	AllStorage

	// Close releases the connection pool.
	Close() error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Begin starts a new transaction and returns a TxStorage that can be used to
	// perform further operations within that transaction.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx begins a transaction, invokes cb with it, and commits on success or
	// rolls back if cb returns an error.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
