package storage

import "errors"

var (
	// ErrAlreadyInTx is returned by Begin on a handle that is already transactional.
	ErrAlreadyInTx = errors.New("already in tx")
	// ErrNotInTx is returned by Commit and Rollback outside a transaction.
	ErrNotInTx = errors.New("not in tx")
	// ErrNotConnected is returned by handles that carry no connection pool.
	ErrNotConnected = errors.New("storage is not connected")
)
