package storage

import (
	"context"

	"github.com/riverqueue/river"
)

// JobStorage enqueues background jobs into the queue backend.
type JobStorage interface {
	// AddJob enqueues a new job with the given arguments. It is atomic with
	// respect to a surrounding transaction when the backend supports it. The
	// returned bool is false when a unique job with the same arguments exists.
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}
