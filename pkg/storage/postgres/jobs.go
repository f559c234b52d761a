package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sectoolkit/pkg/storage"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// AddJob inserts a River job through the shared insert-only client. On a
// transactional handle the job joins the surrounding transaction and becomes
// visible on commit. The boolean is false when River skipped the insert as a
// duplicate of a job with the same unique key.
func (p *PgSQL) AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	if p.jobs == nil {
		return false, storage.ErrNotConnected
	}

	var (
		res *rivertype.JobInsertResult
		err error
	)
	switch db := p.DB.(type) {
	case *sql.Tx:
		res, err = p.jobs.InsertTx(ctx, db, args, opts)
	default:
		res, err = p.jobs.Insert(ctx, args, opts)
	}
	if err != nil {
		return false, fmt.Errorf("could not insert %s job: %w", args.Kind(), err)
	}

	return !res.UniqueSkippedAsDuplicate, nil
}
