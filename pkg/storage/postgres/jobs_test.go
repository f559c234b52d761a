package postgres_test

import (
	"context"
	"database/sql"
	"sectoolkit/pkg/storage/postgres"
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivertest"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/require"
)

type probeJobArgs struct {
	Target string `json:"target" river:"unique"`
}

func (probeJobArgs) Kind() string { return "probe" }

func uniqueOpts() *river.InsertOpts {
	return &river.InsertOpts{
		UniqueOpts: river.UniqueOpts{
			ByArgs:   true,
			ByPeriod: time.Hour,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStateCompleted,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}

func TestPgSQL_AddJob_WithinTransaction(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	txStorage, err := pg.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = txStorage.Rollback() }()

	added, err := txStorage.AddJob(ctx, probeJobArgs{Target: "192.0.2.1"}, uniqueOpts())
	require.NoError(t, err)
	require.True(t, added)
	rivertest.RequireInsertedTx[*riverdatabasesql.Driver](
		ctx,
		t,
		txStorage.(*postgres.PgSQL).DB.(*sql.Tx),
		&probeJobArgs{},
		nil,
	)
}

func TestPgSQL_AddJob_UniqueByArgs(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	added, err := pg.AddJob(ctx, probeJobArgs{Target: "192.0.2.1"}, uniqueOpts())
	require.NoError(t, err)
	require.True(t, added)
	rivertest.RequireInserted[*riverdatabasesql.Driver](
		ctx,
		t,
		riverdatabasesql.New(pg.DB.(*sql.DB)),
		&probeJobArgs{},
		nil,
	)

	added, err = pg.AddJob(ctx, probeJobArgs{Target: "192.0.2.1"}, uniqueOpts())
	require.NoError(t, err)
	require.False(t, added)

	added, err = pg.AddJob(ctx, probeJobArgs{Target: "192.0.2.2"}, uniqueOpts())
	require.NoError(t, err)
	require.True(t, added)
}
