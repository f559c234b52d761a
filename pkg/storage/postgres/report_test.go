package postgres_test

import (
	"context"
	"fmt"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/storage"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPgSQL_StoreReports(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	userID := domain.UserID(uuid.New())

	res, err := pgSQL.StoreReports(ctx,
		pendingReport(userID, "192.0.2.1"),
		domain.Report{
			UserID: userID,
			Kind:   domain.ReportKindTLSCheck,
			Target: "example.com",
			Params: domain.ReportParams{Port: 8443},
			Status: domain.ReportStatusPending,
		})
	require.NoError(t, err)
	require.Len(t, res, 2)
	require.NotEqual(t, uuid.Nil, uuid.UUID(res[0].ID))
	require.False(t, res[0].CreatedAt.IsZero())
	require.Equal(t, "22,80,443", res[0].Params.Ports)
	require.Equal(t, 8443, res[1].Params.Port)
	require.Nil(t, res[1].Result.TLS)

	empty, err := pgSQL.StoreReports(ctx)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestPgSQL_UpdatePendingReports(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()

	userA := domain.UserID(uuid.New())
	userB := domain.UserID(uuid.New())
	otherPorts := pendingReport(userA, "192.0.2.1")
	otherPorts.Params.Ports = "1-1024"
	completed := pendingReport(userA, "192.0.2.1")
	completed.Status = domain.ReportStatusCompleted

	ins, err := pgSQL.StoreReports(ctx,
		pendingReport(userA, "192.0.2.1"),
		pendingReport(userB, "192.0.2.1"),
		completed,
		otherPorts,
		pendingReport(userA, "192.0.2.2"))
	require.NoError(t, err)

	key := storage.KeyOf(ins[0])
	count, err := pgSQL.PendingReportCount(ctx, key)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	empty := ""
	require.NoError(t, pgSQL.UpdatePendingReports(ctx, key, storage.ReportUpdates{
		Status:    domain.ReportStatusCompleted,
		Result:    &domain.ReportResult{PortScan: &domain.PortScan{Host: "192.0.2.1", Open: 1}},
		LastError: &empty,
	}))

	for i, want := range []domain.ReportStatus{
		domain.ReportStatusCompleted,
		domain.ReportStatusCompleted,
		domain.ReportStatusCompleted,
		domain.ReportStatusPending,
		domain.ReportStatusPending,
	} {
		r, err := pgSQL.ReportByID(ctx, ins[i].UserID, ins[i].ID)
		require.NoError(t, err)
		require.Equal(t, want, r.Status, i)
		if i < 2 {
			require.EqualValues(t, 1, r.Attempts)
			require.False(t, r.UpdatedAt.IsZero())
			require.Equal(t, 1, r.Result.PortScan.Open)
		} else {
			require.Zero(t, r.Attempts)
		}
	}

	count, err = pgSQL.PendingReportCount(ctx, key)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestPgSQL_UpdatePendingReports_MaxAttempts(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()

	ins, err := pgSQL.StoreReports(ctx, pendingReport(domain.UserID(uuid.New()), "192.0.2.9"))
	require.NoError(t, err)

	msg := "connection refused"
	updates := storage.ReportUpdates{Status: domain.ReportStatusFailed, LastError: &msg, MaxAttempts: 2}

	require.NoError(t, pgSQL.UpdatePendingReports(ctx, storage.KeyOf(ins[0]), updates))
	r, err := pgSQL.ReportByID(ctx, ins[0].UserID, ins[0].ID)
	require.NoError(t, err)
	require.Equal(t, domain.ReportStatusPending, r.Status)
	require.Equal(t, msg, r.LastError)

	require.NoError(t, pgSQL.UpdatePendingReports(ctx, storage.KeyOf(ins[0]), updates))
	r, err = pgSQL.ReportByID(ctx, ins[0].UserID, ins[0].ID)
	require.NoError(t, err)
	require.Equal(t, domain.ReportStatusFailed, r.Status)
	require.EqualValues(t, 2, r.Attempts)
}

func TestPgSQL_UpdateReportByID(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()

	ins, err := pgSQL.StoreReports(ctx, pendingReport(domain.UserID(uuid.New()), "192.0.2.3"))
	require.NoError(t, err)

	updated, err := pgSQL.UpdateReportByID(ctx, ins[0].ID, storage.ReportUpdates{
		Status: domain.ReportStatusCompleted,
		Result: &domain.ReportResult{PortScan: &domain.PortScan{Host: "192.0.2.3"}},
	})
	require.NoError(t, err)
	require.Equal(t, domain.ReportStatusCompleted, updated.Status)
	require.Equal(t, "192.0.2.3", updated.Result.PortScan.Host)

	missing, err := pgSQL.UpdateReportByID(ctx, domain.ReportID(uuid.New()), storage.ReportUpdates{
		Status: domain.ReportStatusCompleted,
	})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestPgSQL_DeleteReport(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()

	userID := domain.UserID(uuid.New())
	stored, err := pgSQL.StoreReports(ctx, pendingReport(userID, "192.0.2.4"))
	require.NoError(t, err)
	id := stored[0].ID

	// other users cannot delete it
	deleted, err := pgSQL.DeleteReport(ctx, domain.UserID(uuid.New()), id)
	require.NoError(t, err)
	require.Nil(t, deleted)

	deleted, err = pgSQL.DeleteReport(ctx, userID, id)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	require.Equal(t, id, deleted.ID)
	require.False(t, deleted.DeletedAt.IsZero())

	got, err := pgSQL.ReportByID(ctx, userID, id)
	require.NoError(t, err)
	require.Nil(t, got)

	count, err := pgSQL.PendingReportCount(ctx, storage.KeyOf(stored[0]))
	require.NoError(t, err)
	require.Zero(t, count)

	deleted, err = pgSQL.DeleteReport(ctx, userID, id)
	require.NoError(t, err)
	require.Nil(t, deleted)
}

func TestPgSQL_UserReports_Pagination(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()

	userID := domain.UserID(uuid.New())
	reports := make([]domain.Report, 0, 5)
	for range 4 {
		reports = append(reports, pendingReport(userID, fmt.Sprintf("198.51.100.%d", len(reports)+1)))
	}

	reports = append(reports, domain.Report{
		UserID: userID,
		Kind:   domain.ReportKindTLSCheck,
		Target: "example.com",
		Params: domain.ReportParams{Port: 443},
		Status: domain.ReportStatusPending,
	})
	stored, err := pgSQL.StoreReports(ctx, reports...)
	require.NoError(t, err)

	// make the last report the newest
	now := time.Now().UTC()
	for i, r := range stored {
		created := now.Add(-time.Duration(4-i) * time.Minute)
		_, err := pgSQL.DB.ExecContext(ctx, "UPDATE reports SET created_at = $1 WHERE id = $2", created, uuid.UUID(r.ID))
		require.NoError(t, err)
	}

	p1, err := pgSQL.UserReports(ctx, userID, "", time.Time{}, 2)
	require.NoError(t, err)
	require.Len(t, p1.Reports, 2)
	require.Equal(t, stored[4].ID, p1.Reports[0].ID)
	require.NotNil(t, p1.NextCursor)

	p2, err := pgSQL.UserReports(ctx, userID, "", *p1.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, p2.Reports, 2)
	require.NotNil(t, p2.NextCursor)

	p3, err := pgSQL.UserReports(ctx, userID, "", *p2.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, p3.Reports, 1)
	require.Nil(t, p3.NextCursor)

	tls, err := pgSQL.UserReports(ctx, userID, domain.ReportKindTLSCheck, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, tls.Reports, 1)
	require.Nil(t, tls.NextCursor)
}

func TestPgSQL_LastCompletedReport(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()

	userID := domain.UserID(uuid.New())
	ins, err := pgSQL.StoreReports(ctx, pendingReport(userID, "192.0.2.5"), pendingReport(userID, "192.0.2.5"))
	require.NoError(t, err)
	key := storage.KeyOf(ins[0])

	last, err := pgSQL.LastCompletedReport(ctx, key, time.Time{})
	require.NoError(t, err)
	require.Nil(t, last)

	_, err = pgSQL.UpdateReportByID(ctx, ins[0].ID, storage.ReportUpdates{
		Status: domain.ReportStatusCompleted,
		Result: &domain.ReportResult{PortScan: &domain.PortScan{Host: "192.0.2.5", Open: 3}},
	})
	require.NoError(t, err)

	last, err = pgSQL.LastCompletedReport(ctx, key, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.NotNil(t, last)
	require.Equal(t, 3, last.Result.PortScan.Open)

	// outside the cache window
	last, err = pgSQL.LastCompletedReport(ctx, key, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Nil(t, last)

	// different params form a different key
	key.Params.Ports = "top100"
	last, err = pgSQL.LastCompletedReport(ctx, key, time.Time{})
	require.NoError(t, err)
	require.Nil(t, last)
}
