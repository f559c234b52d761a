package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/storage"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	reportsTable = "reports"
)

// keyWhere matches live reports with the given key. Params are compared as
// jsonb so key order in the stored document does not matter.
func keyWhere(key storage.ReportKey) ([]goqu.Expression, error) {
	params, err := json.Marshal(key.Params)
	if err != nil {
		return nil, fmt.Errorf("could not marshal report params: %w", err)
	}

	return []goqu.Expression{
		goqu.I("kind").Eq(string(key.Kind)),
		goqu.I("target").Eq(key.Target),
		goqu.L("params = ?::jsonb", string(params)),
		goqu.I("deleted_at").IsNull(),
	}, nil
}

func updateRecord(updates storage.ReportUpdates) (goqu.Record, error) {
	rec := goqu.Record{
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		"attempts":   goqu.L("attempts + 1"),
		"status":     string(updates.Status),
	}
	if updates.Status == domain.ReportStatusFailed && updates.MaxAttempts > 0 {
		rec["status"] = goqu.L("CASE WHEN attempts + 1 >= ? THEN ? ELSE status END",
			updates.MaxAttempts, string(domain.ReportStatusFailed))
	}

	if updates.Result != nil {
		b, err := json.Marshal(updates.Result)
		if err != nil {
			return nil, fmt.Errorf("could not marshal result: %w", err)
		}

		rec["result"] = b
	}

	if updates.LastError != nil {
		if *updates.LastError == "" {
			// set to NULL when empty string provided
			rec["last_error"] = goqu.L("NULL")
		} else {
			rec["last_error"] = *updates.LastError
		}
	}

	return rec, nil
}

func (p *PgSQL) StoreReports(ctx context.Context, reports ...domain.Report) ([]domain.Report, error) {
	if len(reports) == 0 {
		return nil, nil
	}

	pgReports, err := domainReportsToPg(reports)
	if err != nil {
		return nil, err
	}

	var result []PgReport
	if err := p.Builder.Insert(reportsTable).
		Rows(pgReports).
		Returning(&PgReport{}).
		Executor().ScanStructsContext(ctx, &result); err != nil {
		return nil, fmt.Errorf("could not store reports into pg: %w", err)
	}

	return pgReportsToDomain(result)
}

// UpdatePendingReports updates all pending reports with the given key.
func (p *PgSQL) UpdatePendingReports(ctx context.Context, key storage.ReportKey, updates storage.ReportUpdates) error {
	rec, err := updateRecord(updates)
	if err != nil {
		return err
	}

	where, err := keyWhere(key)
	if err != nil {
		return err
	}

	_, err = p.Builder.Update(reportsTable).
		Set(rec).
		Where(append(where, goqu.I("status").Eq(string(domain.ReportStatusPending)))...).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not update pending reports in pg: %w", err)
	}

	return nil
}

// PendingReportCount counts pending reports with the given key.
func (p *PgSQL) PendingReportCount(ctx context.Context, key storage.ReportKey) (int64, error) {
	where, err := keyWhere(key)
	if err != nil {
		return 0, err
	}

	count, err := p.Builder.From(reportsTable).
		Where(append(where, goqu.I("status").Eq(string(domain.ReportStatusPending)))...).
		CountContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not count pending reports in pg: %w", err)
	}

	return count, nil
}

// UpdateReportByID updates a single live report and returns it, or nil if
// it does not exist.
func (p *PgSQL) UpdateReportByID(ctx context.Context,
	id domain.ReportID,
	updates storage.ReportUpdates) (*domain.Report, error) {
	rec, err := updateRecord(updates)
	if err != nil {
		return nil, err
	}

	var row PgReport
	found, err := p.Builder.Update(reportsTable).
		Set(rec).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("deleted_at").IsNull(),
		).
		Returning(&PgReport{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update report in pg: %w", err)
	}

	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// DeleteReport performs a soft delete by setting deleted_at timestamp
// for a given report id and user, returning the deleted record.
func (p *PgSQL) DeleteReport(ctx context.Context, userID domain.UserID, id domain.ReportID) (*domain.Report, error) {
	var row PgReport
	found, err := p.Builder.Update(reportsTable).
		Set(goqu.Record{
			"deleted_at": goqu.L("CURRENT_TIMESTAMP"),
		}).Where(
		goqu.I("id").Eq(uuid.UUID(id)),
		goqu.I("user_id").Eq(uuid.UUID(userID)),
		goqu.I("deleted_at").IsNull(),
	).Returning(&PgReport{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not delete report in pg: %w", err)
	}

	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// UserReports returns a page of reports for a user filtered by optional kind
// and cursor. Results are ordered by created_at DESC, id DESC.
func (p *PgSQL) UserReports(ctx context.Context,
	userID domain.UserID,
	kind domain.ReportKind,
	cursor time.Time,
	limit uint) (storage.UserReports, error) {
	w := []goqu.Expression{
		goqu.I("user_id").Eq(uuid.UUID(userID)),
		goqu.I("deleted_at").IsNull(),
	}
	if kind != "" {
		w = append(w, goqu.I("kind").Eq(string(kind)))
	}

	if !cursor.IsZero() {
		w = append(w, goqu.I("created_at").Lt(cursor))
	}

	// fetch one extra to determine if there is a next page
	ds := p.Builder.From(reportsTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(limit + 1)

	var rows []PgReport
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.UserReports{}, fmt.Errorf("could not fetch user reports from pg: %w", err)
	}

	var nextCursor *time.Time
	if uint(len(rows)) > limit {
		rows = rows[:limit]
		nextCursor = &rows[len(rows)-1].CreatedAt
	}

	reports, err := pgReportsToDomain(rows)
	if err != nil {
		return storage.UserReports{}, err
	}

	return storage.UserReports{
		Reports:    reports,
		NextCursor: nextCursor,
	}, nil
}

// ReportByID returns a report by its ID, excluding soft-deleted rows.
func (p *PgSQL) ReportByID(ctx context.Context, userID domain.UserID, id domain.ReportID) (*domain.Report, error) {
	var row PgReport
	found, err := p.Builder.From(reportsTable).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("user_id").Eq(uuid.UUID(userID)),
			goqu.I("deleted_at").IsNull(),
		).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch report by id: %w", err)
	}

	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// LastCompletedReport returns the newest completed report with the key that
// was updated after since.
func (p *PgSQL) LastCompletedReport(ctx context.Context,
	key storage.ReportKey,
	since time.Time) (*domain.Report, error) {
	where, err := keyWhere(key)
	if err != nil {
		return nil, err
	}

	where = append(where, goqu.I("status").Eq(string(domain.ReportStatusCompleted)))
	if !since.IsZero() {
		where = append(where, goqu.I("updated_at").Gt(since))
	}

	var row PgReport
	found, err := p.Builder.From(reportsTable).
		Where(where...).
		Order(goqu.I("updated_at").Desc()).
		Limit(1).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch last completed report: %w", err)
	}

	if !found {
		return nil, nil
	}

	return row.ToDomain()
}
