package storage

import (
	"context"
	"sectoolkit/pkg/domain"
	"time"
)

// ReportKey identifies the unit of work shared by reports of different users:
// the same tool run against the same target with the same parameters.
type ReportKey struct {
	Kind   domain.ReportKind
	Target string
	Params domain.ReportParams
}

// KeyOf returns the key of a report.
func KeyOf(r domain.Report) ReportKey {
	return ReportKey{Kind: r.Kind, Target: r.Target, Params: r.Params}
}

// ReportUpdates describes the fields applied to existing reports during an
// update. Only non-nil pointer fields are changed.
type ReportUpdates struct {
	// Status is the new status to set for the report.
	Status domain.ReportStatus
	// Result, when provided, replaces the stored result payload.
	Result *domain.ReportResult
	// LastError, when provided, sets the last error text. An empty string
	// clears it.
	LastError *string
	// MaxAttempts, when provided alongside a Failed status, only lets the status
	// become Failed once the attempts after increment reach this threshold;
	// otherwise the report stays Pending. A value <= 0 disables the guard.
	MaxAttempts int
}

// UserReports is a page of reports together with the cursor of the next page.
type UserReports struct {
	// Reports contains the current page.
	Reports []domain.Report
	// NextCursor is the created_at value to pass for the next page. It is nil
	// on the last page.
	NextCursor *time.Time
}

// ReportStorage defines persistence of reports. Soft-deleted reports are
// invisible to every read.
type ReportStorage interface {
	// StoreReports inserts reports and returns the stored rows including
	// generated fields.
	StoreReports(ctx context.Context, reports ...domain.Report) ([]domain.Report, error)
	// UpdatePendingReports updates all pending reports with the given key.
	// Attempts is incremented by 1 and updated_at is set automatically.
	UpdatePendingReports(ctx context.Context, key ReportKey, updates ReportUpdates) error
	// PendingReportCount returns the number of pending reports with the given
	// key across all users.
	PendingReportCount(ctx context.Context, key ReportKey) (int64, error)
	// UpdateReportByID updates a single report and returns the updated row.
	UpdateReportByID(ctx context.Context, id domain.ReportID, updates ReportUpdates) (*domain.Report, error)
	// DeleteReport soft deletes a report of the user and returns it, or nil if
	// it was not found.
	DeleteReport(ctx context.Context, userID domain.UserID, id domain.ReportID) (*domain.Report, error)
	// UserReports returns a page of reports of the user created before the
	// optional cursor, newest first. A non-empty kind filters the page.
	UserReports(ctx context.Context,
		userID domain.UserID,
		kind domain.ReportKind,
		cursor time.Time,
		limit uint) (UserReports, error)
	// ReportByID fetches a report of the user. Returns nil when not found.
	ReportByID(ctx context.Context, userID domain.UserID, id domain.ReportID) (*domain.Report, error)
	// LastCompletedReport returns the most recent completed report with the
	// given key updated after since, across all users. Returns nil when there
	// is none.
	LastCompletedReport(ctx context.Context, key ReportKey, since time.Time) (*domain.Report, error)
}
