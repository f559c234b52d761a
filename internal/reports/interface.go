package reports

import (
	"context"
	"sectoolkit/pkg/domain"
)

//go:generate mockgen -package mockreports -source=interface.go -destination=mock/mockreports.go *
type Service interface {
	// Enqueue stores a pending report for the user and schedules its job.
	Enqueue(ctx context.Context, userID domain.UserID, req Request) (*domain.Report, error)
	// UserReports returns a page of the user's reports and the cursor of the next page.
	UserReports(ctx context.Context,
		userID domain.UserID,
		kind domain.ReportKind,
		cursor string,
		limit uint) ([]domain.Report, string, error)
	Result(ctx context.Context, userID domain.UserID, id domain.ReportID) (*domain.Report, error)
	Delete(ctx context.Context, userID domain.UserID, id domain.ReportID) error
	// Process runs the tool of a job and settles every pending report sharing it.
	Process(ctx context.Context, args JobArgs) error
}

// PortScanner is the part of network.PortScanner used to process reports.
type PortScanner interface {
	Scan(ctx context.Context, host string, ports []int) (*domain.PortScan, error)
}

// TLSValidator is the part of crypto.SSLValidator used to process reports.
type TLSValidator interface {
	Validate(ctx context.Context, host string, port int) (*domain.CertReport, error)
}
