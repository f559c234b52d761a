package reports

import (
	"context"
	"errors"
	"fmt"
	"sectoolkit/internal/config"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/logger"
	"sectoolkit/pkg/network"
	"sectoolkit/pkg/serrors"
	"sectoolkit/pkg/storage"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
)

const (
	// DefaultPageSize is used when a listing does not ask for a page size.
	DefaultPageSize = 20
	// DefaultTLSPort is checked when a TLS request names no port.
	DefaultTLSPort = 443
)

// Request describes a report a user asks for.
type Request struct {
	Kind   domain.ReportKind
	Target string
	Params domain.ReportParams
}

// Options configure how report jobs are enqueued and how results are cached.
// These settings are typically derived from application configuration.
type Options struct {
	// MaxAttempts is the maximum number of attempts the background worker should
	// make when processing a report job before marking it failed.
	MaxAttempts int
	// ResultCacheTTL is the duration during which a completed result makes new
	// requests with the same key reuse that result instead of enqueueing
	// a duplicate job.
	ResultCacheTTL time.Duration
	// MaxPageSize bounds UserReports pages.
	MaxPageSize uint
	// DefaultPorts is the port specification of port scans that name none.
	DefaultPorts string
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxAttempts:    cfg.Reports.MaxAttempts,
		ResultCacheTTL: cfg.Reports.ResultCacheTTL,
		MaxPageSize:    cfg.Reports.MaxPageSize,
		DefaultPorts:   cfg.Scanner.Ports,
	}
}

// service is the concrete implementation of the Service interface.
// It coordinates persistence with the storage layer, job enqueueing and the tools.
type service struct {
	options   Options
	storage   storage.Storage
	scanner   PortScanner
	validator TLSValidator
	now       func() time.Time
}

// New creates a new Service backed by the provided storage and tools.
func New(st storage.Storage, scanner PortScanner, validator TLSValidator, options Options) Service {
	if options.MaxPageSize == 0 {
		options.MaxPageSize = 100
	}

	return &service{
		options:   options,
		storage:   st,
		scanner:   scanner,
		validator: validator,
		now:       time.Now,
	}
}

// normalize validates a request and returns its canonical job arguments.
func (s *service) normalize(req Request) (JobArgs, error) {
	if !req.Kind.Valid() {
		return JobArgs{}, serrors.With(serrors.ErrBadRequest, "unknown report kind %q", req.Kind)
	}

	target, port, err := NormalizeTarget(req.Target)
	if err != nil {
		return JobArgs{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid target")
	}

	args := JobArgs{ReportKind: req.Kind, Target: target}
	switch req.Kind {
	case domain.ReportKindPortScan:
		if port != 0 {
			return JobArgs{}, serrors.With(serrors.ErrBadRequest, "port scan targets take ports as a parameter")
		}

		spec := strings.Join(strings.FieldsFunc(strings.ToLower(req.Params.Ports), func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		}), ",")
		if spec == "" {
			spec = s.options.DefaultPorts
		}
		if _, err := network.ParsePorts(spec); err != nil {
			return JobArgs{}, err //nolint: wrapcheck
		}
		args.Params.Ports = spec
	case domain.ReportKindTLSCheck:
		if req.Params.Port != 0 {
			if port != 0 && port != req.Params.Port {
				return JobArgs{}, serrors.With(serrors.ErrBadRequest, "target and params name different ports")
			}
			port = req.Params.Port
		}
		if port == 0 {
			port = DefaultTLSPort
		}
		if port < network.MinPort || port > network.MaxPort {
			return JobArgs{}, serrors.With(serrors.ErrBadRequest, "invalid port %d", port)
		}
		args.Params.Port = port
	}

	return args, nil
}

// Enqueue stores a new report request for the user, and attempts to enqueue a
// background job to process it. If a recent completed result exists for the
// same key (within ResultCacheTTL), the new report is immediately marked as
// completed with that result.
func (s *service) Enqueue(ctx context.Context, userID domain.UserID, req Request) (*domain.Report, error) {
	var report *domain.Report
	args, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	args.maxAttempts = s.options.MaxAttempts
	args.uniqueJobPeriod = s.options.ResultCacheTTL

	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		res, err := tx.StoreReports(ctx, domain.Report{
			UserID: userID,
			Kind:   args.ReportKind,
			Target: args.Target,
			Params: args.Params,
			Status: domain.ReportStatusPending,
		})
		if err != nil {
			return fmt.Errorf("could not store report: %w", err)
		}
		report = &res[0]

		jobAdded, err := tx.AddJob(ctx, args, nil)
		if err != nil {
			return fmt.Errorf("could not add job: %w", err)
		}

		// river unique jobs keep one job per key, a job that was not added
		// already exists in the queue or finished recently.
		if !jobAdded {
			lastResult, err := tx.LastCompletedReport(ctx, args.Key(), s.now().Add(-s.options.ResultCacheTTL))
			if err != nil {
				return fmt.Errorf("could not get last completed report: %w", err)
			}

			if lastResult != nil {
				updated, err := tx.UpdateReportByID(ctx, report.ID, storage.ReportUpdates{
					Status: domain.ReportStatusCompleted,
					Result: &lastResult.Result,
				})
				if err != nil {
					return fmt.Errorf("could not update report: %w", err)
				}
				report = updated
			} // else: the queued job settles every pending report of the key.
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("could not enqueue report: %w", err)
	}

	return report, nil
}

// UserReports returns a page of reports for the given user filtered by kind.
// It supports cursor-based pagination using an RFC3339 timestamp string and
// returns the next cursor when more results are available.
func (s *service) UserReports(ctx context.Context,
	userID domain.UserID,
	kind domain.ReportKind,
	cursor string,
	limit uint) ([]domain.Report, string, error) {
	if kind != "" && !kind.Valid() {
		return nil, "", serrors.With(serrors.ErrBadRequest, "unknown report kind %q", kind)
	}

	var cursorTime time.Time
	if cursor != "" {
		t, err := time.Parse(time.RFC3339Nano, cursor)
		if err != nil {
			return nil, "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid cursor")
		}
		cursorTime = t
	}

	switch {
	case limit == 0:
		limit = min(DefaultPageSize, s.options.MaxPageSize)
	case limit > s.options.MaxPageSize:
		limit = s.options.MaxPageSize
	}

	page, err := s.storage.UserReports(ctx, userID, kind, cursorTime, limit)
	if err != nil {
		return nil, "", fmt.Errorf("could not get user reports: %w", err)
	}

	var next string
	if page.NextCursor != nil {
		next = page.NextCursor.UTC().Format(time.RFC3339Nano)
	}

	return page.Reports, next, nil
}

// Result fetches a single report by ID for the given user. It returns a
// not-found error when no matching report exists.
func (s *service) Result(ctx context.Context, userID domain.UserID, id domain.ReportID) (*domain.Report, error) {
	res, err := s.storage.ReportByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("could not get report: %w", err)
	}
	if res == nil {
		return nil, serrors.With(serrors.ErrNotFound, "report not found")
	}

	return res, nil
}

// Delete soft deletes a report belonging to the given user. Jobs are left in
// the queue because other pending reports may share them.
func (s *service) Delete(ctx context.Context, userID domain.UserID, id domain.ReportID) error {
	res, err := s.storage.DeleteReport(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("could not delete report: %w", err)
	}
	if res == nil {
		return serrors.With(serrors.ErrNotFound, "report not found")
	}

	return nil
}

// Process runs the tool of a job and updates all pending reports of its key.
// It returns ErrConflict when no report waits for the job anymore and
// ErrBadRequest when the job can never succeed.
func (s *service) Process(ctx context.Context, args JobArgs) error {
	key := args.Key()
	ctx = logger.WithFields(ctx, zap.String("kind", string(args.ReportKind)), zap.String("target", args.Target))

	count, err := s.storage.PendingReportCount(ctx, key)
	if err != nil {
		return fmt.Errorf("could not count pending reports: %w", err)
	}
	if count == 0 {
		return serrors.With(serrors.ErrConflict, "no pending reports")
	}

	result, runErr := s.run(ctx, args)
	if runErr != nil {
		msg := runErr.Error()
		updates := storage.ReportUpdates{
			Status:      domain.ReportStatusFailed,
			LastError:   &msg,
			MaxAttempts: s.options.MaxAttempts,
		}
		// bad input fails right away, retrying cannot fix it
		if errors.Is(runErr, serrors.ErrBadRequest) {
			updates.MaxAttempts = 0
		}
		if err := s.storage.UpdatePendingReports(ctx, key, updates); err != nil {
			return fmt.Errorf("could not mark reports failed: %w", err)
		}

		logger.Warn(ctx, "report failed", zap.Error(runErr), zap.Int64("pending", count))

		return runErr
	}

	empty := ""
	if err := s.storage.UpdatePendingReports(ctx, key, storage.ReportUpdates{
		Status:    domain.ReportStatusCompleted,
		Result:    result,
		LastError: &empty,
	}); err != nil {
		return fmt.Errorf("could not store report result: %w", err)
	}

	logger.Debug(ctx, "report completed", zap.Int64("reports", count))

	return nil
}

// run executes the tool selected by the job kind.
func (s *service) run(ctx context.Context, args JobArgs) (*domain.ReportResult, error) {
	switch args.ReportKind {
	case domain.ReportKindPortScan:
		ports, err := network.ParsePorts(args.Params.Ports)
		if err != nil {
			return nil, err //nolint: wrapcheck
		}

		scan, err := s.scanner.Scan(ctx, args.Target, ports)
		if err != nil {
			return nil, fmt.Errorf("could not scan %s: %w", args.Target, err)
		}

		return &domain.ReportResult{PortScan: scan}, nil
	case domain.ReportKindTLSCheck:
		cert, err := s.validator.Validate(ctx, args.Target, args.Params.Port)
		if err != nil {
			return nil, fmt.Errorf("could not check %s: %w", args.Target, err)
		}

		return &domain.ReportResult{TLS: cert}, nil
	default:
		return nil, serrors.With(serrors.ErrBadRequest, "unknown report kind %q", args.ReportKind)
	}
}
