package worker

import (
	"context"
	"errors"
	"fmt"
	"sectoolkit/internal/reports"
	"sectoolkit/pkg/logger"
	"sectoolkit/pkg/metrics"
	"sectoolkit/pkg/serrors"
	"sync"
	"time"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// ReportWorker is a River worker that processes report jobs using a provided
// reports.Service. It embeds River's WorkerDefaults to integrate with the job
// runtime and shares a probe budget across its concurrent jobs, so that the
// port scans of all running jobs together never open more than MaxInFlightProbes
// connections.
//
// # Probe budget
//
// Every job costs the number of probes it opens (JobArgs.Cost), capped at the
// budget so a single large scan can always run alone. Before processing, reserve
// takes the cost from the budget. When the remaining budget cannot cover it,
// reserve waits until either:
//   - another job finishes and signals finishedChan, or
//   - SnoozeDuration elapses, in which case the job is snoozed and River
//     retries it later without counting an attempt.
//
// After the job completes, release returns the cost and wakes one waiter with a
// non-blocking send on finishedChan.
//
// Error handling: ErrConflict (no pending reports) and ErrBadRequest (a job that
// can never succeed) cancel the job. ErrRateLimited snoozes it. Other errors are
// logged and returned so River retries the job.
type ReportWorker struct {
	river.WorkerDefaults[reports.JobArgs]

	service reports.Service
	options Options
	// mu protects inFlight.
	mu sync.Mutex
	// inFlight is the sum of the costs of running jobs.
	inFlight int
	// finishedChan wakes goroutines waiting in reserve when a job completes.
	finishedChan chan struct{}
}

// NewReportWorker constructs a ReportWorker processing jobs with the service.
func NewReportWorker(service reports.Service, options Options) *ReportWorker {
	if options.MaxInFlightProbes <= 0 {
		options.MaxInFlightProbes = DefaultMaxInFlightProbes
	}
	if options.SnoozeDuration <= 0 {
		options.SnoozeDuration = DefaultSnoozeDuration
	}

	return &ReportWorker{
		service:      service,
		options:      options,
		finishedChan: make(chan struct{}),
	}
}

// Timeout bounds the runtime of a single job.
func (w *ReportWorker) Timeout(*river.Job[reports.JobArgs]) time.Duration {
	return w.options.JobTimeout
}

// Work executes a single report job within the probe budget and maps errors to
// the appropriate River actions.
func (w *ReportWorker) Work(ctx context.Context, job *river.Job[reports.JobArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.String("kind", string(job.Args.ReportKind)),
		zap.String("target", job.Args.Target))

	cost, err := w.reserve(ctx, job.Args.Cost())
	if err != nil {
		if errors.Is(err, serrors.ErrRateLimited) {
			metrics.JobsProcessed.WithLabelValues(string(job.Args.ReportKind), "snoozed").Inc()

			return river.JobSnooze(w.options.SnoozeDuration) //nolint: wrapcheck
		}

		logger.Error(ctx, "error reserving probe budget", zap.Error(err))

		return fmt.Errorf("could not reserve probe budget: %w", err)
	}

	err = w.service.Process(ctx, job.Args)
	w.release(cost)
	if err != nil {
		switch {
		case errors.Is(err, serrors.ErrConflict):
			metrics.JobsProcessed.WithLabelValues(string(job.Args.ReportKind), "canceled").Inc()
			logger.Debug(ctx, "no pending reports for job", zap.Error(err))

			return river.JobCancel(err) //nolint: wrapcheck
		case errors.Is(err, serrors.ErrBadRequest):
			metrics.JobsProcessed.WithLabelValues(string(job.Args.ReportKind), "canceled").Inc()
			logger.Warn(ctx, "invalid report job", zap.Error(err))

			return river.JobCancel(err) //nolint: wrapcheck
		case errors.Is(err, serrors.ErrRateLimited):
			metrics.JobsProcessed.WithLabelValues(string(job.Args.ReportKind), "snoozed").Inc()

			return river.JobSnooze(w.options.SnoozeDuration) //nolint: wrapcheck
		}

		metrics.JobsProcessed.WithLabelValues(string(job.Args.ReportKind), "failed").Inc()
		logger.Error(ctx, "error in processing report", zap.Error(err))

		return fmt.Errorf("could not process report: %w", err)
	}

	metrics.JobsProcessed.WithLabelValues(string(job.Args.ReportKind), "completed").Inc()
	logger.Info(ctx, "report processed successfully")

	return nil
}

// reserve takes cost probes from the budget, or blocks until another job
// releases enough of it. It returns the reserved amount, which is cost capped
// at the budget, and ErrRateLimited when SnoozeDuration elapses first.
func (w *ReportWorker) reserve(ctx context.Context, cost int) (int, error) {
	cost = max(1, min(cost, w.options.MaxInFlightProbes))
	deadline := time.NewTimer(w.options.SnoozeDuration)
	defer deadline.Stop()

	for {
		w.mu.Lock()
		if w.inFlight+cost <= w.options.MaxInFlightProbes {
			w.inFlight += cost
			logger.Debug(ctx, "reserved probe budget",
				zap.Int("cost", cost),
				zap.Int("inFlight", w.inFlight),
				zap.Int("budget", w.options.MaxInFlightProbes))
			w.mu.Unlock()

			return cost, nil
		}

		inFlight := w.inFlight
		w.mu.Unlock()

		logger.Debug(ctx, "waiting for probe budget",
			zap.Int("cost", cost),
			zap.Int("inFlight", inFlight),
			zap.Int("budget", w.options.MaxInFlightProbes))

		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("timeout waiting for probe budget: %w", ctx.Err())
		case <-w.finishedChan:
			continue
		case <-deadline.C:
			return 0, serrors.With(serrors.ErrRateLimited, "probe budget exhausted")
		}
	}
}

// release returns cost probes to the budget and wakes one waiter, if any.
func (w *ReportWorker) release(cost int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.inFlight = max(0, w.inFlight-cost)

	select {
	case w.finishedChan <- struct{}{}:
	default:
	}
}
