// Package worker runs the background processing of report jobs on River.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sectoolkit/internal/config"
	"sectoolkit/internal/reports"
	"sectoolkit/pkg/logger"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap/exp/zapslog"
)

const (
	DefaultMaxWorkers        = 10
	DefaultMaxInFlightProbes = 500
	DefaultSnoozeDuration    = 5 * time.Second
)

// Options configure the River client and the report worker.
type Options struct {
	// MaxWorkers is the number of jobs processed concurrently.
	MaxWorkers int
	// MaxInFlightProbes bounds the probes of all running jobs together.
	MaxInFlightProbes int
	// SnoozeDuration is how long a job waiting for probe budget is deferred.
	SnoozeDuration time.Duration
	// JobTimeout bounds a single job. Zero uses River's default.
	JobTimeout time.Duration
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxWorkers:        cfg.Worker.MaxWorkers,
		MaxInFlightProbes: cfg.Worker.MaxInFlightProbes,
		SnoozeDuration:    cfg.Worker.SnoozeDuration,
		JobTimeout:        cfg.Worker.JobTimeout,
	}
}

// Start creates a River client processing report jobs with the service and
// starts it. The caller stops the returned client on shutdown.
func Start(ctx context.Context,
	dbPool *pgxpool.Pool,
	service reports.Service,
	options Options) (*river.Client[pgx.Tx], error) {
	if options.MaxWorkers <= 0 {
		options.MaxWorkers = DefaultMaxWorkers
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewReportWorker(service, options))

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: options.MaxWorkers},
		},
		Workers: workers,
		Logger:  slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
