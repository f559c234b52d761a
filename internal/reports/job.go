package reports

import (
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/network"
	"sectoolkit/pkg/storage"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// JobArgs contains the arguments for a report job submitted to River.
// All fields form the unique key so one job serves every identical request.
type JobArgs struct {
	ReportKind domain.ReportKind   `json:"kind"   river:"unique"`
	Target     string              `json:"target" river:"unique"`
	Params     domain.ReportParams `json:"params" river:"unique"`

	// maxAttempts configures the maximum number of times River should retry the job.
	maxAttempts int
	// uniqueJobPeriod defines the lookback window during which a job with the
	// same arguments is considered a duplicate across the specified states.
	uniqueJobPeriod time.Duration
}

// Kind returns the River job kind used to register and dispatch the report worker.
func (args JobArgs) Kind() string { return "ReportJob" }

// InsertOpts returns the River options that control how the job is enqueued,
// including the maximum retry attempts and uniqueness constraints to prevent
// duplicate jobs for the same key across multiple job states.
func (args JobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.maxAttempts,
		// make sure we only have one job per key in any state
		UniqueOpts: river.UniqueOpts{
			ByArgs:   true,
			ByPeriod: args.uniqueJobPeriod,
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

// Key returns the storage key of the reports the job settles.
func (args JobArgs) Key() storage.ReportKey {
	return storage.ReportKey{Kind: args.ReportKind, Target: args.Target, Params: args.Params}
}

// Cost estimates how many probes the job opens: one per port for port scans
// and a single handshake for TLS checks.
func (args JobArgs) Cost() int {
	if args.ReportKind != domain.ReportKindPortScan {
		return 1
	}

	ports, err := network.ParsePorts(args.Params.Ports)
	if err != nil || len(ports) == 0 {
		return 1
	}

	return len(ports)
}
