// Package metrics holds the prometheus collectors shared by the toolkit's
// utilities. Collectors register with the default registry, which the API
// server exposes on its metrics path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sectoolkit"

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

var (
	// PortsProbed counts probed ports by resulting state.
	PortsProbed = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint: gochecknoglobals
		Namespace: namespace,
		Subsystem: "portscan",
		Name:      "ports_probed_total",
		Help:      "Number of TCP ports probed, by state.",
	}, []string{"state"})

	// ProbeDuration observes single port probe latency.
	ProbeDuration = promauto.NewHistogram(prometheus.HistogramOpts{ //nolint: gochecknoglobals
		Namespace: namespace,
		Subsystem: "portscan",
		Name:      "probe_duration_seconds",
		Help:      "Latency of single TCP port probes.",
		Buckets:   DefaultBuckets,
	})

	// TLSChecks counts certificate validations by outcome.
	TLSChecks = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint: gochecknoglobals
		Namespace: namespace,
		Subsystem: "tls",
		Name:      "checks_total",
		Help:      "Number of TLS endpoint validations, by outcome.",
	}, []string{"outcome"})

	// LogLines counts processed log lines by detected format.
	LogLines = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint: gochecknoglobals
		Namespace: namespace,
		Subsystem: "logs",
		Name:      "lines_total",
		Help:      "Number of processed log lines, by format.",
	}, []string{"format"})

	// JobsProcessed counts background report jobs by kind and outcome.
	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint: gochecknoglobals
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "jobs_total",
		Help:      "Number of processed report jobs, by kind and outcome.",
	}, []string{"kind", "outcome"})
)
