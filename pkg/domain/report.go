package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReportID uniquely identifies a stored report.
// It wraps uuid.UUID to provide type safety at the domain layer.
type ReportID uuid.UUID

// String returns the canonical UUID representation of the ID.
func (id ReportID) String() string { return uuid.UUID(id).String() }

// ReportKind names the utility that produces a report.
type ReportKind string

const (
	// ReportKindPortScan is produced by the port scanner for a single host.
	ReportKindPortScan ReportKind = "PORT_SCAN"
	// ReportKindTLSCheck is produced by the SSL validator for a host and port.
	ReportKindTLSCheck ReportKind = "TLS_CHECK"
)

// Valid reports whether k is a known report kind.
func (k ReportKind) Valid() bool {
	return k == ReportKindPortScan || k == ReportKindTLSCheck
}

// ReportStatus represents the lifecycle state of a report.
type ReportStatus string

const (
	// ReportStatusPending indicates the report has been enqueued but not processed yet.
	ReportStatusPending ReportStatus = "PENDING"
	// ReportStatusCompleted indicates processing finished and a result is available.
	ReportStatusCompleted ReportStatus = "COMPLETED"
	// ReportStatusFailed indicates processing ended with an error; see LastError and Attempts for details.
	ReportStatusFailed ReportStatus = "FAILED"
)

// ReportParams carries the tool specific parameters of a report request.
type ReportParams struct {
	// Ports is a port specification understood by network.ParsePorts (port scans only).
	Ports string `json:"ports,omitempty"`
	// Port is the TLS port to connect to (TLS checks only).
	Port int `json:"port,omitempty"`
}

// ReportResult holds the outcome of a report. Exactly one field is set,
// matching the report kind.
type ReportResult struct {
	PortScan *PortScan   `json:"portScan,omitempty"`
	TLS      *CertReport `json:"tls,omitempty"`
}

// Report represents a single asynchronous tool run requested by a user and its
// current state.
type Report struct {
	// ID is the unique identifier of the report.
	ID ReportID `json:"id"`
	// UserID is the identifier of the user who requested the report.
	UserID UserID `json:"userId"`

	// Kind selects the utility that processes the report.
	Kind ReportKind `json:"kind"`
	// Target is the normalized host the tool runs against.
	Target string `json:"target"`
	// Params holds tool specific options.
	Params ReportParams `json:"params"`
	// Status is the current lifecycle state of the report.
	Status ReportStatus `json:"status"`
	// Result contains the latest known outcome.
	Result ReportResult `json:"result"`

	// Attempts is the number of times the system has tried to process this report.
	Attempts uint `json:"attempts"`
	// LastError stores the most recent processing error, if any.
	LastError string `json:"-"`

	// CreatedAt is the time when the report was requested.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the time when the report was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
	// DeletedAt marks when the report was soft-deleted; zero value means not deleted.
	DeletedAt time.Time `json:"-"`
}
