package domain

// Severity ranks how serious a finding is.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityNames = [...]string{"info", "low", "medium", "high", "critical"} //nolint: gochecknoglobals

// String returns the lower-case name of the severity.
func (s Severity) String() string {
	if s < SeverityInfo || s > SeverityCritical {
		return "unknown"
	}

	return severityNames[s]
}

// ParseSeverity converts a name produced by String back to a Severity.
// Unknown names map to SeverityInfo and false.
func ParseSeverity(name string) (Severity, bool) {
	for i, n := range severityNames {
		if n == name {
			return Severity(i), true
		}
	}

	return SeverityInfo, false
}

// Finding is a single normalized observation produced by any of the utilities.
type Finding struct {
	// Rule is a stable machine readable identifier, e.g. "tls.expired".
	Rule string `json:"rule"`
	// Severity ranks the finding.
	Severity Severity `json:"severity"`
	// Message is a human readable description.
	Message string `json:"message"`
	// Target is the asset the finding applies to (host, IP, file).
	Target string `json:"target,omitempty"`
	// Evidence holds the raw data that triggered the finding.
	Evidence string `json:"evidence,omitempty"`
	// Count is how many times the finding was observed (log analysis).
	Count int `json:"count,omitempty"`
}

// MaxSeverity returns the highest severity among findings, or SeverityInfo
// when there are none.
func MaxSeverity(findings []Finding) Severity {
	maxSev := SeverityInfo
	for _, f := range findings {
		if f.Severity > maxSev {
			maxSev = f.Severity
		}
	}

	return maxSev
}
