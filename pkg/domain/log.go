package domain

import "time"

// LogFormat identifies the format a log line was parsed as.
type LogFormat string

const (
	LogFormatAuto    LogFormat = "auto"
	LogFormatSyslog  LogFormat = "syslog"
	LogFormatRFC5424 LogFormat = "rfc5424"
	LogFormatAccess  LogFormat = "access"
	LogFormatJSON    LogFormat = "json"
	LogFormatUnknown LogFormat = "unknown"
)

// LogEntry is a normalized log line.
type LogEntry struct {
	Format    LogFormat `json:"format"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	Host      string    `json:"host,omitempty"`
	Program   string    `json:"program,omitempty"`
	PID       int       `json:"pid,omitempty"`
	Level     string    `json:"level,omitempty"`
	Message   string    `json:"message"`

	// Access log fields.
	RemoteIP  string `json:"remoteIp,omitempty"`
	Method    string `json:"method,omitempty"`
	Path      string `json:"path,omitempty"`
	Protocol  string `json:"protocol,omitempty"`
	Status    int    `json:"status,omitempty"`
	Bytes     int64  `json:"bytes,omitempty"`
	Referer   string `json:"referer,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`

	// Raw is the unmodified input line.
	Raw string `json:"-"`
}

// Counter is a labelled count used for top-N breakdowns.
type Counter struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// LogReport summarizes the analysis of a log stream.
type LogReport struct {
	Source       string            `json:"source,omitempty"`
	Lines        int               `json:"lines"`
	Parsed       int               `json:"parsed"`
	Unparsed     int               `json:"unparsed"`
	Formats      map[LogFormat]int `json:"formats"`
	First        time.Time         `json:"first,omitempty"`
	Last         time.Time         `json:"last,omitempty"`
	FailedLogins int               `json:"failedLogins"`
	StatusCodes  map[int]int       `json:"statusCodes,omitempty"`
	TopIPs       []Counter         `json:"topIps,omitempty"`
	Findings     []Finding         `json:"findings,omitempty"`
}
