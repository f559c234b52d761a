package domain

import "time"

// PortState is the observed state of a TCP port.
type PortState string

const (
	// PortOpen means the TCP handshake completed.
	PortOpen PortState = "open"
	// PortClosed means the host actively refused the connection.
	PortClosed PortState = "closed"
	// PortFiltered means no answer arrived before the timeout, or the network was unreachable.
	PortFiltered PortState = "filtered"
)

// PortResult describes a single probed port.
type PortResult struct {
	Host    string        `json:"host"`
	Port    int           `json:"port"`
	State   PortState     `json:"state"`
	Service string        `json:"service,omitempty"`
	Banner  string        `json:"banner,omitempty"`
	Latency time.Duration `json:"latency"`
	Error   string        `json:"error,omitempty"`
}

// PortScan is the aggregated result of scanning a list of ports on one host.
type PortScan struct {
	Host       string       `json:"host"`
	Ports      []PortResult `json:"ports"`
	Open       int          `json:"open"`
	Closed     int          `json:"closed"`
	Filtered   int          `json:"filtered"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
}

// OpenPorts returns only the results whose state is open.
func (s *PortScan) OpenPorts() []PortResult {
	out := make([]PortResult, 0, s.Open)
	for _, p := range s.Ports {
		if p.State == PortOpen {
			out = append(out, p)
		}
	}

	return out
}

// Duration returns how long the scan took.
func (s *PortScan) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
