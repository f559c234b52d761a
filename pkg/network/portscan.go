package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/logger"
	"sectoolkit/pkg/metrics"
	"sectoolkit/pkg/serrors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout       = 2 * time.Second
	DefaultConcurrency   = 100
	DefaultBannerTimeout = 2 * time.Second
	DefaultBannerSize    = 512
)

// httpProbePorts are asked for a response when they stay silent after connect.
var httpProbePorts = map[int]struct{}{80: {}, 3000: {}, 8000: {}, 8008: {}, 8080: {}, 8888: {}} //nolint: gochecknoglobals

// Dialer opens TCP connections. *net.Dialer satisfies it.
//
//go:generate mockgen -package mocknetwork -source=portscan.go -destination=mock/mocknetwork.go
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Options configures a PortScanner. Zero values are replaced by defaults.
type Options struct {
	// Timeout bounds a single connect attempt.
	Timeout time.Duration
	// Concurrency is the maximum number of simultaneous probes.
	Concurrency int
	// RateLimit caps probes per second; 0 disables limiting.
	RateLimit float64
	// GrabBanner reads the service greeting from open ports.
	GrabBanner bool
	// BannerTimeout bounds the banner read.
	BannerTimeout time.Duration
	// BannerSize is the maximum number of banner bytes kept.
	BannerSize int
	// Retries is how many extra attempts a filtered port gets.
	Retries int
	// Dialer replaces the default net.Dialer.
	Dialer Dialer
	// OnResult is called once per probed port. Calls are serialized.
	OnResult func(domain.PortResult)
}

// PortScanner performs TCP connect scans.
type PortScanner struct {
	opts    Options
	limiter *rate.Limiter
	tracer  trace.Tracer
	// resultMu serializes OnResult callbacks.
	resultMu sync.Mutex
}

// NewPortScanner creates a PortScanner with opts.
func NewPortScanner(opts Options) *PortScanner {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	if opts.BannerTimeout <= 0 {
		opts.BannerTimeout = DefaultBannerTimeout
	}

	if opts.BannerSize <= 0 {
		opts.BannerSize = DefaultBannerSize
	}

	if opts.Retries < 0 {
		opts.Retries = 0
	}

	if opts.Dialer == nil {
		opts.Dialer = &net.Dialer{}
	}

	s := &PortScanner{
		opts:   opts,
		tracer: otel.Tracer("sectoolkit/pkg/network"),
	}
	if opts.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return s
}

// ScanPort probes a single TCP port. The port is open when the handshake
// completes, closed when the host refuses the connection and filtered
// otherwise.
func (s *PortScanner) ScanPort(ctx context.Context, host string, port int) domain.PortResult {
	res := domain.PortResult{
		Host:    host,
		Port:    port,
		State:   domain.PortFiltered,
		Service: ServiceName(port),
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	var (
		conn  net.Conn
		err   error
		start time.Time
	)
	for attempt := 0; attempt <= s.opts.Retries; attempt++ {
		if s.limiter != nil {
			if err = s.limiter.Wait(ctx); err != nil {
				break
			}
		}

		dialCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
		start = time.Now()
		conn, err = s.opts.Dialer.DialContext(dialCtx, "tcp", addr)
		res.Latency = time.Since(start)
		cancel()

		if err == nil || isRefused(err) || ctx.Err() != nil {
			break
		}
	}

	switch {
	case err == nil:
		res.State = domain.PortOpen
		if s.opts.GrabBanner {
			res.Banner = s.grabBanner(conn, port)
		}

		_ = conn.Close()
	case isRefused(err):
		res.State = domain.PortClosed
	default:
		res.Error = err.Error()
	}

	metrics.PortsProbed.WithLabelValues(string(res.State)).Inc()
	metrics.ProbeDuration.Observe(res.Latency.Seconds())

	return res
}

func isRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}

// grabBanner reads the service greeting. Silent HTTP ports get a HEAD request.
func (s *PortScanner) grabBanner(conn net.Conn, port int) string {
	buf := make([]byte, s.opts.BannerSize)
	_ = conn.SetDeadline(time.Now().Add(s.opts.BannerTimeout))

	n, _ := conn.Read(buf)
	if n == 0 {
		if _, ok := httpProbePorts[port]; !ok {
			return ""
		}

		if _, err := conn.Write([]byte("HEAD / HTTP/1.0\r\n\r\n")); err != nil {
			return ""
		}

		n, _ = conn.Read(buf)
	}

	return sanitizeBanner(buf[:n])
}

// sanitizeBanner keeps the first line of b with non-printable runes removed.
func sanitizeBanner(b []byte) string {
	line, _, _ := strings.Cut(string(b), "\n")

	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == unicode.ReplacementChar || !unicode.IsPrint(r) {
			return -1
		}

		return r
	}, line))
}

// Scan probes ports on host concurrently and returns the results sorted by
// port. Duplicate ports are probed once. Cancelling ctx stops the scan and
// returns the context error.
func (s *PortScanner) Scan(ctx context.Context, host string, ports []int) (*domain.PortScan, error) {
	if host == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "host is required")
	}

	if len(ports) == 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "no ports to scan")
	}

	for _, p := range ports {
		if p < MinPort || p > MaxPort {
			return nil, serrors.With(serrors.ErrBadRequest, "invalid port %d", p)
		}
	}
	ports = slices.Compact(slices.Sorted(slices.Values(ports)))

	ctx, span := s.tracer.Start(ctx, "PortScanner.Scan", trace.WithAttributes(
		attribute.String("host", host),
		attribute.Int("ports", len(ports)),
	))
	defer span.End()

	ctx = logger.WithFields(ctx, zap.String("host", host))
	logger.Debug(ctx, "port scan started", zap.Int("ports", len(ports)), zap.Int("concurrency", s.opts.Concurrency))

	scan := &domain.PortScan{
		Host:      host,
		Ports:     make([]domain.PortResult, len(ports)),
		StartedAt: time.Now().UTC(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, port := range ports {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err //nolint: wrapcheck
			}

			scan.Ports[i] = s.ScanPort(gctx, host, port)
			s.emit(scan.Ports[i])

			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan interrupted")

		return nil, fmt.Errorf("port scan of %s interrupted: %w", host, err)
	}

	scan.FinishedAt = time.Now().UTC()
	slices.SortFunc(scan.Ports, func(a, b domain.PortResult) int { return a.Port - b.Port })
	for _, p := range scan.Ports {
		switch p.State {
		case domain.PortOpen:
			scan.Open++
		case domain.PortClosed:
			scan.Closed++
		case domain.PortFiltered:
			scan.Filtered++
		}
	}

	span.SetAttributes(attribute.Int("open", scan.Open))
	logger.Debug(ctx, "port scan finished",
		zap.Int("open", scan.Open),
		zap.Int("closed", scan.Closed),
		zap.Int("filtered", scan.Filtered),
		zap.Duration("duration", scan.Duration()))

	return scan, nil
}

func (s *PortScanner) emit(res domain.PortResult) {
	if s.opts.OnResult == nil {
		return
	}

	s.resultMu.Lock()
	defer s.resultMu.Unlock()

	s.opts.OnResult(res)
}

// ScanTargets scans every target in turn with the same port list.
func (s *PortScanner) ScanTargets(ctx context.Context, targets []string, ports []int) ([]domain.PortScan, error) {
	scans := make([]domain.PortScan, 0, len(targets))
	for _, target := range targets {
		scan, err := s.Scan(ctx, target, ports)
		if err != nil {
			return scans, err
		}

		scans = append(scans, *scan)
	}

	return scans, nil
}
