package analysis

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"regexp"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/logger"
	"sectoolkit/pkg/metrics"
	"sectoolkit/pkg/serrors"
	"strconv"
	"strings"
	"time"

	faster "github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

const (
	DefaultBruteForceThreshold = 5
	DefaultScanThreshold       = 20
	DefaultTopN                = 10

	maxLineSize = 1 << 20
)

//nolint: gochecknoglobals
var (
	syslogRe  = regexp.MustCompile(`^(?:<(\d{1,3})>)?([A-Z][a-z]{2}\s+\d{1,2}\s\d{2}:\d{2}:\d{2})\s(\S+)\s([^:\[\s]+)(?:\[(\d+)\])?:\s?(.*)$`)
	rfc5424Re = regexp.MustCompile(`^<(\d{1,3})>1\s(\S+)\s(\S+)\s(\S+)\s(\S+)\s(\S+)\s(-|(?:\[[^\]]*\])+)\s?(.*)$`)
	accessRe  = regexp.MustCompile(`^(\S+)\s\S+\s(\S+)\s\[([^\]]+)\]\s"([^"]*)"\s(\d{3})\s(\d+|-)(?:\s"([^"]*)"\s"([^"]*)")?`)
)

//nolint: gochecknoglobals
var (
	failedLoginRe = regexp.MustCompile(`Failed (?:password|publickey) for (?:invalid user )?(\S+) from (\S+)`)
	invalidUserRe = regexp.MustCompile(`Invalid user (\S*) from (\S+)`)
	pamFailureRe  = regexp.MustCompile(`authentication failure;.*rhost=(\S+)`)
	acceptedRe    = regexp.MustCompile(`Accepted (?:password|publickey) for (\S+) from (\S+)`)
	sudoFailureRe = regexp.MustCompile(`incorrect password attempts?|sudo:.*authentication failure`)
	tokenRe       = regexp.MustCompile(`[A-Za-z0-9+/=_\-]{24,}`)
)

var syslogLevels = [...]string{"emerg", "alert", "crit", "err", "warning", "notice", "info", "debug"} //nolint: gochecknoglobals

// LogOptions configures a LogParser. Zero values are replaced by defaults.
type LogOptions struct {
	// Format forces a line format; auto detects it per line.
	Format domain.LogFormat
	// BruteForceThreshold is the failed logins per IP that raise a brute force finding.
	BruteForceThreshold int
	// ScanThreshold is the 404 responses per IP that raise a scanning finding.
	ScanThreshold int
	// TopN bounds the top IP list.
	TopN int
	// Rules replaces the embedded signature set when non-nil.
	Rules []Rule
	// ExtraRules are appended to the signature set.
	ExtraRules []Rule
	// Now supplies the year for syslog timestamps, which carry none.
	Now func() time.Time
}

// LogParser parses and analyzes log streams.
type LogParser struct {
	opts  LogOptions
	rules []compiledRule
}

// NewLogParser creates a LogParser. Invalid rules are rejected with ErrBadRequest.
func NewLogParser(opts LogOptions) (*LogParser, error) {
	if opts.Format == "" {
		opts.Format = domain.LogFormatAuto
	}

	switch opts.Format {
	case domain.LogFormatAuto, domain.LogFormatSyslog, domain.LogFormatRFC5424, domain.LogFormatAccess, domain.LogFormatJSON:
	default:
		return nil, serrors.With(serrors.ErrBadRequest, "unknown log format %q", opts.Format)
	}

	if opts.BruteForceThreshold <= 0 {
		opts.BruteForceThreshold = DefaultBruteForceThreshold
	}

	if opts.ScanThreshold <= 0 {
		opts.ScanThreshold = DefaultScanThreshold
	}

	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules()
	}

	compiled, err := compileRules(append(rules, opts.ExtraRules...))
	if err != nil {
		return nil, err
	}

	return &LogParser{opts: opts, rules: compiled}, nil
}

// ParseLine parses a single line in the configured format. Lines no format
// recognizes return ErrBadRequest.
func (p *LogParser) ParseLine(line string) (domain.LogEntry, error) {
	line = strings.TrimRight(line, "\r\n")
	format := p.opts.Format
	if format == domain.LogFormatAuto {
		format = detectFormat(line)
	}

	var (
		entry domain.LogEntry
		ok    bool
		err   error
	)
	switch format {
	case domain.LogFormatJSON:
		entry, err = parseJSON(line)
		ok = err == nil
	case domain.LogFormatRFC5424:
		entry, ok = parseRFC5424(line)
	case domain.LogFormatAccess:
		entry, ok = parseAccess(line)
	case domain.LogFormatSyslog:
		entry, ok = p.parseSyslog(line)
	}

	if !ok {
		if err == nil {
			err = errors.New("no format matched")
		}

		return domain.LogEntry{Format: domain.LogFormatUnknown, Message: line, Raw: line},
			serrors.Wrap(serrors.ErrBadRequest, err, "unrecognized log line")
	}

	entry.Format = format
	entry.Raw = line

	return entry, nil
}

func detectFormat(line string) domain.LogFormat {
	switch {
	case strings.HasPrefix(line, "{"):
		return domain.LogFormatJSON
	case rfc5424Re.MatchString(line):
		return domain.LogFormatRFC5424
	case accessRe.MatchString(line):
		return domain.LogFormatAccess
	default:
		return domain.LogFormatSyslog
	}
}

func (p *LogParser) parseSyslog(line string) (domain.LogEntry, bool) {
	m := syslogRe.FindStringSubmatch(line)
	if m == nil {
		return domain.LogEntry{}, false
	}

	e := domain.LogEntry{Host: m[3], Program: m[4], Message: m[6]}
	if m[1] != "" {
		e.Level = levelFromPRI(m[1])
	}

	if m[5] != "" {
		e.PID, _ = strconv.Atoi(m[5])
	}

	now := p.opts.Now()
	if ts, err := time.ParseInLocation("Jan _2 15:04:05", strings.Join(strings.Fields(m[2]), " "), now.Location()); err == nil {
		ts = ts.AddDate(now.Year(), 0, 0)
		// a December line read in January belongs to last year
		if ts.After(now.Add(24 * time.Hour)) {
			ts = ts.AddDate(-1, 0, 0)
		}

		e.Timestamp = ts
	}

	return e, true
}

func levelFromPRI(pri string) string {
	n, err := strconv.Atoi(pri)
	if err != nil || n > 191 {
		return ""
	}

	return syslogLevels[n%8]
}

func parseRFC5424(line string) (domain.LogEntry, bool) {
	m := rfc5424Re.FindStringSubmatch(line)
	if m == nil {
		return domain.LogEntry{}, false
	}

	e := domain.LogEntry{
		Level:   levelFromPRI(m[1]),
		Host:    nilValue(m[3]),
		Program: nilValue(m[4]),
		Message: strings.TrimPrefix(m[8], "\ufeff"),
	}
	if ts, err := time.Parse(time.RFC3339Nano, m[2]); err == nil {
		e.Timestamp = ts
	}

	e.PID, _ = strconv.Atoi(m[5])

	return e, true
}

func nilValue(s string) string {
	if s == "-" {
		return ""
	}

	return s
}

func parseAccess(line string) (domain.LogEntry, bool) {
	m := accessRe.FindStringSubmatch(line)
	if m == nil {
		return domain.LogEntry{}, false
	}

	e := domain.LogEntry{
		RemoteIP:  m[1],
		Message:   m[4],
		Referer:   nilValue(m[7]),
		UserAgent: nilValue(m[8]),
	}
	if ts, err := time.Parse("02/Jan/2006:15:04:05 -0700", m[3]); err == nil {
		e.Timestamp = ts
	}

	parts := strings.Fields(m[4])
	if len(parts) > 0 {
		e.Method = parts[0]
	}

	if len(parts) > 1 {
		e.Path = parts[1]
	}

	if len(parts) > 2 {
		e.Protocol = parts[2]
	}

	e.Status, _ = strconv.Atoi(m[5])
	e.Bytes, _ = strconv.ParseInt(m[6], 10, 64)

	return e, true
}

// parseJSON maps well-known keys of structured loggers onto a LogEntry.
func parseJSON(line string) (domain.LogEntry, error) {
	var e domain.LogEntry
	d := jx.DecodeStr(line)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch strings.ToLower(string(key)) {
		case "time", "timestamp", "ts", "@timestamp":
			ts, err := readTime(d)
			e.Timestamp = ts

			return err
		case "level", "severity", "lvl":
			return readString(d, &e.Level)
		case "msg", "message":
			return readString(d, &e.Message)
		case "host", "hostname":
			return readString(d, &e.Host)
		case "app", "service", "logger", "program":
			return readString(d, &e.Program)
		case "pid":
			var s string
			if err := readString(d, &s); err != nil {
				return err
			}

			e.PID, _ = strconv.Atoi(s)

			return nil
		case "ip", "remote_addr", "remote_ip", "client_ip", "src_ip":
			return readString(d, &e.RemoteIP)
		case "method":
			return readString(d, &e.Method)
		case "path", "uri", "url":
			return readString(d, &e.Path)
		case "status", "status_code":
			var s string
			if err := readString(d, &s); err != nil {
				return err
			}

			e.Status, _ = strconv.Atoi(s)

			return nil
		case "user_agent", "useragent", "ua":
			return readString(d, &e.UserAgent)
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return domain.LogEntry{}, faster.Wrap(err, "decode json log line")
	}

	e.Level = strings.ToLower(e.Level)

	return e, nil
}

// readString reads a string, number or bool value as text. Other values are skipped.
func readString(d *jx.Decoder, dst *string) error {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		*dst = s

		return err //nolint: wrapcheck
	case jx.Number:
		f, err := d.Float64()
		if err != nil {
			return err //nolint: wrapcheck
		}

		*dst = strconv.FormatFloat(f, 'f', -1, 64)

		return nil
	case jx.Bool:
		b, err := d.Bool()
		*dst = strconv.FormatBool(b)

		return err //nolint: wrapcheck
	default:
		return d.Skip() //nolint: wrapcheck
	}
}

// readTime accepts RFC 3339 strings and unix timestamps in seconds or milliseconds.
func readTime(d *jx.Decoder) (time.Time, error) {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return time.Time{}, err //nolint: wrapcheck
		}

		ts, _ := time.Parse(time.RFC3339Nano, s)

		return ts, nil
	case jx.Number:
		f, err := d.Float64()
		if err != nil {
			return time.Time{}, err //nolint: wrapcheck
		}

		if f > 1e12 {
			f /= 1000
		}

		sec, frac := math.Modf(f)

		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
	default:
		return time.Time{}, d.Skip() //nolint: wrapcheck
	}
}

// Parse streams r line by line and calls fn for every non-blank line. Lines
// that cannot be parsed are passed with format unknown. Lines longer than
// maxLineSize are cut to that size and passed as unknown. An error from fn
// stops parsing and is returned.
func (p *LogParser) Parse(ctx context.Context, r io.Reader, fn func(domain.LogEntry) error) error {
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("log parsing interrupted: %w", err)
		}

		line, truncated, err := readLine(br)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("could not read log: %w", err)
		}

		if strings.TrimSpace(line) != "" {
			entry := domain.LogEntry{Format: domain.LogFormatUnknown, Message: line, Raw: line}
			if !truncated {
				entry, _ = p.ParseLine(line)
			}
			metrics.LogLines.WithLabelValues(string(entry.Format)).Inc()

			if err := fn(entry); err != nil {
				return err
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

// readLine returns the next line without its line ending. Bytes beyond
// maxLineSize are discarded up to the next newline and truncated is set.
// io.EOF is returned together with the last line.
func readLine(br *bufio.Reader) (string, bool, error) {
	var (
		buf   []byte
		total int
	)
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return string(buf), total > maxLineSize, err //nolint: wrapcheck
		}

		if room := maxLineSize - len(buf); room > 0 {
			buf = append(buf, chunk[:min(len(chunk), room)]...)
		}
		total += len(chunk)

		if !isPrefix {
			return string(buf), total > maxLineSize, nil
		}
	}
}

// Analyze parses r and summarizes it into a report with findings.
func (p *LogParser) Analyze(ctx context.Context, r io.Reader) (*domain.LogReport, error) {
	agg := newAggregator(p)
	if err := p.Parse(ctx, r, func(e domain.LogEntry) error {
		agg.add(&e)

		return nil
	}); err != nil {
		return nil, err
	}

	report := agg.report()
	logger.Debug(ctx, "log analyzed",
		zap.Int("lines", report.Lines),
		zap.Int("unparsed", report.Unparsed),
		zap.Int("findings", len(report.Findings)))

	return report, nil
}

// AnalyzeFile analyzes the log file at path.
func (p *LogParser) AnalyzeFile(ctx context.Context, path string) (*domain.LogReport, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, serrors.Wrap(serrors.ErrNotFound, err, "log file %s not found", path)
	}

	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}
	defer f.Close()

	report, err := p.Analyze(logger.WithFields(ctx, zap.String("path", path)), f)
	if err != nil {
		return nil, err
	}

	report.Source = path

	return report, nil
}
