package report

import (
	"fmt"
	"io"
	"maps"
	"sectoolkit/pkg/domain"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

//nolint: gochecknoglobals
var (
	colorCritical = lipgloss.Color("#EF4444")
	colorHigh     = lipgloss.Color("#F97316")
	colorMedium   = lipgloss.Color("#F59E0B")
	colorLow      = lipgloss.Color("#06B6D4")
	colorOK       = lipgloss.Color("#10B981")
	colorMuted    = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle = lipgloss.NewStyle().Foreground(colorMuted).Width(18)
	okStyle    = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
	badStyle   = lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

func severityStyle(s domain.Severity) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch s {
	case domain.SeverityCritical:
		return style.Foreground(colorCritical)
	case domain.SeverityHigh:
		return style.Foreground(colorHigh)
	case domain.SeverityMedium:
		return style.Foreground(colorMedium)
	case domain.SeverityLow:
		return style.Foreground(colorLow)
	default:
		return style.Foreground(colorMuted)
	}
}

// TextWriter renders results as styled terminal text.
type TextWriter struct {
	w   io.Writer
	now func() time.Time
	err error
}

// NewTextWriter creates a TextWriter. Colors are dropped automatically when
// the output is not a terminal.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w, now: time.Now}
}

func (t *TextWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}

	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *TextWriter) title(s string) {
	t.printf("%s\n", titleStyle.Render(s))
}

func (t *TextWriter) field(label string, value any) {
	t.printf("%s %v\n", labelStyle.Render(label), value)
}

func (t *TextWriter) flag(label string, ok bool, yes, no string) {
	if ok {
		t.field(label, okStyle.Render(yes))

		return
	}

	t.field(label, badStyle.Render(no))
}

func (t *TextWriter) findings(findings []domain.Finding) {
	if len(findings) == 0 {
		t.printf("%s\n", okStyle.Render("no findings"))

		return
	}

	t.printf("\n%s\n", titleStyle.Render("Findings"))
	for _, f := range findings {
		sev := severityStyle(f.Severity).Render(fmt.Sprintf("%-8s", strings.ToUpper(f.Severity.String())))
		line := sev + " " + f.Message
		if f.Target != "" {
			line += dimStyle.Render(" [" + f.Target + "]")
		}

		if f.Count > 1 {
			line += dimStyle.Render(" x" + humanize.Comma(int64(f.Count)))
		}

		t.printf("  %s\n", line)
		if f.Evidence != "" {
			t.printf("           %s\n", dimStyle.Render(f.Evidence))
		}
	}
}

// Write renders v. Unknown types are rejected.
func (t *TextWriter) Write(v any) error {
	switch v := v.(type) {
	case *domain.PortScan:
		t.portScan(v)
	case []domain.PortScan:
		for i := range v {
			if i > 0 {
				t.printf("\n")
			}

			t.portScan(&v[i])
		}
	case *domain.CertReport:
		t.certReport(v)
	case *domain.PasswordReport:
		t.passwordReport(v)
	case *domain.LogReport:
		t.logReport(v)
	case domain.IPInfo:
		t.ipInfo(v)
	case domain.NetworkInfo:
		t.networkInfo(v)
	case []domain.Digest:
		for _, d := range v {
			if d.Source != "" && d.Source != "string" {
				t.printf("%s  %s  %s\n", d.Hex, dimStyle.Render(d.Algorithm), d.Source)
			} else {
				t.printf("%s  %s\n", d.Hex, dimStyle.Render(d.Algorithm))
			}
		}
	case []domain.Report:
		for i := range v {
			t.reportLine(&v[i])
		}
	case domain.LogEntry:
		t.logEntry(v)
	case []string:
		for _, s := range v {
			t.printf("%s\n", s)
		}
	case *domain.Report:
		t.reportLine(v)
		switch {
		case v.Result.PortScan != nil:
			t.portScan(v.Result.PortScan)
		case v.Result.TLS != nil:
			t.certReport(v.Result.TLS)
		}
	default:
		return fmt.Errorf("no text renderer for %T", v)
	}

	return t.err
}

func (t *TextWriter) portScan(s *domain.PortScan) {
	t.title("Port scan of " + s.Host)
	t.printf("%s open, %s closed, %s filtered in %s\n\n",
		okStyle.Render(strconv.Itoa(s.Open)),
		humanize.Comma(int64(s.Closed)),
		humanize.Comma(int64(s.Filtered)),
		s.Duration().Round(time.Millisecond))

	open := s.OpenPorts()
	if len(open) == 0 {
		t.printf("%s\n", dimStyle.Render("no open ports"))

		return
	}

	t.printf("%s\n", dimStyle.Render(fmt.Sprintf("%-8s %-8s %-14s %s", "PORT", "STATE", "SERVICE", "BANNER")))
	for _, p := range open {
		t.printf("%-8s %s %-14s %s\n",
			strconv.Itoa(p.Port)+"/tcp",
			okStyle.Render(fmt.Sprintf("%-8s", p.State)),
			p.Service,
			p.Banner)
	}
}

func (t *TextWriter) certReport(r *domain.CertReport) {
	target := r.Host
	if r.Port > 0 {
		target += ":" + strconv.Itoa(r.Port)
	}

	t.title("TLS certificate of " + target)
	t.flag("Status", r.Valid, "valid", "invalid")
	t.field("Subject", r.Leaf.Subject)
	t.field("Issuer", r.Leaf.Issuer)
	if len(r.Leaf.DNSNames) > 0 {
		t.field("DNS names", strings.Join(r.Leaf.DNSNames, ", "))
	}

	t.field("Valid from", r.Leaf.NotBefore.Format(time.RFC3339))
	t.field("Expires", fmt.Sprintf("%s (%s)", r.Leaf.NotAfter.Format(time.RFC3339),
		humanize.RelTime(r.Leaf.NotAfter, t.now(), "ago", "from now")))
	t.field("Key", fmt.Sprintf("%s %d bits", r.Leaf.KeyAlgorithm, r.Leaf.KeyBits))
	t.field("Signature", r.Leaf.SignatureAlgorithm)
	t.field("Fingerprint", r.Leaf.Fingerprint)
	if r.TLSVersion != "" {
		t.field("Protocol", r.TLSVersion+" "+dimStyle.Render(r.CipherSuite))
	}

	t.flag("Chain", r.ChainValid, "trusted", "untrusted")
	t.flag("Hostname", r.HostnameMatch, "matches", "mismatch")
	t.findings(r.Findings)
}

func (t *TextWriter) passwordReport(r *domain.PasswordReport) {
	t.title("Password analysis")

	style := severityStyle(domain.SeverityLow)
	switch {
	case r.Score <= domain.ScoreWeak:
		style = severityStyle(domain.SeverityCritical)
	case r.Score == domain.ScoreFair:
		style = severityStyle(domain.SeverityMedium)
	case r.Score >= domain.ScoreStrong:
		style = okStyle
	}

	t.field("Strength", style.Render(fmt.Sprintf("%s (%d/4)", r.Score, r.Score)))
	t.field("Length", r.Length)

	var classes []string
	for _, c := range []struct {
		ok   bool
		name string
	}{
		{r.HasLower, "lower"}, {r.HasUpper, "upper"}, {r.HasDigit, "digits"},
		{r.HasSymbol, "symbols"}, {r.HasUnicode, "unicode"},
	} {
		if c.ok {
			classes = append(classes, c.name)
		}
	}

	t.field("Characters", strings.Join(classes, ", "))
	t.field("Entropy", fmt.Sprintf("%.1f bits (pool %d)", r.Entropy, r.PoolSize))
	t.field("Online attack", crackTime(r.CrackTimeOnline))
	t.field("Offline attack", crackTime(r.CrackTimeOffline))
	t.flag("Policy", r.MeetsPolicy, "met", "not met")

	if len(r.Patterns) > 0 {
		kinds := make([]string, 0, len(r.Patterns))
		for _, p := range r.Patterns {
			if p.Match != "" {
				kinds = append(kinds, p.Kind+" "+strconv.Quote(p.Match))
			} else {
				kinds = append(kinds, p.Kind)
			}
		}

		t.field("Patterns", strings.Join(kinds, ", "))
	}

	for _, f := range r.Feedback {
		t.printf("  - %s\n", f)
	}
}

func crackTime(d time.Duration) string {
	if d < time.Second {
		return "instant"
	}

	base := time.Unix(0, 0)

	return strings.TrimSpace(humanize.RelTime(base, base.Add(d), "", ""))
}

func (t *TextWriter) logReport(r *domain.LogReport) {
	title := "Log analysis"
	if r.Source != "" {
		title += " of " + r.Source
	}

	t.title(title)
	t.field("Lines", fmt.Sprintf("%s (%s unparsed)", humanize.Comma(int64(r.Lines)), humanize.Comma(int64(r.Unparsed))))
	if !r.First.IsZero() {
		t.field("Period", fmt.Sprintf("%s to %s", r.First.Format(time.DateTime), r.Last.Format(time.DateTime)))
	}

	formats := make([]string, 0, len(r.Formats))
	for _, f := range slices.Sorted(maps.Keys(r.Formats)) {
		formats = append(formats, fmt.Sprintf("%s=%d", f, r.Formats[f]))
	}

	t.field("Formats", strings.Join(formats, " "))
	t.field("Failed logins", humanize.Comma(int64(r.FailedLogins)))
	if len(r.StatusCodes) > 0 {
		codes := make([]string, 0, len(r.StatusCodes))
		for _, c := range slices.Sorted(maps.Keys(r.StatusCodes)) {
			codes = append(codes, fmt.Sprintf("%d=%d", c, r.StatusCodes[c]))
		}

		t.field("Status codes", strings.Join(codes, " "))
	}

	if len(r.TopIPs) > 0 {
		t.printf("\n%s\n", titleStyle.Render("Top sources"))
		for _, c := range r.TopIPs {
			t.printf("  %-40s %s\n", c.Key, humanize.Comma(int64(c.Count)))
		}
	}

	t.findings(r.Findings)
}

func (t *TextWriter) logEntry(l domain.LogEntry) {
	ts := "-"
	if !l.Timestamp.IsZero() {
		ts = l.Timestamp.Format(time.DateTime)
	}

	source := l.Host
	if l.RemoteIP != "" {
		source = l.RemoteIP
	}

	if l.Status > 0 {
		style := okStyle
		if l.Status >= 400 {
			style = badStyle
		}
		t.printf("%s %s %s %s %s\n", dimStyle.Render(ts), source, l.Method, l.Path, style.Render(strconv.Itoa(l.Status)))

		return
	}

	program := l.Program
	if program != "" {
		program += ":"
	}
	t.printf("%s %s %s %s\n", dimStyle.Render(ts), source, program, l.Message)
}

func (t *TextWriter) ipInfo(info domain.IPInfo) {
	t.title(info.Address)
	t.field("Version", "IPv"+strconv.Itoa(info.Version))
	t.field("Scope", info.Scope)
	t.field("Global unicast", info.GlobalUnicast)
}

func (t *TextWriter) networkInfo(n domain.NetworkInfo) {
	t.title(n.CIDR)
	t.field("Network", n.Network)
	if n.Netmask != "" {
		t.field("Netmask", n.Netmask)
	}

	if n.Broadcast != "" {
		t.field("Broadcast", n.Broadcast)
	}

	t.field("Hosts", fmt.Sprintf("%s to %s", n.FirstHost, n.LastHost))
	t.field("Host count", humanize.Comma(int64(min(n.HostCount, 1<<63-1)))) //nolint: gosec
}

func (t *TextWriter) reportLine(r *domain.Report) {
	style := dimStyle
	switch r.Status {
	case domain.ReportStatusCompleted:
		style = okStyle
	case domain.ReportStatusFailed:
		style = badStyle
	}

	t.printf("%s  %-9s %-10s %s %s\n",
		r.ID, r.Kind, style.Render(string(r.Status)), r.Target,
		dimStyle.Render(humanize.Time(r.CreatedAt)))
}
