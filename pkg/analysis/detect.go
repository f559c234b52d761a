package analysis

import (
	"cmp"
	"fmt"
	"maps"
	"sectoolkit/pkg/domain"
	"slices"
	"strings"
	"unicode/utf8"
)

const maxEvidence = 120

type ipStats struct {
	failed   int
	invalid  int
	notFound int
	users    map[string]struct{}
}

type ruleHit struct {
	rule     *compiledRule
	count    int
	evidence string
	ips      map[string]int
}

// aggregator accumulates detections over a stream of entries.
type aggregator struct {
	p            *LogParser
	summary      domain.LogReport
	ipCounts     map[string]int
	ips          map[string]*ipStats
	hits         map[string]*ruleHit
	compromised  map[string]string
	sudoFailures int
	serverErrors int
	secrets      int
}

func newAggregator(p *LogParser) *aggregator {
	return &aggregator{
		p: p,
		summary: domain.LogReport{
			Formats:     make(map[domain.LogFormat]int),
			StatusCodes: make(map[int]int),
		},
		ipCounts:    make(map[string]int),
		ips:         make(map[string]*ipStats),
		hits:        make(map[string]*ruleHit),
		compromised: make(map[string]string),
	}
}

func (a *aggregator) stats(ip string) *ipStats {
	st, ok := a.ips[ip]
	if !ok {
		st = &ipStats{users: make(map[string]struct{})}
		a.ips[ip] = st
	}

	return st
}

func (a *aggregator) add(e *domain.LogEntry) {
	a.summary.Lines++
	a.summary.Formats[e.Format]++
	a.matchRules(e)

	if e.Format == domain.LogFormatUnknown {
		a.summary.Unparsed++

		return
	}

	a.summary.Parsed++
	if !e.Timestamp.IsZero() {
		if a.summary.First.IsZero() || e.Timestamp.Before(a.summary.First) {
			a.summary.First = e.Timestamp
		}

		if e.Timestamp.After(a.summary.Last) {
			a.summary.Last = e.Timestamp
		}
	}

	if e.RemoteIP != "" {
		a.ipCounts[e.RemoteIP]++
	}

	if e.Status != 0 {
		a.summary.StatusCodes[e.Status]++
		switch {
		case e.Status == 404 && e.RemoteIP != "":
			a.stats(e.RemoteIP).notFound++
		case e.Status >= 500:
			a.serverErrors++
		}
	}

	if e.Format != domain.LogFormatAccess {
		a.matchAuth(e.Message)
		a.matchSecrets(e.Message)
	}
}

func (a *aggregator) matchAuth(msg string) {
	if sudoFailureRe.MatchString(msg) {
		a.sudoFailures++

		return
	}

	if m := failedLoginRe.FindStringSubmatch(msg); m != nil {
		a.summary.FailedLogins++
		a.ipCounts[m[2]]++
		st := a.stats(m[2])
		st.failed++
		st.users[m[1]] = struct{}{}

		return
	}

	if m := invalidUserRe.FindStringSubmatch(msg); m != nil {
		a.ipCounts[m[2]]++
		a.stats(m[2]).invalid++

		return
	}

	if m := pamFailureRe.FindStringSubmatch(msg); m != nil {
		a.summary.FailedLogins++
		a.stats(m[1]).failed++

		return
	}

	if m := acceptedRe.FindStringSubmatch(msg); m != nil {
		if st, ok := a.ips[m[2]]; ok && st.failed >= a.p.opts.BruteForceThreshold {
			a.compromised[m[2]] = m[1]
		}
	}
}

func (a *aggregator) matchSecrets(msg string) {
	for _, tok := range tokenRe.FindAllString(msg, -1) {
		if ShannonEntropy(tok) > SecretEntropyThreshold {
			a.secrets++

			return
		}
	}
}

func (a *aggregator) matchRules(e *domain.LogEntry) {
	for i := range a.p.rules {
		r := &a.p.rules[i]
		m := r.match(e)
		if m == "" {
			continue
		}

		hit, ok := a.hits[r.ID]
		if !ok {
			hit = &ruleHit{rule: r, evidence: truncate(m, maxEvidence), ips: make(map[string]int)}
			a.hits[r.ID] = hit
		}

		hit.count++
		if e.RemoteIP != "" {
			hit.ips[e.RemoteIP]++
		}
	}
}

func (a *aggregator) report() *domain.LogReport {
	r := a.summary
	r.TopIPs = topCounters(a.ipCounts, a.p.opts.TopN)

	var (
		findings       []domain.Finding
		belowThreshold int
		invalid        int
	)
	invalidIPs := make(map[string]int)
	for _, ip := range slices.Sorted(maps.Keys(a.ips)) {
		st := a.ips[ip]
		switch {
		case st.failed >= a.p.opts.BruteForceThreshold:
			findings = append(findings, domain.Finding{
				Rule:     "auth.brute_force",
				Severity: domain.SeverityHigh,
				Message:  fmt.Sprintf("%d failed logins from %s", st.failed, ip),
				Target:   ip,
				Evidence: "users: " + strings.Join(slices.Sorted(maps.Keys(st.users)), ","),
				Count:    st.failed,
			})
		case st.failed > 0:
			belowThreshold += st.failed
		}

		if st.invalid > 0 {
			invalid += st.invalid
			invalidIPs[ip] = st.invalid
		}

		if st.notFound >= a.p.opts.ScanThreshold {
			findings = append(findings, domain.Finding{
				Rule:     "http.scanning",
				Severity: domain.SeverityMedium,
				Message:  fmt.Sprintf("%d not found responses for %s", st.notFound, ip),
				Target:   ip,
				Count:    st.notFound,
			})
		}
	}

	for _, ip := range slices.Sorted(maps.Keys(a.compromised)) {
		findings = append(findings, domain.Finding{
			Rule:     "auth.login_after_brute_force",
			Severity: domain.SeverityCritical,
			Message:  "successful login after repeated failures from " + ip,
			Target:   ip,
			Evidence: "user: " + a.compromised[ip],
			Count:    1,
		})
	}

	if belowThreshold > 0 {
		findings = append(findings, domain.Finding{
			Rule:     "auth.failed_login",
			Severity: domain.SeverityLow,
			Message:  fmt.Sprintf("%d failed logins below the brute force threshold", belowThreshold),
			Count:    belowThreshold,
		})
	}

	if invalid > 0 {
		ips := topCounters(invalidIPs, 5)
		keys := make([]string, 0, len(ips))
		for _, c := range ips {
			keys = append(keys, c.Key)
		}

		findings = append(findings, domain.Finding{
			Rule:     "auth.invalid_user",
			Severity: domain.SeverityMedium,
			Message:  fmt.Sprintf("%d login attempts for unknown users", invalid),
			Target:   keys[0],
			Evidence: "sources: " + strings.Join(keys, ","),
			Count:    invalid,
		})
	}

	if a.sudoFailures > 0 {
		findings = append(findings, domain.Finding{
			Rule:     "auth.sudo_failure",
			Severity: domain.SeverityMedium,
			Message:  fmt.Sprintf("%d failed sudo authentications", a.sudoFailures),
			Count:    a.sudoFailures,
		})
	}

	if a.serverErrors > 0 {
		findings = append(findings, domain.Finding{
			Rule:     "http.server_errors",
			Severity: domain.SeverityLow,
			Message:  fmt.Sprintf("%d responses with status 5xx", a.serverErrors),
			Count:    a.serverErrors,
		})
	}

	if a.secrets > 0 {
		findings = append(findings, domain.Finding{
			Rule:     "log.possible_secret",
			Severity: domain.SeverityLow,
			Message:  fmt.Sprintf("%d lines contain high entropy tokens", a.secrets),
			Count:    a.secrets,
		})
	}

	for _, hit := range a.hits {
		f := domain.Finding{
			Rule:     hit.rule.ID,
			Severity: hit.rule.severity,
			Message:  hit.rule.Description,
			Evidence: hit.evidence,
			Count:    hit.count,
		}
		if top := topCounters(hit.ips, 1); len(top) > 0 {
			f.Target = top[0].Key
		}

		findings = append(findings, f)
	}

	slices.SortStableFunc(findings, func(x, y domain.Finding) int {
		if c := cmp.Compare(y.Severity, x.Severity); c != 0 {
			return c
		}

		if c := cmp.Compare(x.Rule, y.Rule); c != 0 {
			return c
		}

		return cmp.Compare(x.Target, y.Target)
	})
	r.Findings = findings

	return &r
}

// topCounters returns the n highest counts, ties ordered by key.
func topCounters(counts map[string]int, n int) []domain.Counter {
	out := make([]domain.Counter, 0, len(counts))
	for k, c := range counts {
		out = append(out, domain.Counter{Key: k, Count: c})
	}

	slices.SortFunc(out, func(x, y domain.Counter) int {
		if c := cmp.Compare(y.Count, x.Count); c != 0 {
			return c
		}

		return cmp.Compare(x.Key, y.Key)
	})

	if len(out) > n {
		out = out[:n]
	}

	return out
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n] + "..."
}
