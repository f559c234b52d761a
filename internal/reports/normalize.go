package reports

import (
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"sectoolkit/pkg/network"
	"strconv"
	"strings"
)

// NormalizeTarget returns the canonical form of a single host target and the
// port it carries, or 0 when it carries none.
//
// The rules keep identical requests on one job:
//   - A scheme and anything after the host (path, query) are dropped
//   - Hostnames are lower-cased and converted to punycode, a trailing dot is removed
//   - IPv4-mapped IPv6 addresses become IPv4, IPv6 zones are kept
//   - Networks, ranges, unspecified and multicast addresses are rejected
func NormalizeTarget(raw string) (string, int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", 0, fmt.Errorf("empty target")
	}

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", 0, fmt.Errorf("could not parse target: %w", err)
		}

		s = u.Host
	} else {
		if _, err := netip.ParsePrefix(s); err == nil {
			return "", 0, fmt.Errorf("%q is a network, not a single host", s)
		}
		if i := strings.IndexAny(s, "/?#"); i >= 0 {
			s = s[:i]
		}
	}

	host, port := s, 0
	if h, p, err := net.SplitHostPort(s); err == nil {
		n, err := strconv.Atoi(p)
		if err != nil || n < network.MinPort || n > network.MaxPort {
			return "", 0, fmt.Errorf("invalid port %q", p)
		}

		host, port = h, n
	}

	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if addr, err := netip.ParseAddr(host); err == nil {
		addr = addr.Unmap()
		if addr.IsUnspecified() || addr.IsMulticast() {
			return "", 0, fmt.Errorf("%s is not a scannable host", addr)
		}

		return addr.String(), port, nil
	}

	if i := strings.IndexByte(host, '-'); i > 0 {
		if _, err := netip.ParseAddr(host[:i]); err == nil {
			return "", 0, fmt.Errorf("%q is a range, not a single host", host)
		}
	}

	name, err := network.NormalizeHostname(host)
	if err != nil {
		return "", 0, err //nolint: wrapcheck
	}

	return name, port, nil
}
