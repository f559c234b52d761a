package network

import (
	"context"
	"errors"
	"math"
	"net"
	"net/netip"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/serrors"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// DefaultExpandLimit caps how many addresses a single CIDR or range may expand to.
const DefaultExpandLimit = 65536

// reservedPrefixes lists special purpose blocks that are neither private nor
// publicly routable (RFC 6890).
var reservedPrefixes = []netip.Prefix{ //nolint: gochecknoglobals
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("192.0.2.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("198.51.100.0/24"),
	netip.MustParsePrefix("203.0.113.0/24"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("100::/64"),
	netip.MustParsePrefix("2001:db8::/32"),
}

// IPUtils classifies addresses, describes networks and expands target lists.
type IPUtils struct {
	resolver *net.Resolver
}

// NewIPUtils creates IPUtils backed by resolver. A nil resolver uses net.DefaultResolver.
func NewIPUtils(resolver *net.Resolver) *IPUtils {
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	return &IPUtils{resolver: resolver}
}

func parseAddr(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return netip.Addr{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid ip address %q", s)
	}

	return addr.Unmap(), nil
}

// IsValid reports whether s is an IPv4 or IPv6 address.
func (u *IPUtils) IsValid(s string) bool {
	_, err := parseAddr(s)

	return err == nil
}

// Version returns 4 or 6.
func (u *IPUtils) Version(s string) (int, error) {
	addr, err := parseAddr(s)
	if err != nil {
		return 0, err
	}

	if addr.Is4() {
		return 4, nil
	}

	return 6, nil
}

// Classify returns the address properties of s.
func (u *IPUtils) Classify(s string) (domain.IPInfo, error) {
	addr, err := parseAddr(s)
	if err != nil {
		return domain.IPInfo{}, err
	}

	info := domain.IPInfo{
		Address:       addr.String(),
		Version:       6,
		Loopback:      addr.IsLoopback(),
		Private:       addr.IsPrivate(),
		LinkLocal:     addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast(),
		Multicast:     addr.IsMulticast(),
		Unspecified:   addr.IsUnspecified(),
		GlobalUnicast: addr.IsGlobalUnicast(),
		Reserved:      isReserved(addr),
	}
	if addr.Is4() {
		info.Version = 4
	}

	switch {
	case info.Unspecified:
		info.Scope = "unspecified"
	case info.Loopback:
		info.Scope = "loopback"
	case info.LinkLocal:
		info.Scope = "link-local"
	case info.Multicast:
		info.Scope = "multicast"
	case info.Private:
		info.Scope = "private"
	case info.Reserved:
		info.Scope = "reserved"
	default:
		info.Scope = "public"
	}

	return info, nil
}

func isReserved(addr netip.Addr) bool {
	for _, p := range reservedPrefixes {
		if p.Contains(addr) {
			return true
		}
	}

	return false
}

func parsePrefix(cidr string) (netip.Prefix, error) {
	cidr = strings.TrimSpace(cidr)
	if !strings.Contains(cidr, "/") {
		addr, err := parseAddr(cidr)
		if err != nil {
			return netip.Prefix{}, err
		}

		return netip.PrefixFrom(addr, addr.BitLen()), nil
	}

	p, err := netip.ParsePrefix(cidr)
	if err != nil {
		return netip.Prefix{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid cidr %q", cidr)
	}

	return p.Masked(), nil
}

// lastAddr returns the highest address inside p.
func lastAddr(p netip.Prefix) netip.Addr {
	b := p.Masked().Addr().AsSlice()
	bits := p.Bits()
	for i := range b {
		switch {
		case bits >= 8:
			bits -= 8
		case bits > 0:
			b[i] |= 0xff >> bits
			bits = 0
		default:
			b[i] = 0xff
		}
	}

	addr, _ := netip.AddrFromSlice(b)

	return addr
}

// NetworkInfo describes the network cidr. A bare address is treated as a
// single host network.
func (u *IPUtils) NetworkInfo(cidr string) (domain.NetworkInfo, error) {
	p, err := parsePrefix(cidr)
	if err != nil {
		return domain.NetworkInfo{}, err
	}

	network := p.Addr()
	last := lastAddr(p)
	hostBits := network.BitLen() - p.Bits()
	info := domain.NetworkInfo{
		CIDR:    p.String(),
		Network: network.String(),
		Netmask: net.IP(net.CIDRMask(p.Bits(), network.BitLen())).String(),
		Prefix:  p.Bits(),
	}

	switch {
	case hostBits >= 64:
		info.HostCount = math.MaxUint64
	case network.Is4() && hostBits > 1:
		info.HostCount = 1<<hostBits - 2
	default:
		info.HostCount = 1 << hostBits
	}

	info.FirstHost, info.LastHost = network.String(), last.String()
	if network.Is4() {
		info.Broadcast = last.String()
		// RFC 3021: /31 and /32 have no network or broadcast address to skip.
		if hostBits > 1 {
			info.FirstHost = network.Next().String()
			info.LastHost = last.Prev().String()
		}
	}

	return info, nil
}

// ExpandCIDR lists the usable hosts of cidr. Networks with more than limit
// hosts are rejected; a non-positive limit uses DefaultExpandLimit.
func (u *IPUtils) ExpandCIDR(cidr string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultExpandLimit
	}

	info, err := u.NetworkInfo(cidr)
	if err != nil {
		return nil, err
	}

	if info.HostCount > uint64(limit) {
		return nil, serrors.With(serrors.ErrBadRequest, "network %s has %d hosts, limit is %d", info.CIDR, info.HostCount, limit)
	}

	first, _ := netip.ParseAddr(info.FirstHost)
	last, _ := netip.ParseAddr(info.LastHost)

	return expandRange(first, last, limit)
}

func expandRange(first, last netip.Addr, limit int) ([]string, error) {
	if last.Less(first) {
		return nil, serrors.With(serrors.ErrBadRequest, "range end %s is before start %s", last, first)
	}

	hosts := make([]string, 0, 16)
	for addr := first; addr.IsValid() && !last.Less(addr); addr = addr.Next() {
		if len(hosts) == limit {
			return nil, serrors.With(serrors.ErrBadRequest, "range %s-%s exceeds limit of %d hosts", first, last, limit)
		}

		hosts = append(hosts, addr.String())
	}

	return hosts, nil
}

// Contains reports whether ip lies inside cidr.
func (u *IPUtils) Contains(cidr, ip string) (bool, error) {
	p, err := parsePrefix(cidr)
	if err != nil {
		return false, err
	}

	addr, err := parseAddr(ip)
	if err != nil {
		return false, err
	}

	return p.Contains(addr), nil
}

// ParseTargets expands a comma or space separated target list into
// individual hosts. Entries may be addresses, CIDR blocks, dash ranges
// ("10.0.0.1-10.0.0.9" or "10.0.0.1-9") or hostnames, which are IDNA
// normalized. Duplicates are removed, order is preserved.
func (u *IPUtils) ParseTargets(spec string) ([]string, error) {
	tokens := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(tokens) == 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "no targets given")
	}

	var targets []string
	seen := make(map[string]struct{})
	add := func(hosts ...string) {
		for _, h := range hosts {
			if _, ok := seen[h]; ok {
				continue
			}

			seen[h] = struct{}{}
			targets = append(targets, h)
		}
	}

	for _, tok := range tokens {
		switch {
		case strings.Contains(tok, "/"):
			hosts, err := u.ExpandCIDR(tok, DefaultExpandLimit)
			if err != nil {
				return nil, err
			}

			add(hosts...)
		case isAddrRange(tok):
			hosts, err := parseAddrRange(tok)
			if err != nil {
				return nil, err
			}

			add(hosts...)
		default:
			if addr, err := parseAddr(tok); err == nil {
				add(addr.String())

				continue
			}

			host, err := NormalizeHostname(tok)
			if err != nil {
				return nil, err
			}

			add(host)
		}
	}

	return targets, nil
}

func isAddrRange(tok string) bool {
	start, _, ok := strings.Cut(tok, "-")
	if !ok {
		return false
	}

	_, err := netip.ParseAddr(start)

	return err == nil
}

func parseAddrRange(tok string) ([]string, error) {
	startStr, endStr, _ := strings.Cut(tok, "-")
	start, err := parseAddr(startStr)
	if err != nil {
		return nil, err
	}

	end, err := netip.ParseAddr(endStr)
	if err != nil {
		// Short form: only the last octet of an IPv4 end address.
		octet, convErr := strconv.Atoi(endStr)
		if convErr != nil || !start.Is4() || octet < 0 || octet > 255 {
			return nil, serrors.With(serrors.ErrBadRequest, "invalid address range %q", tok)
		}

		b := start.As4()
		b[3] = byte(octet)
		end = netip.AddrFrom4(b)
	}

	end = end.Unmap()
	if start.Is4() != end.Is4() {
		return nil, serrors.With(serrors.ErrBadRequest, "address range %q mixes ip versions", tok)
	}

	return expandRange(start, end, DefaultExpandLimit)
}

// NormalizeHostname converts host to its lower-case ASCII (punycode) form and
// validates it as a DNS name.
func NormalizeHostname(host string) (string, error) {
	host = strings.TrimSuffix(strings.TrimSpace(host), ".")
	if host == "" {
		return "", serrors.With(serrors.ErrBadRequest, "empty hostname")
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid hostname %q", host)
	}

	return strings.ToLower(ascii), nil
}

// Resolve returns the addresses of host. Literal addresses are returned as is.
func (u *IPUtils) Resolve(ctx context.Context, host string) ([]string, error) {
	if addr, err := parseAddr(host); err == nil {
		return []string{addr.String()}, nil
	}

	name, err := NormalizeHostname(host)
	if err != nil {
		return nil, err
	}

	addrs, err := u.resolver.LookupNetIP(ctx, "ip", name)
	if err != nil {
		return nil, lookupError(err, name)
	}

	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.Unmap().String())
	}

	slices.Sort(out)

	return slices.Compact(out), nil
}

// ReverseLookup returns the PTR names of ip without trailing dots.
func (u *IPUtils) ReverseLookup(ctx context.Context, ip string) ([]string, error) {
	addr, err := parseAddr(ip)
	if err != nil {
		return nil, err
	}

	names, err := u.resolver.LookupAddr(ctx, addr.String())
	if err != nil {
		return nil, lookupError(err, addr.String())
	}

	for i := range names {
		names[i] = strings.TrimSuffix(names[i], ".")
	}

	return names, nil
}

func lookupError(err error, name string) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return serrors.Wrap(serrors.ErrNotFound, err, "no dns records for %s", name)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return serrors.Wrap(serrors.ErrTimeout, err, "dns lookup for %s timed out", name)
	}

	return serrors.Wrap(serrors.ErrUnavailable, err, "dns lookup for %s failed", name)
}
