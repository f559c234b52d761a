package reports_test

import (
	"sectoolkit/internal/reports"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeTarget(t *testing.T) {
	cases := []struct {
		name string
		in   string
		host string
		port int
		ok   bool
	}{
		{name: "lowercase hostname", in: "Example.COM", host: "example.com", ok: true},
		{name: "trailing dot removed", in: "example.com.", host: "example.com", ok: true},
		{name: "surrounding space", in: "  example.com  ", host: "example.com", ok: true},
		{name: "host with port", in: "example.com:8443", host: "example.com", port: 8443, ok: true},
		{name: "url keeps host and port", in: "https://Example.com:443/login?x=1", host: "example.com", port: 443, ok: true},
		{name: "path dropped", in: "example.com/admin", host: "example.com", ok: true},
		{name: "ipv4", in: "192.0.2.10", host: "192.0.2.10", ok: true},
		{name: "ipv4 with port", in: "192.0.2.10:22", host: "192.0.2.10", port: 22, ok: true},
		{name: "ipv6 bare", in: "2001:DB8::1", host: "2001:db8::1", ok: true},
		{name: "ipv6 bracketed with port", in: "[2001:db8::1]:443", host: "2001:db8::1", port: 443, ok: true},
		{name: "ipv4 mapped ipv6", in: "::ffff:192.0.2.1", host: "192.0.2.1", ok: true},
		{name: "idn to punycode", in: "bücher.example", host: "xn--bcher-kva.example", ok: true},
		{name: "hyphenated hostname", in: "my-host.example", host: "my-host.example", ok: true},
		{name: "empty", in: "   ", ok: false},
		{name: "cidr", in: "10.0.0.0/24", ok: false},
		{name: "range", in: "10.0.0.1-9", ok: false},
		{name: "unspecified", in: "0.0.0.0", ok: false},
		{name: "multicast", in: "ff02::1", ok: false},
		{name: "port out of range", in: "example.com:70000", ok: false},
		{name: "port not numeric", in: "example.com:ssh", ok: false},
		{name: "invalid hostname", in: "bad_host!.example", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			host, port, err := reports.NormalizeTarget(tc.in)
			if !tc.ok {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.host, host)
			require.Equal(t, tc.port, port)
		})
	}
}
