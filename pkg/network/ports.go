package network

import (
	"sectoolkit/pkg/serrors"
	"slices"
	"strconv"
	"strings"
)

const (
	// MinPort and MaxPort bound valid TCP ports.
	MinPort = 1
	MaxPort = 65535

	PresetCommon = "common"
	PresetTop100 = "top100"
	PresetAll    = "all"
)

// commonPorts is a short list of frequently exposed services.
var commonPorts = []int{ //nolint: gochecknoglobals
	21, 22, 23, 25, 53, 80, 110, 111, 135, 139, 143, 443, 445, 993, 995,
	1723, 3306, 3389, 5432, 5900, 6379, 8080, 8443, 27017,
}

// top100Ports follows the nmap top 100 TCP ports ranking.
var top100Ports = []int{ //nolint: gochecknoglobals
	7, 9, 13, 21, 22, 23, 25, 26, 37, 53, 79, 80, 81, 88, 106, 110, 111, 113, 119, 135,
	139, 143, 144, 179, 199, 389, 427, 443, 444, 445, 465, 513, 514, 515, 543, 544, 548,
	554, 587, 631, 646, 873, 990, 993, 995, 1025, 1026, 1027, 1028, 1029, 1110, 1433,
	1720, 1723, 1755, 1900, 2000, 2001, 2049, 2121, 2717, 3000, 3128, 3306, 3389, 3986,
	4899, 5000, 5009, 5051, 5060, 5101, 5190, 5357, 5432, 5631, 5666, 5800, 5900, 6000,
	6001, 6646, 7070, 8000, 8008, 8009, 8080, 8081, 8443, 8888, 9100, 9999, 10000, 32768,
	49152, 49153, 49154, 49155, 49156, 49157,
}

var services = map[int]string{ //nolint: gochecknoglobals
	7: "echo", 20: "ftp-data", 21: "ftp", 22: "ssh", 23: "telnet", 25: "smtp", 53: "dns",
	67: "dhcp", 69: "tftp", 79: "finger", 80: "http", 88: "kerberos", 110: "pop3",
	111: "rpcbind", 119: "nntp", 123: "ntp", 135: "msrpc", 137: "netbios-ns",
	139: "netbios-ssn", 143: "imap", 161: "snmp", 179: "bgp", 389: "ldap", 443: "https",
	445: "microsoft-ds", 465: "smtps", 514: "syslog", 515: "printer", 548: "afp",
	554: "rtsp", 587: "submission", 631: "ipp", 636: "ldaps", 873: "rsync", 990: "ftps",
	993: "imaps", 995: "pop3s", 1080: "socks", 1433: "mssql", 1521: "oracle",
	1723: "pptp", 1883: "mqtt", 2049: "nfs", 2181: "zookeeper", 2375: "docker",
	2376: "docker-tls", 3000: "http-dev", 3128: "squid", 3306: "mysql", 3389: "rdp",
	4369: "epmd", 5000: "upnp", 5060: "sip", 5432: "postgresql", 5601: "kibana",
	5672: "amqp", 5900: "vnc", 5984: "couchdb", 6379: "redis", 6443: "kubernetes",
	8000: "http-alt", 8008: "http-alt", 8080: "http-proxy", 8443: "https-alt",
	8888: "http-alt", 9000: "http-alt", 9092: "kafka", 9100: "jetdirect",
	9200: "elasticsearch", 11211: "memcached", 27017: "mongodb",
}

// ServiceName returns the well-known service for port, or "unknown".
func ServiceName(port int) string {
	if s, ok := services[port]; ok {
		return s
	}

	return "unknown"
}

// ParsePorts parses a port specification such as "22,80,443", "1-1024" or
// one of the presets common, top100 and all. Entries can be combined. The
// result is sorted and free of duplicates.
func ParsePorts(spec string) ([]int, error) {
	tokens := strings.FieldsFunc(spec, func(r rune) bool { return r == ',' || r == ' ' })
	if len(tokens) == 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "empty port specification")
	}

	set := make(map[int]struct{})
	for _, tok := range tokens {
		switch strings.ToLower(tok) {
		case PresetCommon:
			addPorts(set, commonPorts...)
		case PresetTop100:
			addPorts(set, top100Ports...)
		case PresetAll:
			for p := MinPort; p <= MaxPort; p++ {
				set[p] = struct{}{}
			}
		default:
			lo, hi, err := parsePortRange(tok)
			if err != nil {
				return nil, err
			}

			for p := lo; p <= hi; p++ {
				set[p] = struct{}{}
			}
		}
	}

	ports := make([]int, 0, len(set))
	for p := range set {
		ports = append(ports, p)
	}

	slices.Sort(ports)

	return ports, nil
}

func addPorts(set map[int]struct{}, ports ...int) {
	for _, p := range ports {
		set[p] = struct{}{}
	}
}

func parsePortRange(tok string) (int, int, error) {
	loStr, hiStr, isRange := strings.Cut(tok, "-")
	lo, err := parsePort(loStr)
	if err != nil {
		return 0, 0, err
	}

	if !isRange {
		return lo, lo, nil
	}

	hi, err := parsePort(hiStr)
	if err != nil {
		return 0, 0, err
	}

	if hi < lo {
		return 0, 0, serrors.With(serrors.ErrBadRequest, "invalid port range %q", tok)
	}

	return lo, hi, nil
}

func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || p < MinPort || p > MaxPort {
		return 0, serrors.With(serrors.ErrBadRequest, "invalid port %q: must be between %d and %d", s, MinPort, MaxPort)
	}

	return p, nil
}
