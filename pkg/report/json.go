package report

import (
	"fmt"
	"io"
	"maps"
	"sectoolkit/pkg/domain"
	"slices"
	"strconv"
	"time"

	"github.com/go-faster/jx"
)

func encodeTime(e *jx.Encoder, name string, t time.Time) {
	if t.IsZero() {
		return
	}

	e.Field(name, func(e *jx.Encoder) { e.Str(t.Format(time.RFC3339Nano)) })
}

func encodeStr(e *jx.Encoder, name, v string) {
	if v == "" {
		return
	}

	e.Field(name, func(e *jx.Encoder) { e.Str(v) })
}

func encodeStrs(e *jx.Encoder, name string, v []string) {
	if len(v) == 0 {
		return
	}

	e.Field(name, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, s := range v {
				e.Str(s)
			}
		})
	})
}

// EncodeFinding writes f as a JSON object. The severity is written by name.
func EncodeFinding(e *jx.Encoder, f domain.Finding) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("rule", func(e *jx.Encoder) { e.Str(f.Rule) })
		e.Field("severity", func(e *jx.Encoder) { e.Str(f.Severity.String()) })
		e.Field("message", func(e *jx.Encoder) { e.Str(f.Message) })
		encodeStr(e, "target", f.Target)
		encodeStr(e, "evidence", f.Evidence)
		if f.Count > 0 {
			e.Field("count", func(e *jx.Encoder) { e.Int(f.Count) })
		}
	})
}

func encodeFindings(e *jx.Encoder, findings []domain.Finding) {
	e.Field("findings", func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, f := range findings {
				EncodeFinding(e, f)
			}
		})
	})
}

// EncodePortScan writes a port scan. Latencies are written in milliseconds.
func EncodePortScan(e *jx.Encoder, s *domain.PortScan) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("host", func(e *jx.Encoder) { e.Str(s.Host) })
		e.Field("open", func(e *jx.Encoder) { e.Int(s.Open) })
		e.Field("closed", func(e *jx.Encoder) { e.Int(s.Closed) })
		e.Field("filtered", func(e *jx.Encoder) { e.Int(s.Filtered) })
		encodeTime(e, "startedAt", s.StartedAt)
		encodeTime(e, "finishedAt", s.FinishedAt)
		e.Field("ports", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, p := range s.Ports {
					e.Obj(func(e *jx.Encoder) {
						e.Field("port", func(e *jx.Encoder) { e.Int(p.Port) })
						e.Field("state", func(e *jx.Encoder) { e.Str(string(p.State)) })
						encodeStr(e, "service", p.Service)
						encodeStr(e, "banner", p.Banner)
						e.Field("latencyMs", func(e *jx.Encoder) { e.Float64(durationMillis(p.Latency)) })
						encodeStr(e, "error", p.Error)
					})
				}
			})
		})
	})
}

func durationMillis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func encodeCertInfo(e *jx.Encoder, c domain.CertInfo) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("subject", func(e *jx.Encoder) { e.Str(c.Subject) })
		e.Field("issuer", func(e *jx.Encoder) { e.Str(c.Issuer) })
		encodeStrs(e, "dnsNames", c.DNSNames)
		encodeStrs(e, "ipAddresses", c.IPAddresses)
		e.Field("serialNumber", func(e *jx.Encoder) { e.Str(c.SerialNumber) })
		encodeTime(e, "notBefore", c.NotBefore)
		encodeTime(e, "notAfter", c.NotAfter)
		e.Field("fingerprint", func(e *jx.Encoder) { e.Str(c.Fingerprint) })
		e.Field("signatureAlgorithm", func(e *jx.Encoder) { e.Str(c.SignatureAlgorithm) })
		e.Field("keyAlgorithm", func(e *jx.Encoder) { e.Str(c.KeyAlgorithm) })
		e.Field("keyBits", func(e *jx.Encoder) { e.Int(c.KeyBits) })
		e.Field("isCA", func(e *jx.Encoder) { e.Bool(c.IsCA) })
	})
}

// EncodeCertReport writes a TLS validation report.
func EncodeCertReport(e *jx.Encoder, r *domain.CertReport) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("host", func(e *jx.Encoder) { e.Str(r.Host) })
		if r.Port > 0 {
			e.Field("port", func(e *jx.Encoder) { e.Int(r.Port) })
		}

		encodeStr(e, "tlsVersion", r.TLSVersion)
		encodeStr(e, "cipherSuite", r.CipherSuite)
		e.Field("valid", func(e *jx.Encoder) { e.Bool(r.Valid) })
		e.Field("chainValid", func(e *jx.Encoder) { e.Bool(r.ChainValid) })
		e.Field("hostnameMatch", func(e *jx.Encoder) { e.Bool(r.HostnameMatch) })
		e.Field("selfSigned", func(e *jx.Encoder) { e.Bool(r.SelfSigned) })
		e.Field("daysRemaining", func(e *jx.Encoder) { e.Int(r.DaysRemaining) })
		e.Field("leaf", func(e *jx.Encoder) { encodeCertInfo(e, r.Leaf) })
		if len(r.Chain) > 0 {
			e.Field("chain", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, c := range r.Chain {
						encodeCertInfo(e, c)
					}
				})
			})
		}

		encodeFindings(e, r.Findings)
		encodeTime(e, "checkedAt", r.CheckedAt)
	})
}

// EncodePasswordReport writes a password analysis. Crack times are written in
// seconds.
func EncodePasswordReport(e *jx.Encoder, r *domain.PasswordReport) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("length", func(e *jx.Encoder) { e.Int(r.Length) })
		e.Field("score", func(e *jx.Encoder) { e.Int(int(r.Score)) })
		e.Field("strength", func(e *jx.Encoder) { e.Str(r.Score.String()) })
		e.Field("hasLower", func(e *jx.Encoder) { e.Bool(r.HasLower) })
		e.Field("hasUpper", func(e *jx.Encoder) { e.Bool(r.HasUpper) })
		e.Field("hasDigit", func(e *jx.Encoder) { e.Bool(r.HasDigit) })
		e.Field("hasSymbol", func(e *jx.Encoder) { e.Bool(r.HasSymbol) })
		e.Field("hasUnicode", func(e *jx.Encoder) { e.Bool(r.HasUnicode) })
		e.Field("poolSize", func(e *jx.Encoder) { e.Int(r.PoolSize) })
		e.Field("entropy", func(e *jx.Encoder) { e.Float64(r.Entropy) })
		e.Field("shannonEntropy", func(e *jx.Encoder) { e.Float64(r.ShannonEntropy) })
		e.Field("crackTimeOnlineSeconds", func(e *jx.Encoder) { e.Float64(r.CrackTimeOnline.Seconds()) })
		e.Field("crackTimeOfflineSeconds", func(e *jx.Encoder) { e.Float64(r.CrackTimeOffline.Seconds()) })
		e.Field("meetsPolicy", func(e *jx.Encoder) { e.Bool(r.MeetsPolicy) })
		e.Field("patterns", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, p := range r.Patterns {
					e.Obj(func(e *jx.Encoder) {
						e.Field("kind", func(e *jx.Encoder) { e.Str(p.Kind) })
						encodeStr(e, "match", p.Match)
					})
				}
			})
		})
		encodeStrs(e, "feedback", r.Feedback)
	})
}

// EncodeLogReport writes a log analysis. Map keys are written in sorted order.
func EncodeLogReport(e *jx.Encoder, r *domain.LogReport) {
	e.Obj(func(e *jx.Encoder) {
		encodeStr(e, "source", r.Source)
		e.Field("lines", func(e *jx.Encoder) { e.Int(r.Lines) })
		e.Field("parsed", func(e *jx.Encoder) { e.Int(r.Parsed) })
		e.Field("unparsed", func(e *jx.Encoder) { e.Int(r.Unparsed) })
		e.Field("formats", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				for _, f := range slices.Sorted(maps.Keys(r.Formats)) {
					e.Field(string(f), func(e *jx.Encoder) { e.Int(r.Formats[f]) })
				}
			})
		})
		encodeTime(e, "first", r.First)
		encodeTime(e, "last", r.Last)
		e.Field("failedLogins", func(e *jx.Encoder) { e.Int(r.FailedLogins) })
		e.Field("statusCodes", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				for _, code := range slices.Sorted(maps.Keys(r.StatusCodes)) {
					e.Field(strconv.Itoa(code), func(e *jx.Encoder) { e.Int(r.StatusCodes[code]) })
				}
			})
		})
		e.Field("topIps", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, c := range r.TopIPs {
					e.Obj(func(e *jx.Encoder) {
						e.Field("key", func(e *jx.Encoder) { e.Str(c.Key) })
						e.Field("count", func(e *jx.Encoder) { e.Int(c.Count) })
					})
				}
			})
		})
		encodeFindings(e, r.Findings)
	})
}

// EncodeLogEntry writes a parsed log line. Empty fields are omitted.
func EncodeLogEntry(e *jx.Encoder, l domain.LogEntry) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("format", func(e *jx.Encoder) { e.Str(string(l.Format)) })
		encodeTime(e, "timestamp", l.Timestamp)
		encodeStr(e, "host", l.Host)
		encodeStr(e, "program", l.Program)
		if l.PID > 0 {
			e.Field("pid", func(e *jx.Encoder) { e.Int(l.PID) })
		}
		encodeStr(e, "level", l.Level)
		e.Field("message", func(e *jx.Encoder) { e.Str(l.Message) })
		encodeStr(e, "remoteIp", l.RemoteIP)
		encodeStr(e, "method", l.Method)
		encodeStr(e, "path", l.Path)
		encodeStr(e, "protocol", l.Protocol)
		if l.Status > 0 {
			e.Field("status", func(e *jx.Encoder) { e.Int(l.Status) })
		}
		if l.Bytes > 0 {
			e.Field("bytes", func(e *jx.Encoder) { e.Int64(l.Bytes) })
		}
		encodeStr(e, "referer", l.Referer)
		encodeStr(e, "userAgent", l.UserAgent)
	})
}

// EncodeIPInfo writes an IP classification.
func EncodeIPInfo(e *jx.Encoder, info domain.IPInfo) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("address", func(e *jx.Encoder) { e.Str(info.Address) })
		e.Field("version", func(e *jx.Encoder) { e.Int(info.Version) })
		e.Field("scope", func(e *jx.Encoder) { e.Str(info.Scope) })
		e.Field("loopback", func(e *jx.Encoder) { e.Bool(info.Loopback) })
		e.Field("private", func(e *jx.Encoder) { e.Bool(info.Private) })
		e.Field("linkLocal", func(e *jx.Encoder) { e.Bool(info.LinkLocal) })
		e.Field("multicast", func(e *jx.Encoder) { e.Bool(info.Multicast) })
		e.Field("unspecified", func(e *jx.Encoder) { e.Bool(info.Unspecified) })
		e.Field("globalUnicast", func(e *jx.Encoder) { e.Bool(info.GlobalUnicast) })
		e.Field("reserved", func(e *jx.Encoder) { e.Bool(info.Reserved) })
	})
}

// EncodeNetworkInfo writes a CIDR summary.
func EncodeNetworkInfo(e *jx.Encoder, n domain.NetworkInfo) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("cidr", func(e *jx.Encoder) { e.Str(n.CIDR) })
		e.Field("network", func(e *jx.Encoder) { e.Str(n.Network) })
		encodeStr(e, "broadcast", n.Broadcast)
		encodeStr(e, "netmask", n.Netmask)
		e.Field("prefix", func(e *jx.Encoder) { e.Int(n.Prefix) })
		e.Field("firstHost", func(e *jx.Encoder) { e.Str(n.FirstHost) })
		e.Field("lastHost", func(e *jx.Encoder) { e.Str(n.LastHost) })
		e.Field("hostCount", func(e *jx.Encoder) { e.UInt64(n.HostCount) })
	})
}

// EncodeDigests writes computed hashes as an array.
func EncodeDigests(e *jx.Encoder, digests []domain.Digest) {
	e.Arr(func(e *jx.Encoder) {
		for _, d := range digests {
			e.Obj(func(e *jx.Encoder) {
				e.Field("algorithm", func(e *jx.Encoder) { e.Str(d.Algorithm) })
				e.Field("hex", func(e *jx.Encoder) { e.Str(d.Hex) })
				encodeStr(e, "source", d.Source)
			})
		}
	})
}

// EncodeReport writes a stored report with its result, when there is one.
func EncodeReport(e *jx.Encoder, r *domain.Report) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(r.ID.String()) })
		e.Field("kind", func(e *jx.Encoder) { e.Str(string(r.Kind)) })
		e.Field("target", func(e *jx.Encoder) { e.Str(r.Target) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(r.Status)) })
		e.Field("params", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				encodeStr(e, "ports", r.Params.Ports)
				if r.Params.Port > 0 {
					e.Field("port", func(e *jx.Encoder) { e.Int(r.Params.Port) })
				}
			})
		})
		e.Field("attempts", func(e *jx.Encoder) { e.UInt64(uint64(r.Attempts)) })
		encodeTime(e, "createdAt", r.CreatedAt)
		encodeTime(e, "updatedAt", r.UpdatedAt)
		switch {
		case r.Result.PortScan != nil:
			e.Field("portScan", func(e *jx.Encoder) { EncodePortScan(e, r.Result.PortScan) })
		case r.Result.TLS != nil:
			e.Field("tls", func(e *jx.Encoder) { EncodeCertReport(e, r.Result.TLS) })
		}
	})
}

// Encode writes any result type produced by the toolkit.
func Encode(e *jx.Encoder, v any) error {
	switch v := v.(type) {
	case *domain.PortScan:
		EncodePortScan(e, v)
	case []domain.PortScan:
		e.Arr(func(e *jx.Encoder) {
			for i := range v {
				EncodePortScan(e, &v[i])
			}
		})
	case *domain.CertReport:
		EncodeCertReport(e, v)
	case *domain.PasswordReport:
		EncodePasswordReport(e, v)
	case *domain.LogReport:
		EncodeLogReport(e, v)
	case domain.IPInfo:
		EncodeIPInfo(e, v)
	case domain.NetworkInfo:
		EncodeNetworkInfo(e, v)
	case []domain.Digest:
		EncodeDigests(e, v)
	case *domain.Report:
		EncodeReport(e, v)
	case []domain.Report:
		e.Arr(func(e *jx.Encoder) {
			for i := range v {
				EncodeReport(e, &v[i])
			}
		})
	case domain.Finding:
		EncodeFinding(e, v)
	case []domain.Finding:
		e.Arr(func(e *jx.Encoder) {
			for _, f := range v {
				EncodeFinding(e, f)
			}
		})
	case domain.LogEntry:
		EncodeLogEntry(e, v)
	case []string:
		e.Arr(func(e *jx.Encoder) {
			for _, s := range v {
				e.Str(s)
			}
		})
	default:
		return fmt.Errorf("no json encoder for %T", v)
	}

	return nil
}

// WriteJSON encodes v with two space indentation followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	var e jx.Encoder
	e.SetIdent(2)
	if err := Encode(&e, v); err != nil {
		return err
	}

	if _, err := w.Write(append(e.Bytes(), '\n')); err != nil {
		return fmt.Errorf("could not write json: %w", err)
	}

	return nil
}
