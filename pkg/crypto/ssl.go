package crypto

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"net"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/logger"
	"sectoolkit/pkg/metrics"
	"sectoolkit/pkg/serrors"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DefaultTLSPort       = 443
	DefaultTLSTimeout    = 10 * time.Second
	DefaultExpiryWarning = 30 * 24 * time.Hour

	minRSABits   = 2048
	minECDSABits = 256
)

// probedVersions are tried in order by SupportedVersions.
var probedVersions = []uint16{tls.VersionTLS10, tls.VersionTLS11, tls.VersionTLS12, tls.VersionTLS13} //nolint: gochecknoglobals

var weakSignatures = map[x509.SignatureAlgorithm]struct{}{ //nolint: gochecknoglobals
	x509.MD2WithRSA:    {},
	x509.MD5WithRSA:    {},
	x509.SHA1WithRSA:   {},
	x509.DSAWithSHA1:   {},
	x509.ECDSAWithSHA1: {},
}

// SSLOptions configures an SSLValidator. Zero values are replaced by defaults.
type SSLOptions struct {
	// Timeout bounds connecting and the handshake.
	Timeout time.Duration
	// ExpiryWarning is how close to expiry a certificate is flagged.
	ExpiryWarning time.Duration
	// RootCAs overrides the system trust store.
	RootCAs *x509.CertPool
	// MinSecureVersion is the lowest protocol version not flagged; defaults to TLS 1.2.
	MinSecureVersion uint16
	// Now is the clock used for validity checks.
	Now func() time.Time
}

// SSLValidator inspects TLS endpoints and certificate chains.
type SSLValidator struct {
	opts   SSLOptions
	tracer trace.Tracer
}

// NewSSLValidator creates an SSLValidator with opts.
func NewSSLValidator(opts SSLOptions) *SSLValidator {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTLSTimeout
	}

	if opts.ExpiryWarning <= 0 {
		opts.ExpiryWarning = DefaultExpiryWarning
	}

	if opts.MinSecureVersion == 0 {
		opts.MinSecureVersion = tls.VersionTLS12
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &SSLValidator{opts: opts, tracer: otel.Tracer("sectoolkit/pkg/crypto")}
}

// dial completes a handshake without built-in verification so that broken
// chains can still be inspected.
func (v *SSLValidator) dial(ctx context.Context, host string, port int, version uint16) (*tls.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, v.opts.Timeout)
	defer cancel()

	d := &tls.Dialer{
		NetDialer: &net.Dialer{},
		Config: &tls.Config{ //nolint: gosec
			ServerName:         host,
			InsecureSkipVerify: true,
			MinVersion:         tls.VersionTLS10,
		},
	}
	if version != 0 {
		d.Config.MinVersion, d.Config.MaxVersion = version, version
	}

	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return nil, serrors.Wrap(serrors.ErrTimeout, err, "tls handshake with %s:%d timed out", host, port)
	case err != nil:
		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "could not connect to %s:%d", host, port)
	}

	return conn.(*tls.Conn), nil
}

// Validate connects to host:port, verifies the presented chain and hostname,
// and reports the negotiated protocol. A zero port means 443.
func (v *SSLValidator) Validate(ctx context.Context, host string, port int) (*domain.CertReport, error) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "host is required")
	}

	if port == 0 {
		port = DefaultTLSPort
	}

	ctx, span := v.tracer.Start(ctx, "SSLValidator.Validate", trace.WithAttributes(
		attribute.String("host", host),
		attribute.Int("port", port),
	))
	defer span.End()

	ctx = logger.WithFields(ctx, zap.String("host", host), zap.Int("port", port))

	conn, err := v.dial(ctx, host, port, 0)
	if err != nil {
		metrics.TLSChecks.WithLabelValues("error").Inc()
		logger.Debug(ctx, "tls connection failed", zap.Error(err))

		return nil, err
	}
	defer conn.Close()

	state := conn.ConnectionState()
	report, err := v.Inspect(state.PeerCertificates, host)
	if err != nil {
		metrics.TLSChecks.WithLabelValues("error").Inc()

		return nil, err
	}

	report.Port = port
	report.TLSVersion = tls.VersionName(state.Version)
	report.CipherSuite = tls.CipherSuiteName(state.CipherSuite)
	if state.Version < v.opts.MinSecureVersion {
		report.Findings = append(report.Findings, domain.Finding{
			Rule:     "tls.weak_protocol",
			Severity: domain.SeverityMedium,
			Message:  "server negotiated " + report.TLSVersion,
			Target:   report.Host,
			Evidence: report.TLSVersion,
		})
	}

	report.Valid = domain.MaxSeverity(report.Findings) < domain.SeverityHigh

	outcome := "valid"
	if !report.Valid {
		outcome = "invalid"
	}

	metrics.TLSChecks.WithLabelValues(outcome).Inc()
	span.SetAttributes(attribute.Bool("valid", report.Valid))
	logger.Debug(ctx, "tls endpoint validated", zap.Bool("valid", report.Valid), zap.Int("findings", len(report.Findings)))

	return report, nil
}

// ValidatePEM inspects a PEM encoded chain, leaf first. An empty host skips
// the hostname check.
func (v *SSLValidator) ValidatePEM(data []byte, host string) (*domain.CertReport, error) {
	var chain []*x509.Certificate
	for block, rest := pem.Decode(data); block != nil; block, rest = pem.Decode(rest) {
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid certificate")
		}

		chain = append(chain, cert)
	}

	if len(chain) == 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "no PEM certificates found")
	}

	return v.Inspect(chain, host)
}

// Inspect evaluates a certificate chain, leaf first, against the trust store,
// the clock and host. An empty host skips the hostname check.
func (v *SSLValidator) Inspect(chain []*x509.Certificate, host string) (*domain.CertReport, error) {
	if len(chain) == 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "no certificates presented")
	}

	now := v.opts.Now().UTC()
	leaf := chain[0]
	report := &domain.CertReport{
		Host:          host,
		Leaf:          certInfo(leaf),
		DaysRemaining: int(leaf.NotAfter.Sub(now).Hours() / 24),
		SelfSigned:    isSelfSigned(leaf),
		HostnameMatch: host == "" || leaf.VerifyHostname(host) == nil,
		CheckedAt:     now,
	}
	for _, c := range chain {
		report.Chain = append(report.Chain, certInfo(c))
	}

	report.ChainValid = v.verifyChain(chain, now) == nil

	finding := func(rule string, sev domain.Severity, msg, evidence string) {
		report.Findings = append(report.Findings, domain.Finding{
			Rule: rule, Severity: sev, Message: msg, Target: host, Evidence: evidence,
		})
	}

	switch {
	case now.After(leaf.NotAfter):
		finding("tls.expired", domain.SeverityCritical, "certificate has expired", leaf.NotAfter.Format(time.RFC3339))
	case now.Before(leaf.NotBefore):
		finding("tls.not_yet_valid", domain.SeverityHigh, "certificate is not valid yet", leaf.NotBefore.Format(time.RFC3339))
	case leaf.NotAfter.Sub(now) <= v.opts.ExpiryWarning:
		finding("tls.expiring_soon", domain.SeverityMedium,
			"certificate expires in "+strconv.Itoa(report.DaysRemaining)+" days", leaf.NotAfter.Format(time.RFC3339))
	}

	if !report.HostnameMatch {
		finding("tls.hostname_mismatch", domain.SeverityHigh, "certificate is not valid for "+host,
			strings.Join(leaf.DNSNames, ","))
	}

	if report.SelfSigned {
		finding("tls.self_signed", domain.SeverityMedium, "certificate is self-signed", leaf.Subject.String())
	}

	if !report.ChainValid {
		finding("tls.untrusted_chain", domain.SeverityHigh, "certificate chain is not trusted", leaf.Issuer.String())
	}

	if weakKey(report.Leaf) {
		finding("tls.weak_key", domain.SeverityHigh, "public key is too short",
			report.Leaf.KeyAlgorithm+" "+strconv.Itoa(report.Leaf.KeyBits))
	}

	if _, weak := weakSignatures[leaf.SignatureAlgorithm]; weak {
		finding("tls.weak_signature", domain.SeverityHigh, "certificate uses a weak signature algorithm",
			leaf.SignatureAlgorithm.String())
	}

	report.Valid = domain.MaxSeverity(report.Findings) < domain.SeverityHigh

	return report, nil
}

// verifyChain checks the chain against the trust store. Validity windows are
// reported as separate findings, so an out of window leaf is verified at a
// time inside its window.
func (v *SSLValidator) verifyChain(chain []*x509.Certificate, now time.Time) error {
	leaf := chain[0]
	at := now
	if now.After(leaf.NotAfter) || now.Before(leaf.NotBefore) {
		at = leaf.NotBefore.Add(leaf.NotAfter.Sub(leaf.NotBefore) / 2)
	}

	intermediates := x509.NewCertPool()
	for _, c := range chain[1:] {
		intermediates.AddCert(c)
	}

	_, err := leaf.Verify(x509.VerifyOptions{
		Roots:         v.opts.RootCAs,
		Intermediates: intermediates,
		CurrentTime:   at,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	})

	return err //nolint: wrapcheck
}

// SupportedVersions reports which protocol versions host:port accepts.
func (v *SSLValidator) SupportedVersions(ctx context.Context, host string, port int) ([]string, error) {
	if port == 0 {
		port = DefaultTLSPort
	}

	var (
		versions []string
		lastErr  error
	)
	for _, version := range probedVersions {
		conn, err := v.dial(ctx, host, port, version)
		if err != nil {
			if ctx.Err() != nil {
				return nil, serrors.Wrap(serrors.ErrTimeout, ctx.Err(), "version probe interrupted")
			}

			lastErr = err

			continue
		}

		_ = conn.Close()
		versions = append(versions, tls.VersionName(version))
	}

	if len(versions) == 0 {
		return nil, lastErr
	}

	return versions, nil
}

func isSelfSigned(cert *x509.Certificate) bool {
	return bytes.Equal(cert.RawIssuer, cert.RawSubject) && cert.CheckSignatureFrom(cert) == nil
}

func weakKey(info domain.CertInfo) bool {
	switch info.KeyAlgorithm {
	case x509.RSA.String():
		return info.KeyBits < minRSABits
	case x509.ECDSA.String():
		return info.KeyBits < minECDSABits
	default:
		return false
	}
}

func certInfo(cert *x509.Certificate) domain.CertInfo {
	info := domain.CertInfo{
		Subject:            cert.Subject.String(),
		Issuer:             cert.Issuer.String(),
		DNSNames:           cert.DNSNames,
		SerialNumber:       cert.SerialNumber.String(),
		NotBefore:          cert.NotBefore.UTC(),
		NotAfter:           cert.NotAfter.UTC(),
		Fingerprint:        Fingerprint(cert),
		SignatureAlgorithm: cert.SignatureAlgorithm.String(),
		KeyAlgorithm:       cert.PublicKeyAlgorithm.String(),
		IsCA:               cert.IsCA,
	}
	for _, ip := range cert.IPAddresses {
		info.IPAddresses = append(info.IPAddresses, ip.String())
	}

	switch key := cert.PublicKey.(type) {
	case *rsa.PublicKey:
		info.KeyBits = key.N.BitLen()
	case *ecdsa.PublicKey:
		info.KeyBits = key.Curve.Params().BitSize
	case ed25519.PublicKey:
		info.KeyBits = 256
	}

	return info
}

// Fingerprint returns the colon separated upper-case SHA-256 fingerprint of cert.
func Fingerprint(cert *x509.Certificate) string {
	sum := sha256.Sum256(cert.Raw)
	h := strings.ToUpper(hex.EncodeToString(sum[:]))

	parts := make([]string, 0, len(sum))
	for i := 0; i < len(h); i += 2 {
		parts = append(parts, h[i:i+2])
	}

	return strings.Join(parts, ":")
}
