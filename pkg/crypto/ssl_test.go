package crypto_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"sectoolkit/pkg/crypto"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/serrors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTLSServer(t *testing.T) (*httptest.Server, int) {
	t.Helper()

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	return srv, srv.Listener.Addr().(*net.TCPAddr).Port
}

// selfSignedPEM creates a self-signed certificate for example.com.
func selfSignedPEM(t *testing.T, key, pub any, notBefore, notAfter time.Time) []byte {
	t.Helper()

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(42),
		Subject:               pkix.Name{CommonName: "example.com"},
		DNSNames:              []string{"example.com", "www.example.com"},
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, pub, key)
	require.NoError(t, err)

	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

func ecdsaPEM(t *testing.T, notBefore, notAfter time.Time) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	return selfSignedPEM(t, key, &key.PublicKey, notBefore, notAfter)
}

func rules(findings []domain.Finding) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Rule)
	}

	return out
}

func TestSSLValidator_Validate_TrustedEndpoint(t *testing.T) {
	srv, port := newTLSServer(t)
	roots := x509.NewCertPool()
	roots.AddCert(srv.Certificate())

	v := crypto.NewSSLValidator(crypto.SSLOptions{RootCAs: roots, Timeout: 5 * time.Second})
	report, err := v.Validate(context.Background(), "127.0.0.1", port)
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1", report.Host)
	require.Equal(t, port, report.Port)
	require.Equal(t, "TLS 1.3", report.TLSVersion)
	require.NotEmpty(t, report.CipherSuite)
	require.True(t, report.ChainValid)
	require.True(t, report.HostnameMatch)
	require.True(t, report.SelfSigned)
	require.Equal(t, []string{"tls.self_signed"}, rules(report.Findings))
	require.True(t, report.Valid)
	require.Equal(t, "RSA", report.Leaf.KeyAlgorithm)
	require.Equal(t, 2048, report.Leaf.KeyBits)
	require.Contains(t, report.Leaf.IPAddresses, "127.0.0.1")
	require.Equal(t, crypto.Fingerprint(srv.Certificate()), report.Leaf.Fingerprint)
	require.Len(t, report.Leaf.Fingerprint, 95)
}

func TestSSLValidator_Validate_UntrustedEndpoint(t *testing.T) {
	_, port := newTLSServer(t)

	v := crypto.NewSSLValidator(crypto.SSLOptions{RootCAs: x509.NewCertPool()})
	report, err := v.Validate(context.Background(), "127.0.0.1", port)
	require.NoError(t, err)
	require.False(t, report.ChainValid)
	require.Contains(t, rules(report.Findings), "tls.untrusted_chain")
	require.False(t, report.Valid)
}

func TestSSLValidator_Validate_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	v := crypto.NewSSLValidator(crypto.SSLOptions{Timeout: time.Second})
	_, err = v.Validate(context.Background(), "127.0.0.1", port)
	require.ErrorIs(t, err, serrors.ErrUnavailable)

	_, err = v.Validate(context.Background(), " ", port)
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestSSLValidator_SupportedVersions(t *testing.T) {
	_, port := newTLSServer(t)

	v := crypto.NewSSLValidator(crypto.SSLOptions{Timeout: 5 * time.Second})
	versions, err := v.SupportedVersions(context.Background(), "127.0.0.1", port)
	require.NoError(t, err)
	require.Contains(t, versions, "TLS 1.2")
	require.Contains(t, versions, "TLS 1.3")
}

func TestSSLValidator_ValidatePEM_Findings(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	roots := x509.NewCertPool()
	v := crypto.NewSSLValidator(crypto.SSLOptions{RootCAs: roots, Now: func() time.Time { return now }})

	t.Run("expired", func(t *testing.T) {
		report, err := v.ValidatePEM(ecdsaPEM(t, now.AddDate(-1, 0, 0), now.AddDate(0, 0, -3)), "example.com")
		require.NoError(t, err)
		require.Equal(t, "tls.expired", report.Findings[0].Rule)
		require.Equal(t, domain.SeverityCritical, report.Findings[0].Severity)
		require.Equal(t, -3, report.DaysRemaining)
		require.False(t, report.Valid)
	})

	t.Run("not yet valid", func(t *testing.T) {
		report, err := v.ValidatePEM(ecdsaPEM(t, now.AddDate(0, 0, 1), now.AddDate(1, 0, 0)), "")
		require.NoError(t, err)
		require.Contains(t, rules(report.Findings), "tls.not_yet_valid")
		require.True(t, report.HostnameMatch)
	})

	t.Run("expiring soon and hostname mismatch", func(t *testing.T) {
		report, err := v.ValidatePEM(ecdsaPEM(t, now.AddDate(0, -2, 0), now.AddDate(0, 0, 10)), "other.org")
		require.NoError(t, err)
		require.Equal(t, []string{
			"tls.expiring_soon",
			"tls.hostname_mismatch",
			"tls.self_signed",
			"tls.untrusted_chain",
		}, rules(report.Findings))
		require.Equal(t, 10, report.DaysRemaining)
		require.Equal(t, "ECDSA", report.Leaf.KeyAlgorithm)
		require.Equal(t, 256, report.Leaf.KeyBits)
	})

	t.Run("trusted by supplied roots", func(t *testing.T) {
		data := ecdsaPEM(t, now.AddDate(0, -1, 0), now.AddDate(1, 0, 0))
		block, _ := pem.Decode(data)
		cert, err := x509.ParseCertificate(block.Bytes)
		require.NoError(t, err)

		pool := x509.NewCertPool()
		pool.AddCert(cert)
		trusting := crypto.NewSSLValidator(crypto.SSLOptions{RootCAs: pool, Now: func() time.Time { return now }})

		report, err := trusting.ValidatePEM(data, "www.example.com")
		require.NoError(t, err)
		require.True(t, report.ChainValid)
		require.True(t, report.Valid)
	})

	t.Run("weak rsa key", func(t *testing.T) {
		key, err := rsa.GenerateKey(rand.Reader, 1024)
		require.NoError(t, err)

		report, err := v.ValidatePEM(selfSignedPEM(t, key, &key.PublicKey, now.AddDate(0, -1, 0), now.AddDate(1, 0, 0)), "")
		require.NoError(t, err)
		require.Contains(t, rules(report.Findings), "tls.weak_key")
		require.Equal(t, 1024, report.Leaf.KeyBits)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := v.ValidatePEM([]byte("garbage"), "")
		require.ErrorIs(t, err, serrors.ErrBadRequest)

		_, err = v.ValidatePEM(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte{1, 2, 3}}), "")
		require.ErrorIs(t, err, serrors.ErrBadRequest)
	})
}
