package cli

import (
	"errors"
	"fmt"
	"os"
	"sectoolkit/internal/reports"
	"sectoolkit/pkg/crypto"
	"sectoolkit/pkg/serrors"
	"time"

	"github.com/spf13/cobra"
)

// ErrInvalidCertificate is returned in strict mode when a certificate report
// carries high or critical findings.
var ErrInvalidCertificate = errors.New("certificate is not valid")

// SSLCommand constructs the 'ssl' command that validates the certificate of
// a TLS endpoint or of a PEM bundle.
func (a *App) SSLCommand() *cobra.Command {
	var (
		port     int
		pemPath  string
		caPath   string
		timeout  time.Duration
		versions bool
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "ssl <host[:port]>",
		Short: "Validates TLS certificates of endpoints and PEM files",
		Example: `  ssl example.com
  ssl mail.example.com:465 --strict
  ssl --pem chain.pem example.com
  ssl example.com --versions`,
		Args: cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validator, err := newSSLValidator(a.Config, timeout, caPath)
			if err != nil {
				return err
			}

			var host string
			if len(args) == 1 {
				host = args[0]
			}

			if pemPath != "" {
				data, err := os.ReadFile(pemPath)
				if err != nil {
					return fmt.Errorf("could not read PEM file: %w", err)
				}

				res, err := validator.ValidatePEM(data, host)
				if err != nil {
					return err //nolint: wrapcheck
				}

				if err := a.write(cmd, res); err != nil {
					return err
				}

				return checkCert(res.Valid, strict)
			}

			if host == "" {
				return serrors.With(serrors.ErrBadRequest, "a host or --pem is required")
			}

			host, targetPort, err := reports.NormalizeTarget(host)
			if err != nil {
				return serrors.Wrap(serrors.ErrBadRequest, err, "invalid host")
			}

			switch {
			case port > 0 && targetPort > 0 && port != targetPort:
				return serrors.With(serrors.ErrBadRequest, "port %d conflicts with the port of the host", port)
			case port == 0 && targetPort > 0:
				port = targetPort
			case port == 0:
				port = crypto.DefaultTLSPort
			}

			if versions {
				supported, err := validator.SupportedVersions(cmd.Context(), host, port)
				if err != nil {
					return err //nolint: wrapcheck
				}

				return a.write(cmd, supported)
			}

			res, err := validator.Validate(cmd.Context(), host, port)
			if err != nil {
				return err //nolint: wrapcheck
			}

			if err := a.write(cmd, res); err != nil {
				return err
			}

			return checkCert(res.Valid, strict)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "TLS port, defaults to the port of the host or 443")
	cmd.Flags().StringVar(&pemPath, "pem", "", "Validate a PEM encoded chain instead of connecting")
	cmd.Flags().StringVar(&caPath, "ca", "", "PEM bundle replacing the system roots")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "Connect and handshake timeout")
	cmd.Flags().BoolVar(&versions, "versions", false, "List the protocol versions the endpoint accepts")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when the certificate is not valid")

	return cmd
}

func checkCert(valid, strict bool) error {
	if strict && !valid {
		return ErrInvalidCertificate
	}

	return nil
}
