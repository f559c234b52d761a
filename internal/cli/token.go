package cli

import (
	"fmt"
	"os"
	"sectoolkit/internal/api/handler/v1handler"
	"sectoolkit/pkg/serrors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// TokenCommand constructs the 'token' command that generates a signed RS256
// JWT for a given subject (user ID) using the configured private key.
func (a *App) TokenCommand() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
		keyPath string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generates JWT token for given user ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(subject); err != nil {
				return serrors.Wrap(serrors.ErrBadRequest, err, "subject must be a user UUID")
			}

			if ttl <= 0 {
				ttl = a.Config.JWT.TTL
			}

			if keyPath == "" {
				keyPath = a.Config.JWT.PrivateKeyPath
			}

			data, err := os.ReadFile(keyPath)
			if err != nil {
				return fmt.Errorf("could not read private key: %w", err)
			}

			key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
			if err != nil {
				return fmt.Errorf("could not parse RSA private key: %w", err)
			}

			signed, err := v1handler.IssueToken(key, a.Config.JWT.Issuer, subject, ttl)
			if err != nil {
				return err //nolint: wrapcheck
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), signed)

			return err //nolint: wrapcheck
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "JWT subject (user ID)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token TTL (e.g., 30s, 15m, 1h)")
	cmd.Flags().StringVar(&keyPath, "key", "", "PEM encoded RSA private key")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
