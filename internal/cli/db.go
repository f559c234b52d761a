package cli

import (
	"context"
	"fmt"
	"sectoolkit"
	"sectoolkit/internal/config"
	"sectoolkit/pkg/logger"
	"sectoolkit/pkg/storage/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// getPostgres creates a PostgreSQL client using configuration values and returns it
// along with a cleanup function to close the connection pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func(), error) {
	pgsql, err := postgres.New(ctx, postgresOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("could not create postgres storage: %w", err)
	}

	return pgsql, func() {
		logger.Info(ctx, "closing postgres client...")
		if err := pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
		}
	}, nil
}

// MigrateCommand constructs the 'migrate' command that applies the database
// migrations of the reports service and River to the latest version.
func (a *App) MigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrates database to the latest version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pgsql, closePostgres, err := getPostgres(ctx, a.Config)
			if err != nil {
				return err
			}
			defer closePostgres()

			return pgsql.Migrate(ctx, sectoolkit.Migrations, "migrations") //nolint: wrapcheck
		},
	}
}
