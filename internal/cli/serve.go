package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sectoolkit/internal/api"
	"sectoolkit/internal/api/handler/v1handler"
	"sectoolkit/internal/reports"
	"sectoolkit/internal/worker"
	"sectoolkit/pkg/controller"
	"sectoolkit/pkg/crypto"
	"sectoolkit/pkg/logger"
	"sectoolkit/pkg/network"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/riverqueue/river"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ServeCommand constructs the 'serve' command that starts the API server and
// the background report workers until the process is interrupted.
func (a *App) ServeCommand() *cobra.Command {
	var noWorkers bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts API server and background workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := a.Config

			pgsql, closePostgres, err := getPostgres(ctx, cfg)
			if err != nil {
				return err
			}
			defer closePostgres()

			redisClient := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn(ctx, "could not close redis client", zap.Error(err))
				}
			}()
			if err := redisClient.Ping(ctx).Err(); err != nil {
				logger.Warn(ctx, "redis is not reachable, rate limiting is disabled until it is", zap.Error(err))
			}

			validator, err := newSSLValidator(cfg, 0, "")
			if err != nil {
				return err
			}

			analyzer, err := newPasswordAnalyzer(cfg, 0, "")
			if err != nil {
				return err
			}

			service := reports.New(pgsql, network.NewPortScanner(scannerOptions(cfg)), validator, reports.NewOptions(cfg))

			server, err := api.NewServer(api.Deps{
				Deps: v1handler.Deps{
					Reports:  service,
					Password: analyzer,
					Hash:     crypto.NewHashUtils(crypto.Argon2Params{}),
					IP:       network.NewIPUtils(nil),
				},
				Redis:  redisClient,
				Health: map[string]controller.HealthCheck{
					"postgres": pgsql.Ping,
					"redis": func(ctx context.Context) error {
						return redisClient.Ping(ctx).Err() //nolint: wrapcheck
					},
				},
			}, api.NewOptions(cfg))
			if err != nil {
				return fmt.Errorf("could not create webserver: %w", err)
			}

			var riverClient *river.Client[pgx.Tx]
			if !noWorkers {
				logger.Info(ctx, "starting workers...")
				riverClient, err = worker.Start(ctx, pgsql.Pool, service, worker.NewOptions(cfg))
				if err != nil {
					return err //nolint: wrapcheck
				}
			}

			serveErr := make(chan error, 1)
			go func() {
				logger.Info(ctx, "starting webserver...", zap.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
			}()

			// wait for interrupt
			select {
			case <-ctx.Done():
			case err = <-serveErr:
				err = fmt.Errorf("could not start webserver: %w", err)
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.GracefulShutdownTimeout)
			defer cancel()

			logger.Info(ctx, "stopping webserver...")
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error(ctx, "could not stop webserver", zap.Error(err))
			}

			if riverClient != nil {
				logger.Info(ctx, "stopping workers...")
				if err := riverClient.Stop(shutdownCtx); err != nil {
					logger.Error(ctx, "could not stop workers", zap.Error(err))
				}
			}

			return err
		},
	}

	cmd.Flags().BoolVar(&noWorkers, "no-workers", false, "Only serve the API, jobs are processed elsewhere")

	return cmd
}
