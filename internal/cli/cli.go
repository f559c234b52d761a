// Package cli builds the cobra commands of the cst binaries. Every binary
// binds its root command to an App, which loads the configuration and sets up
// logging before any command runs.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sectoolkit"
	"sectoolkit/internal/config"
	"sectoolkit/pkg/logger"
	"sectoolkit/pkg/report"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App carries the state shared by the commands of a binary.
type App struct {
	// Config is loaded before a command runs.
	Config *config.Config
	// JSON selects machine readable output.
	JSON bool

	configPath string
}

func NewApp() *App {
	return &App{}
}

// Bind installs the persistent flags and the configuration loading on cmd,
// which becomes the root command of a binary.
func (a *App) Bind(cmd *cobra.Command) *cobra.Command {
	cmd.Version = sectoolkit.Version
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "config.yml", "Config File Path")
	cmd.PersistentFlags().BoolVar(&a.JSON, "json", false, "Print machine readable JSON")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.load()
	}

	return cmd
}

func (a *App) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}

	logger.Setup(cfg.Environment, cfg.LogLevel)
	a.Config = cfg

	return nil
}

// write renders v on the command output.
func (a *App) write(cmd *cobra.Command, v any) error {
	if a.JSON {
		return report.WriteJSON(cmd.OutOrStdout(), v) //nolint: wrapcheck
	}

	return report.NewTextWriter(cmd.OutOrStdout()).Write(v) //nolint: wrapcheck
}

// Run executes root until it finishes or the process is interrupted. Errors
// are logged and end the process with exit status 1.
func Run(root *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	// replaced once the configuration is loaded
	logger.Setup(logger.DevelopmentEnvironment)

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync()

			panic(p)
		}
	}()

	err := root.ExecuteContext(ctx)
	if err != nil {
		logger.Error(ctx, "command failed", zap.Error(err))
	}

	logger.Sync()
	stop()

	if err != nil {
		os.Exit(1)
	}
}
