package cli

import (
	"fmt"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/logger"
	"sectoolkit/pkg/report"
	"sectoolkit/pkg/serrors"

	"github.com/go-faster/jx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// LogsCommand constructs the 'logs' command that analyzes log files for
// attacks and suspicious activity, or follows a growing file.
func (a *App) LogsCommand() *cobra.Command {
	var (
		flags  logFlags
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "logs <file...>",
		Short: "Analyzes syslog, access and JSON logs for attacks",
		Example: `  logs /var/log/auth.log
  logs access.log --format access --top 20
  cat app.log | logs -
  logs /var/log/nginx/access.log --follow`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			parser, err := newLogParser(a.Config, flags)
			if err != nil {
				return err
			}

			if follow {
				if len(args) != 1 || args[0] == "-" {
					return serrors.With(serrors.ErrBadRequest, "--follow needs exactly one file")
				}

				logger.Info(ctx, "following log file", zap.String("path", args[0]))

				return parser.Follow(ctx, args[0], a.entryWriter(cmd)) //nolint: wrapcheck
			}

			for _, path := range args {
				var res *domain.LogReport
				if path == "-" {
					res, err = parser.Analyze(ctx, cmd.InOrStdin())
					if res != nil {
						res.Source = "stdin"
					}
				} else {
					res, err = parser.AnalyzeFile(ctx, path)
				}

				if err != nil {
					return err //nolint: wrapcheck
				}

				if err := a.write(cmd, res); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "", "Log format: auto, syslog, rfc5424, access or json")
	cmd.Flags().StringVar(&flags.rulesPath, "rules", "", "YAML file with extra attack signatures")
	cmd.Flags().IntVar(&flags.bruteForceThreshold, "brute-force-threshold", 0, "Failed logins per IP reported as brute force")
	cmd.Flags().IntVar(&flags.scanThreshold, "scan-threshold", 0, "404 responses per IP reported as scanning")
	cmd.Flags().IntVar(&flags.topN, "top", 0, "Number of top sources listed")
	cmd.Flags().BoolVar(&follow, "follow", false, "Print entries appended to the file until interrupted")

	return cmd
}

// entryWriter prints followed entries, one JSON document per line in JSON mode.
func (a *App) entryWriter(cmd *cobra.Command) func(domain.LogEntry) error {
	out := cmd.OutOrStdout()
	if !a.JSON {
		w := report.NewTextWriter(out)

		return func(entry domain.LogEntry) error { return w.Write(entry) } //nolint: wrapcheck
	}

	return func(entry domain.LogEntry) error {
		var e jx.Encoder
		report.EncodeLogEntry(&e, entry)
		if _, err := out.Write(append(e.Bytes(), '\n')); err != nil {
			return fmt.Errorf("could not write entry: %w", err)
		}

		return nil
	}
}
