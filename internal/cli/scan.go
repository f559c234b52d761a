package cli

import (
	"fmt"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/logger"
	"sectoolkit/pkg/network"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ScanCommand constructs the 'scan' command that runs TCP connect scans
// against hosts, networks and address ranges.
func (a *App) ScanCommand() *cobra.Command {
	var (
		ports       string
		timeout     time.Duration
		concurrency int
		rateLimit   float64
		banner      bool
		retries     int
		openOnly    bool
	)

	cmd := &cobra.Command{
		Use:   "scan <targets...>",
		Short: "Scans TCP ports of hosts, networks and address ranges",
		Example: `  scan 192.0.2.10 --ports 22,80,443
  scan 10.0.0.0/30 10.0.1.1-9 --ports common --banner`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if ports == "" {
				ports = a.Config.Scanner.Ports
			}
			portList, err := network.ParsePorts(ports)
			if err != nil {
				return err //nolint: wrapcheck
			}

			targets, err := network.NewIPUtils(nil).ParseTargets(strings.Join(args, ","))
			if err != nil {
				return err //nolint: wrapcheck
			}

			opts := scannerOptions(a.Config)
			if timeout > 0 {
				opts.Timeout = timeout
			}
			if concurrency > 0 {
				opts.Concurrency = concurrency
			}
			if cmd.Flags().Changed("rate") {
				opts.RateLimit = rateLimit
			}
			if cmd.Flags().Changed("banner") {
				opts.GrabBanner = banner
			}
			if cmd.Flags().Changed("retries") {
				opts.Retries = retries
			}
			opts.OnResult = func(res domain.PortResult) {
				if res.State == domain.PortOpen {
					logger.Debug(ctx, "open port", zap.String("host", res.Host), zap.Int("port", res.Port))
				}
			}

			logger.Info(ctx, "starting scan", zap.Int("targets", len(targets)), zap.Int("ports", len(portList)))
			scans, err := network.NewPortScanner(opts).ScanTargets(ctx, targets, portList)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if openOnly {
				for i := range scans {
					scans[i].Ports = scans[i].OpenPorts()
				}
			}

			if len(scans) == 1 {
				return a.write(cmd, &scans[0])
			}

			return a.write(cmd, scans)
		},
	}

	cmd.Flags().StringVarP(&ports, "ports", "p", "", "Ports to scan: list, ranges, common, top100 or all")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "Connect timeout per probe")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Maximum simultaneous probes")
	cmd.Flags().Float64Var(&rateLimit, "rate", 0, "Maximum probes per second, 0 for unlimited")
	cmd.Flags().BoolVar(&banner, "banner", false, "Read service banners from open ports")
	cmd.Flags().IntVar(&retries, "retries", 0, "Extra attempts for filtered ports")
	cmd.Flags().BoolVar(&openOnly, "open", false, "Only list open ports")

	return cmd
}
