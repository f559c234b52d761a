package cli

import (
	"fmt"
	"sectoolkit/pkg/network"
	"strings"

	"github.com/go-faster/jx"
	"github.com/spf13/cobra"
)

// IPCommand constructs the 'ip' command that classifies addresses, describes
// networks and resolves names.
func (a *App) IPCommand() *cobra.Command {
	var (
		contains string
		expand   bool
		limit    int
		reverse  bool
		targets  bool
	)

	cmd := &cobra.Command{
		Use:   "ip <address|cidr|host>",
		Short: "Classifies IP addresses, describes networks and resolves hosts",
		Example: `  ip 10.1.2.3
  ip 192.168.0.0/22
  ip 10.0.0.0/29 --expand
  ip 10.0.0.0/8 --contains 10.20.30.40
  ip 8.8.8.8 --reverse
  ip example.com
  ip --targets 10.0.0.1-5,192.0.2.0/30`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := network.NewIPUtils(nil)
			arg := args[0]

			switch {
			case targets:
				list, err := u.ParseTargets(strings.Join(args, ","))
				if err != nil {
					return err //nolint: wrapcheck
				}

				return a.write(cmd, list)
			case contains != "":
				ok, err := u.Contains(arg, contains)
				if err != nil {
					return err //nolint: wrapcheck
				}

				return a.writeContains(cmd, arg, contains, ok)
			case strings.Contains(arg, "/") && expand:
				hosts, err := u.ExpandCIDR(arg, limit)
				if err != nil {
					return err //nolint: wrapcheck
				}

				return a.write(cmd, hosts)
			case strings.Contains(arg, "/"):
				info, err := u.NetworkInfo(arg)
				if err != nil {
					return err //nolint: wrapcheck
				}

				return a.write(cmd, info)
			case u.IsValid(arg) && reverse:
				names, err := u.ReverseLookup(cmd.Context(), arg)
				if err != nil {
					return err //nolint: wrapcheck
				}

				return a.write(cmd, names)
			case u.IsValid(arg):
				info, err := u.Classify(arg)
				if err != nil {
					return err //nolint: wrapcheck
				}

				return a.write(cmd, info)
			default:
				addrs, err := u.Resolve(cmd.Context(), arg)
				if err != nil {
					return err //nolint: wrapcheck
				}

				return a.write(cmd, addrs)
			}
		},
	}

	cmd.Flags().StringVar(&contains, "contains", "", "Check whether the network contains this address")
	cmd.Flags().BoolVar(&expand, "expand", false, "List the usable hosts of the network")
	cmd.Flags().IntVar(&limit, "limit", network.DefaultExpandLimit, "Maximum hosts listed by --expand")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "Look up the PTR names of the address")
	cmd.Flags().BoolVar(&targets, "targets", false, "Expand a target list of addresses, networks and ranges")

	return cmd
}

func (a *App) writeContains(cmd *cobra.Command, cidr, ip string, ok bool) error {
	if a.JSON {
		var e jx.Encoder
		e.Obj(func(e *jx.Encoder) {
			e.Field("network", func(e *jx.Encoder) { e.Str(cidr) })
			e.Field("address", func(e *jx.Encoder) { e.Str(ip) })
			e.Field("contains", func(e *jx.Encoder) { e.Bool(ok) })
		})

		_, err := fmt.Fprintln(cmd.OutOrStdout(), e.String())

		return err //nolint: wrapcheck
	}

	verb := "contains"
	if !ok {
		verb = "does not contain"
	}

	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", cidr, verb, ip)

	return err //nolint: wrapcheck
}
