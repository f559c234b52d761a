package cli

import (
	"fmt"
	"sectoolkit"

	"github.com/go-faster/jx"
	"github.com/spf13/cobra"
)

// VersionCommand constructs the 'version' command printing package metadata.
func (a *App) VersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the toolkit version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.JSON {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s license)\n",
					sectoolkit.Name, sectoolkit.Version, sectoolkit.License)

				return err //nolint: wrapcheck
			}

			var e jx.Encoder
			e.SetIdent(2)
			e.Obj(func(e *jx.Encoder) {
				e.Field("name", func(e *jx.Encoder) { e.Str(sectoolkit.Name) })
				e.Field("version", func(e *jx.Encoder) { e.Str(sectoolkit.Version) })
				e.Field("author", func(e *jx.Encoder) { e.Str(sectoolkit.Author) })
				e.Field("license", func(e *jx.Encoder) { e.Str(sectoolkit.License) })
				e.Field("url", func(e *jx.Encoder) { e.Str(sectoolkit.URL) })
			})

			_, err := fmt.Fprintln(cmd.OutOrStdout(), e.String())

			return err //nolint: wrapcheck
		},
	}
}

// Commands returns every command of the umbrella binary.
func (a *App) Commands() []*cobra.Command {
	return []*cobra.Command{
		a.ScanCommand(),
		a.AnalyzeCommand(),
		a.HashCommand(),
		a.SSLCommand(),
		a.IPCommand(),
		a.LogsCommand(),
		a.ServeCommand(),
		a.MigrateCommand(),
		a.TokenCommand(),
		a.VersionCommand(),
	}
}
