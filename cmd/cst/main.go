// Package main provides the cst command: every toolkit utility plus the
// reports API server, its workers and database migrations.
package main

import (
	"sectoolkit/internal/cli"

	"github.com/spf13/cobra"
)

func main() {
	app := cli.NewApp()
	root := app.Bind(&cobra.Command{
		Use:   "cst",
		Short: "Security toolkit for network, crypto and log analysis",
	})
	root.AddCommand(app.Commands()...)

	cli.Run(root)
}
