// Package main provides cst-scan, the standalone TCP port scanner.
package main

import "sectoolkit/internal/cli"

func main() {
	app := cli.NewApp()
	root := app.Bind(app.ScanCommand())
	root.Use = "cst-scan <targets...>"

	cli.Run(root)
}
