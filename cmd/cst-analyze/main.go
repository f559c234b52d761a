// Package main provides cst-analyze, the standalone password strength analyzer.
package main

import "sectoolkit/internal/cli"

func main() {
	app := cli.NewApp()
	root := app.Bind(app.AnalyzeCommand())
	root.Use = "cst-analyze [password]"

	cli.Run(root)
}
