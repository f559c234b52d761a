// Package sectoolkit is the security toolkit: network, crypto and analysis
// utilities shared by the cst command line tools and the reports API.
//
// The package republishes the six utilities and their constructors so that
// callers can depend on the root package alone:
//
//	scanner := sectoolkit.NewPortScanner(sectoolkit.ScanOptions{Concurrency: 50})
//	report, err := scanner.Scan(ctx, "192.0.2.10", []int{22, 80, 443})
package sectoolkit

import (
	"embed"
	"sectoolkit/pkg/analysis"
	"sectoolkit/pkg/crypto"
	"sectoolkit/pkg/network"
)

// Package metadata.
const (
	Name        = "security-toolkit"
	Version     = "1.0.0"
	Author      = "Security Development Team"
	AuthorEmail = "security@example.com"
	License     = "MIT"
	URL         = "https://github.com/example/security-toolkit"
)

// Keywords describe the toolkit in package indexes.
var Keywords = []string{"security", "network", "port-scanner", "tls", "password", "hash", "log-analysis"} //nolint: gochecknoglobals

// Description is the long description of the toolkit.
//
//go:embed README.md
var Description string

// Migrations holds the goose migrations of the reports database.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Network utilities.
type (
	PortScanner = network.PortScanner
	ScanOptions = network.Options
	IPUtils     = network.IPUtils
)

// Crypto utilities.
type (
	HashUtils    = crypto.HashUtils
	SSLValidator = crypto.SSLValidator
	SSLOptions   = crypto.SSLOptions
)

// Analysis utilities.
type (
	PasswordAnalyzer = analysis.PasswordAnalyzer
	PasswordOptions  = analysis.PasswordOptions
	LogParser        = analysis.LogParser
	LogOptions       = analysis.LogOptions
)

//nolint: gochecknoglobals
var (
	NewPortScanner      = network.NewPortScanner
	NewIPUtils          = network.NewIPUtils
	NewHashUtils        = crypto.NewHashUtils
	NewSSLValidator     = crypto.NewSSLValidator
	NewPasswordAnalyzer = analysis.NewPasswordAnalyzer
	NewLogParser        = analysis.NewLogParser
)
