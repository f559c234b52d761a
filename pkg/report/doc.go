// Package report renders tool results for people and machines. JSON output
// is written with go-faster/jx and mirrors the json tags of the domain types;
// text output is styled with lipgloss.
package report
