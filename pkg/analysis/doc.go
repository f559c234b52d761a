// Package analysis implements the analysis utilities of the toolkit:
// PasswordAnalyzer estimates password strength and generates passwords, and
// LogParser normalizes syslog, access and JSON logs and detects suspicious
// activity in them.
package analysis
