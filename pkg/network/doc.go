// Package network implements the network utilities of the toolkit: IPUtils
// for address classification and target expansion, and PortScanner for
// concurrent TCP connect scanning with optional banner grabbing.
package network
