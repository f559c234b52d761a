// Package crypto implements the cryptographic utilities of the toolkit:
// HashUtils for digests, HMACs and password hashes, and SSLValidator for
// TLS endpoint and certificate validation.
package crypto
