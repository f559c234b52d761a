// Package domain contains the core domain entities and types used by the
// toolkit. These types represent the business concepts (reports, port scans,
// certificates, password and log analyses) and are intentionally free of
// infrastructure concerns so they can be shared across packages.
package domain
