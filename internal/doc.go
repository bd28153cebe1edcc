// Package internal contains the core implementation packages for the blog
// CLI.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the blog tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - config: Configuration management with validation
//   - errors: Structured errors with document locations
//   - export: Content records and manifest output for publishing tools
//   - lint: Editorial checks over the scanned collection
//   - logging: Structured logging built on log/slog
//   - markdown: Front matter and body structure extraction
//   - registry: Document registry and event broadcasting
//   - scanner: Content directory scanning and field derivation
//   - slug: Slug derivation and filename date conventions
//   - stats: Collection-level aggregation
//   - store: SQLite index behind full-text search
//   - tui: Interactive terminal browser
//   - types: Shared document, asset, and event types
//   - version: Build-time version information
//   - watcher: File system monitoring with debouncing
//
// # Inter-Package Communication
//
// Packages communicate through a small set of seams:
//
//   - The scanner populates the registry and records slug collisions
//   - The registry is the single in-memory view every command reads
//   - Lint and export resolve references the same way, against the registry
//   - The store holds exported records so search does not rescan
//   - The watcher feeds debounced change batches back into the scanner
//
// The content directory is the source of truth throughout; the index and
// the manifest are derived artifacts that can always be rebuilt from it.
package internal
