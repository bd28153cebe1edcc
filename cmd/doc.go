// Package cmd provides the command-line interface for the blog toolkit.
//
// This package implements all CLI commands using the Cobra framework,
// covering the authoring workflow for a Markdown article collection.
//
// # Available Commands
//
//   - new: Scaffold a date-prefixed article with front matter
//   - list: List the collection with metadata in canonical order
//   - lint: Run editorial checks (broken links, missing images, metadata)
//   - export: Write the content manifest a publishing tool ingests
//   - stats: Aggregate collection statistics
//   - index: Build or refresh the local SQLite search index
//   - search: Full-text query against the index
//   - browse: Interactive terminal browser over the collection
//   - watch: Re-scan and re-lint on file changes
//   - config: Manage the .blog.yml configuration file
//
// # Command Examples
//
//	// Scaffold an article
//	blog new "Generics Have Landed" --tags go
//
//	// Lint strictly, warnings fail too
//	blog lint --strict
//
//	// Export NDJSON to stdout
//	blog export -o - -f ndjson
//
//	// Search the index
//	blog search "error handling" --tag go
//
//	// Watch during an editing session
//	blog watch
//
// # Configuration Integration
//
// Commands respect configuration from multiple sources in order of precedence:
//
//  1. Command-line flags (highest priority)
//  2. Environment variables (BLOG_*)
//  3. Configuration file (.blog.yml)
//  4. Default values (lowest priority)
//
// # Error Handling
//
// Operational failures return structured errors through RunE; editorial
// findings are lint diagnostics, not errors, and reach the shell as exit
// codes. Long-running commands handle SIGINT cleanly.
//
// For detailed usage of individual commands, see their respective documentation.
package cmd
