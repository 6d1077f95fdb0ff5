// Package cli implements the command-line interface for stamboom.
//
// The cli package provides:
// - Command-line argument parsing and validation
// - Terminal rendering of search results and records
// - A pager for long documents
// - Browser integration for record permalinks
package cli
