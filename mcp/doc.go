// Package mcp implements the Model Context Protocol server for
// stamboom.
//
// The mcp package provides:
// - MCP server implementation for research-assistant integration
// - Tool definitions covering all four archive sources
// - Argument decoding and validation for MCP clients
package mcp
