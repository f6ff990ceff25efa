// SPDX-License-Identifier: MPL-2.0

// Package pypkg defines the packaging request model shared by the CLI,
// the MCP server, and the pipeline: the immutable Request describing what
// to package, and the closed Repository enumeration of upload targets.
//
// Validation lives here so that every entry point (CLI flags, MCP tool
// arguments) rejects malformed requests before any pipeline resources
// are allocated.
package pypkg
