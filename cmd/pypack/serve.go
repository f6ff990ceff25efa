// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"pypack-cli/internal/mcpserver"
)

// serveCmd runs pypack as a Model Context Protocol server over stdio.
// Stdout belongs to the protocol, so pipeline logging is discarded
// unless verbose mode routes it to stderr.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run pypack as an MCP server over stdio",
	Long: `Run pypack as a Model Context Protocol server over stdio.

Exposes the 'create_pypi_package' tool so MCP clients (agents, editors)
can drive the packaging pipeline: layout generation, quality gates,
distribution builds, and optional uploads.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.New(io.Discard)
		if verbose {
			logger = newLogger()
		}

		p := buildPipeline(loadedConfig, logger, "")
		server := mcpserver.New(p, getVersionString())
		return server.Serve()
	},
}
