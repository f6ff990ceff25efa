// SPDX-License-Identifier: MPL-2.0

// Package mcpserver exposes the packaging pipeline over the Model Context
// Protocol so agent clients can drive it through a stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pypack-cli/internal/pipeline"
	"pypack-cli/pkg/pypkg"
)

// Runner executes one packaging request. Satisfied by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, req pypkg.Request) (*pipeline.Report, error)
}

// Server wraps the pipeline and exposes it via Model Context Protocol.
type Server struct {
	runner Runner
	server *server.MCPServer
}

// New creates an MCP server backed by the given pipeline runner.
func New(runner Runner, version string) *Server {
	s := &Server{runner: runner}

	s.server = server.NewMCPServer(
		"pypack",
		version,
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// registerTools registers the packaging tools.
func (s *Server) registerTools() {
	packageTool := mcp.NewTool("create_pypi_package",
		mcp.WithDescription("Package Python source code into a PyPI-ready distribution: generate the project layout, run quality gates, build sdist and wheel, and optionally upload"),
		mcp.WithString("source_path",
			mcp.Required(),
			mcp.Description("Path to the Python source file or directory to package"),
		),
		mcp.WithString("package_name",
			mcp.Required(),
			mcp.Description("Distribution name for the package (e.g., 'awesome-tool')"),
		),
		mcp.WithString("version",
			mcp.Required(),
			mcp.Description("Semantic version for the release (e.g., '1.0.0')"),
		),
		mcp.WithString("pypi_token",
			mcp.Description("PyPI API token; when set the built artifacts are uploaded"),
		),
		mcp.WithBoolean("test_pypi",
			mcp.Description("Upload to TestPyPI instead of PyPI (default: false)"),
		),
		mcp.WithBoolean("run_tests",
			mcp.Description("Run the pytest gate before building (default: true)"),
		),
		mcp.WithBoolean("lint_code",
			mcp.Description("Run the ruff lint gate before building (default: true)"),
		),
		mcp.WithString("min_python",
			mcp.Description("Minimum supported Python version (default: '3.8')"),
		),
	)
	s.server.AddTool(packageTool, s.handleCreatePackage)
}

// handleCreatePackage handles create_pypi_package tool calls.
func (s *Server) handleCreatePackage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourcePath, err := request.RequireString("source_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	packageName, err := request.RequireString("package_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	version, err := request.RequireString("version")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pypkg.NewRequest(sourcePath, packageName, version)
	req.Token = request.GetString("pypi_token", "")
	req.RunTests = request.GetBool("run_tests", true)
	req.LintCode = request.GetBool("lint_code", true)
	if minPython := request.GetString("min_python", ""); minPython != "" {
		req.MinPython = minPython
	}
	if request.GetBool("test_pypi", false) {
		req.Repository = pypkg.RepositoryTestPyPI
	}

	report, err := s.runner.Run(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to run pipeline: %v", err)), nil
	}

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode report: %v", err)), nil
	}

	// A failed run is still a successful tool call: the stage outcomes
	// carry the diagnostics and the client decides what to retry.
	return mcp.NewToolResultText(string(payload)), nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve() error {
	return server.ServeStdio(s.server)
}
