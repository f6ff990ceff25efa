// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for pypack.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"pypack-cli/internal/config"
	"pypack-cli/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// loadedConfig holds the configuration resolved at startup. Never nil
	// after initRootConfig runs; falls back to defaults on load failure.
	loadedConfig = config.DefaultConfig()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "pypack",
		Short: "Package Python code into PyPI-ready distributions",
		Long: TitleStyle.Render("pypack") + SubtitleStyle.Render(" - Package Python code into PyPI-ready distributions") + `

pypack turns a Python source file or directory into a standards-compliant
package: it generates the src/ layout with pyproject.toml, runs quality
gates (ruff lint, pytest), builds sdist and wheel distributions, and can
upload the result to PyPI or TestPyPI.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Point pypack at your Python source
  2. Give the package a name and version
  3. Add a PyPI token when you want to publish

` + SubtitleStyle.Render("Examples:") + `
  pypack package ./mytool.py --name mytool --pkg-version 1.0.0
  pypack package ./src --name mytool --pkg-version 1.0.0 --out ./dist
  pypack package ./src --name mytool --pkg-version 1.0.0 --token $PYPI_TOKEN
  pypack serve              Run as an MCP server over stdio
  pypack config show        Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/pypack/config.toml)")

	// Add subcommands
	rootCmd.AddCommand(packageCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	// Set custom config file path if provided via --config flag
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	if cfg != nil {
		loadedConfig = cfg
		// Apply verbose from config if not set via flag
		if !verbose {
			verbose = cfg.UI.Verbose
		}
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// issueStyle maps the configured color scheme to a glamour style name.
func issueStyle() string {
	return string(loadedConfig.UI.ColorScheme)
}

// renderIssue prints the remediation text for a catalog entry to stderr.
func renderIssue(id issue.Id) {
	rendered, err := issue.Get(id).Render(issueStyle())
	if err != nil {
		return
	}
	fmt.Fprint(os.Stderr, rendered)
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
