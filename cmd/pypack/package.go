// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"pypack-cli/internal/build"
	"pypack-cli/internal/config"
	"pypack-cli/internal/gate"
	"pypack-cli/internal/issue"
	"pypack-cli/internal/layout"
	"pypack-cli/internal/pipeline"
	"pypack-cli/internal/publish"
	"pypack-cli/internal/toolrun"
	"pypack-cli/internal/workspace"
	"pypack-cli/pkg/pypkg"
)

var (
	pkgName       string
	pkgVersion    string
	pkgToken      string
	pkgRepository string
	pkgLint       bool
	pkgTests      bool
	pkgMinPython  string
	pkgOutDir     string
	pkgJSON       bool

	packageCmd = &cobra.Command{
		Use:   "package <source>",
		Short: "Package Python source into sdist and wheel distributions",
		Long: `Package a Python source file or directory into PyPI-ready distributions.

The source is staged into a temporary workspace with a generated src/
layout, pyproject.toml, and README. Quality gates (ruff, pytest) run
before the build; distributions are built with 'python -m build'. When
a token is supplied the artifacts are uploaded with twine.

The workspace is removed after every run. Use --out to keep the built
artifacts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackage(cmd, args[0])
		},
	}
)

func init() {
	packageCmd.Flags().StringVar(&pkgName, "name", "", "distribution name for the package (required)")
	packageCmd.Flags().StringVar(&pkgVersion, "pkg-version", "", "semantic version for the release (required)")
	packageCmd.Flags().StringVar(&pkgToken, "token", "", "PyPI API token; when set the artifacts are uploaded")
	packageCmd.Flags().StringVar(&pkgRepository, "repository", "", "upload target: pypi or testpypi (default from config)")
	packageCmd.Flags().BoolVar(&pkgLint, "lint", true, "run the ruff lint gate")
	packageCmd.Flags().BoolVar(&pkgTests, "tests", true, "run the pytest gate")
	packageCmd.Flags().StringVar(&pkgMinPython, "min-python", "", "minimum supported Python version (default from config)")
	packageCmd.Flags().StringVar(&pkgOutDir, "out", "", "directory to copy built artifacts into")
	packageCmd.Flags().BoolVar(&pkgJSON, "json", false, "print the pipeline report as JSON")

	_ = packageCmd.MarkFlagRequired("name")
	_ = packageCmd.MarkFlagRequired("pkg-version")
}

func runPackage(cmd *cobra.Command, source string) error {
	req, err := buildRequest(cmd, source)
	if err != nil {
		return err
	}

	if missing := missingTools(req, loadedConfig); len(missing) > 0 {
		var names []string
		for _, m := range missing {
			renderIssue(m.id)
			names = append(names, m.tool)
		}
		return &ExitError{Code: 2, Err: fmt.Errorf("required tools not found: %s", strings.Join(names, ", "))}
	}

	p := buildPipeline(loadedConfig, newLogger(), pkgOutDir)

	report, err := p.Run(cmd.Context(), req)
	if err != nil {
		var valErr *pypkg.ValidationError
		if errors.As(err, &valErr) {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render("Invalid request:"))
			for _, fieldErr := range valErr.FieldErrors {
				fmt.Fprintf(os.Stderr, "  %s %s\n", ErrorStyle.Render("✗"), fieldErr)
			}
			for _, id := range validationIssues(valErr) {
				renderIssue(id)
			}
			return &ExitError{Code: 2, Err: err}
		}
		renderIssue(issue.WorkspaceAllocFailedId)
		return err
	}

	if pkgJSON {
		payload, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		fmt.Println(string(payload))
	} else {
		printReport(report)
	}

	if !report.Success {
		if outcome, ok := report.Outcome(pipeline.StageBuild); ok && outcome.Status == pipeline.StatusFailed &&
			strings.Contains(outcome.Output, "No module named build") {
			renderIssue(issue.BuildModuleMissingId)
		}
		return &ExitError{Code: 1, Err: errors.New(report.Summary)}
	}
	return nil
}

// lookPath is swapped in tests to simulate missing tools.
var lookPath = toolrun.LookPath

type toolCheck struct {
	tool string
	id   issue.Id
}

// missingTools resolves every external tool this request will invoke,
// honoring configured path overrides, and returns the catalog entries
// for the ones not found. Runs before any workspace is created.
func missingTools(req pypkg.Request, cfg *config.Config) []toolCheck {
	checks := []toolCheck{
		{toolOrDefault(cfg.Tools.Python, "python"), issue.PythonNotFoundId},
	}
	if req.LintCode {
		checks = append(checks, toolCheck{toolOrDefault(cfg.Tools.Ruff, "ruff"), issue.RuffNotFoundId})
	}
	if req.RunTests {
		checks = append(checks, toolCheck{toolOrDefault(cfg.Tools.Pytest, "pytest"), issue.PytestNotFoundId})
	}
	if req.ShouldPublish() {
		checks = append(checks, toolCheck{toolOrDefault(cfg.Tools.Twine, "twine"), issue.TwineNotFoundId})
	}

	var missing []toolCheck
	for _, check := range checks {
		if !lookPath(check.tool) {
			missing = append(missing, check)
		}
	}
	return missing
}

func toolOrDefault(override config.ToolPath, name string) string {
	if override != "" {
		return string(override)
	}
	return name
}

// validationIssues maps request field errors to catalog entries.
func validationIssues(valErr *pypkg.ValidationError) []issue.Id {
	var ids []issue.Id
	seen := make(map[issue.Id]bool)
	add := func(id issue.Id) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, fieldErr := range valErr.FieldErrors {
		switch {
		case errors.Is(fieldErr, pypkg.ErrSourceNotFound):
			add(issue.SourceNotFoundId)
		case errors.Is(fieldErr, pypkg.ErrNameInvalid):
			add(issue.InvalidPackageNameId)
		case errors.Is(fieldErr, pypkg.ErrVersionInvalid):
			add(issue.InvalidVersionId)
		}
	}
	return ids
}

// buildRequest merges config defaults and flags into a pipeline request.
// Flags the user did not touch fall back to the configured defaults.
func buildRequest(cmd *cobra.Command, source string) (pypkg.Request, error) {
	req := pypkg.NewRequest(source, pkgName, pkgVersion)
	req.Token = pkgToken

	req.LintCode = loadedConfig.Gates.Lint
	if cmd.Flags().Changed("lint") {
		req.LintCode = pkgLint
	}
	req.RunTests = loadedConfig.Gates.Tests
	if cmd.Flags().Changed("tests") {
		req.RunTests = pkgTests
	}

	req.MinPython = string(loadedConfig.MinPython)
	if pkgMinPython != "" {
		req.MinPython = pkgMinPython
	}

	repoValue := loadedConfig.Repository
	if pkgRepository != "" {
		repoValue = pkgRepository
	}
	repo, err := pypkg.ParseRepository(repoValue)
	if err != nil {
		return req, err
	}
	req.Repository = repo

	return req, nil
}

// buildPipeline assembles the production pipeline, honoring tool path
// overrides from the configuration.
func buildPipeline(cfg *config.Config, logger *log.Logger, artifactDir string) *pipeline.Pipeline {
	runner := toolrun.NewExecRunner()

	ruff := gate.NewRuffGate(runner)
	if cfg.Tools.Ruff != "" {
		ruff.Tool = string(cfg.Tools.Ruff)
	}
	pytest := gate.NewPytestGate(runner)
	if cfg.Tools.Pytest != "" {
		pytest.Tool = string(cfg.Tools.Pytest)
	}
	frontend := build.NewFrontend(runner)
	if cfg.Tools.Python != "" {
		frontend.Python = string(cfg.Tools.Python)
	}
	twine := publish.NewTwineUploader(runner)
	if cfg.Tools.Twine != "" {
		twine.Tool = string(cfg.Tools.Twine)
	}

	return &pipeline.Pipeline{
		Workspaces:  workspace.NewTempManager(),
		Generator:   layout.NewGenerator(),
		Gates:       gate.NewRunner(ruff, pytest),
		Builder:     frontend,
		Publisher:   twine,
		ArtifactDir: artifactDir,
		Logger:      logger,
	}
}

// newLogger builds the CLI logger; verbose mode lowers the level to debug.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "pypack",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// printReport renders the stage table and summary for human consumption.
func printReport(report *pipeline.Report) {
	fmt.Println(TitleStyle.Render("Pipeline Report"))
	fmt.Println()

	for _, stage := range report.Stages {
		var marker string
		switch stage.Status {
		case pipeline.StatusPassed:
			marker = SuccessStyle.Render("✓")
		case pipeline.StatusFailed:
			marker = ErrorStyle.Render("✗")
		case pipeline.StatusSkipped:
			marker = SubtitleStyle.Render("-")
		}
		fmt.Printf("  %s %-12s %s\n", marker, stage.Stage, SubtitleStyle.Render(string(stage.Status)))
		if stage.Output != "" && (verbose || stage.Status == pipeline.StatusFailed) {
			fmt.Println(VerboseStyle.Render(indent(stage.Output, "      ")))
		}
	}

	if len(report.PersistedArtifacts) > 0 {
		fmt.Println()
		fmt.Println(CmdStyle.Render("Artifacts:"))
		for _, path := range report.PersistedArtifacts {
			fmt.Printf("  %s\n", path)
		}
	}

	if report.ProjectURL != "" {
		fmt.Println()
		fmt.Printf("%s %s\n", CmdStyle.Render("Published:"), report.ProjectURL)
	}

	fmt.Println()
	if report.Success {
		fmt.Println(SuccessStyle.Render(report.Summary))
	} else {
		fmt.Println(ErrorStyle.Render(report.Summary))
	}
}

// indent prefixes every line of s.
func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n"+prefix)
}
