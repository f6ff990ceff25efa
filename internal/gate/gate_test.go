// SPDX-License-Identifier: MPL-2.0

package gate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pypack-cli/internal/layout"
	"pypack-cli/internal/toolrun"
	"pypack-cli/pkg/pypkg"
)

// fakeRunner returns canned results and records every invocation.
type fakeRunner struct {
	results map[string]*toolrun.Result // keyed by tool name
	calls   []toolrun.ToolSpec
}

func (f *fakeRunner) Run(_ context.Context, spec toolrun.ToolSpec) *toolrun.Result {
	f.calls = append(f.calls, spec)
	if r, ok := f.results[spec.Name]; ok {
		return r
	}
	return &toolrun.Result{}
}

func testTree(t *testing.T, withTests bool) *layout.Tree {
	t.Helper()
	root := t.TempDir()
	tree := &layout.Tree{
		Root:       root,
		SrcDir:     filepath.Join(root, "src"),
		PackageDir: filepath.Join(root, "src", "pkg"),
		HasTests:   withTests,
	}
	if err := os.MkdirAll(tree.PackageDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if withTests {
		if err := os.MkdirAll(tree.TestsDir(), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return tree
}

func TestRuffGatePasses(t *testing.T) {
	runner := &fakeRunner{results: map[string]*toolrun.Result{
		"ruff": {Output: "All checks passed!"},
	}}
	tree := testTree(t, false)

	result := NewRuffGate(runner).Run(context.Background(), tree)

	if !result.Passed || result.Skipped {
		t.Errorf("result = %+v, want passed and not skipped", result)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("ruff invoked %d times, want 1", len(runner.calls))
	}
	call := runner.calls[0]
	if call.Args[0] != "check" || call.Args[1] != tree.SrcDir {
		t.Errorf("ruff args = %v", call.Args)
	}
	if call.Dir != tree.Root {
		t.Errorf("ruff cwd = %q, want tree root", call.Dir)
	}
}

func TestRuffGateFailureCapturesDiagnostics(t *testing.T) {
	runner := &fakeRunner{results: map[string]*toolrun.Result{
		"ruff": {ExitCode: 1, Output: "core.py:1:1: F401 unused import"},
	}}

	result := NewRuffGate(runner).Run(context.Background(), testTree(t, false))

	if result.Passed {
		t.Error("Passed = true for failing lint")
	}
	if !strings.Contains(result.Output, "F401") {
		t.Errorf("Output = %q, want lint diagnostics", result.Output)
	}
}

func TestRuffGateToolCrashIsFailureNotPanic(t *testing.T) {
	runner := &fakeRunner{results: map[string]*toolrun.Result{
		"ruff": {ExitCode: 1, Error: errors.New("failed to invoke ruff: executable file not found")},
	}}

	result := NewRuffGate(runner).Run(context.Background(), testTree(t, false))

	if result.Passed {
		t.Error("Passed = true for tool invocation failure")
	}
	if !strings.Contains(result.Output, "not found") {
		t.Errorf("Output = %q, want invocation diagnostics", result.Output)
	}
}

func TestPytestGateSkipsWithoutTestsDir(t *testing.T) {
	runner := &fakeRunner{}

	result := NewPytestGate(runner).Run(context.Background(), testTree(t, false))

	if !result.Skipped || !result.Passed {
		t.Errorf("result = %+v, want skipped vacuous pass", result)
	}
	if len(runner.calls) != 0 {
		t.Errorf("pytest invoked %d times for absent tests dir", len(runner.calls))
	}
}

func TestPytestGateRunsAgainstTestsDir(t *testing.T) {
	runner := &fakeRunner{results: map[string]*toolrun.Result{
		"pytest": {Output: "2 passed"},
	}}
	tree := testTree(t, true)

	result := NewPytestGate(runner).Run(context.Background(), tree)

	if !result.Passed || result.Skipped {
		t.Errorf("result = %+v, want pass", result)
	}
	call := runner.calls[0]
	if call.Args[0] != "tests" {
		t.Errorf("pytest args = %v", call.Args)
	}
}

func TestRunnerDisabledGatesAreSkipped(t *testing.T) {
	fake := &fakeRunner{}
	runner := NewRunner(NewRuffGate(fake), NewPytestGate(fake))

	req := pypkg.Request{LintCode: false, RunTests: false}
	results, allPassed := runner.Run(context.Background(), req, testTree(t, true))

	if !allPassed {
		t.Error("allPassed = false with every gate disabled")
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for _, r := range results {
		if !r.Skipped || !r.Passed {
			t.Errorf("result %q = %+v, want skipped vacuous pass", r.Name, r)
		}
	}
	if len(fake.calls) != 0 {
		t.Errorf("tools invoked %d times with gates disabled", len(fake.calls))
	}
}

func TestRunnerCompletesAllGatesDespiteFailure(t *testing.T) {
	fake := &fakeRunner{results: map[string]*toolrun.Result{
		"ruff":   {ExitCode: 1, Output: "lint problems"},
		"pytest": {Output: "3 passed"},
	}}
	runner := NewRunner(NewRuffGate(fake), NewPytestGate(fake))

	req := pypkg.Request{LintCode: true, RunTests: true}
	results, allPassed := runner.Run(context.Background(), req, testTree(t, true))

	if allPassed {
		t.Error("allPassed = true with a failing gate")
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	// The failing lint gate must not prevent the test gate from running.
	if results[1].Name != TestGateName || results[1].Skipped || !results[1].Passed {
		t.Errorf("test gate result = %+v, want completed pass", results[1])
	}
	if len(fake.calls) != 2 {
		t.Errorf("tools invoked %d times, want 2", len(fake.calls))
	}
}

func TestRunnerSkippedGateDoesNotAffectOutcome(t *testing.T) {
	fake := &fakeRunner{results: map[string]*toolrun.Result{
		"ruff": {Output: "clean"},
	}}
	runner := NewRunner(NewRuffGate(fake), NewPytestGate(fake))

	// Tests enabled but no tests dir: applicability skip, not a failure.
	req := pypkg.Request{LintCode: true, RunTests: true}
	results, allPassed := runner.Run(context.Background(), req, testTree(t, false))

	if !allPassed {
		t.Error("allPassed = false when the only non-skipped gate passed")
	}
	if !results[1].Skipped {
		t.Errorf("test gate = %+v, want skipped", results[1])
	}
}
