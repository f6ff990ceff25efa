// SPDX-License-Identifier: MPL-2.0

package toolrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

type (
	// ToolSpec describes one external tool invocation.
	ToolSpec struct {
		// Name is the executable to invoke (resolved via PATH unless absolute).
		Name string
		// Args are the command-line arguments.
		Args []string
		// Dir is the working directory for the invocation.
		Dir string
		// ExtraEnv contains additional environment variables (KEY=VALUE).
		// The invocation inherits the parent environment.
		ExtraEnv []string
	}

	// Result contains the outcome of a tool invocation.
	Result struct {
		// ExitCode is the exit code of the tool.
		ExitCode int
		// Output contains captured stdout.
		Output string
		// ErrOutput contains captured stderr.
		ErrOutput string
		// Error is set only for infrastructure failures (tool not found,
		// context canceled), never for a plain non-zero exit.
		Error error
	}

	// Runner executes external tools. The production implementation is
	// ExecRunner; tests use in-process fakes.
	Runner interface {
		Run(ctx context.Context, spec ToolSpec) *Result
	}

	// ExecRunner runs tools as subprocesses with captured output.
	ExecRunner struct{}
)

// NewExecRunner creates the production subprocess runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Success returns true if the tool exited zero without infrastructure errors.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && r.Error == nil
}

// CombinedOutput returns stdout followed by stderr, separated by a newline
// when both are present. Diagnostic text in reports is built from this.
func (r *Result) CombinedOutput() string {
	switch {
	case r.Output != "" && r.ErrOutput != "":
		return r.Output + "\n" + r.ErrOutput
	case r.ErrOutput != "":
		return r.ErrOutput
	default:
		return r.Output
	}
}

// NewErrorResult creates a Result for an infrastructure failure.
func NewErrorResult(err error) *Result {
	return &Result{ExitCode: 1, Error: err}
}

// Run executes the tool and blocks until it completes. A non-zero exit is
// reported through ExitCode with Error left nil; only invocation failures
// (missing binary, canceled context) populate Error.
func (e *ExecRunner) Run(ctx context.Context, spec ToolSpec) *Result {
	if spec.Name == "" {
		return NewErrorResult(fmt.Errorf("tool name cannot be empty"))
	}

	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}
	cmd.Env = append(os.Environ(), spec.ExtraEnv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Output:    stdout.String(),
		ErrOutput: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
			result.Error = fmt.Errorf("failed to invoke %s: %w", spec.Name, err)
		}
	}

	return result
}

// LookPath reports whether the named tool is resolvable on PATH.
// Used for actionable error messages before a stage runs.
func LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
