// SPDX-License-Identifier: MPL-2.0

// Package gate runs the configurable quality checks (lint, tests) against
// a generated tree. Each gate yields one pass/fail/skip result with
// captured diagnostic output; gates never crash the pipeline and never
// short-circuit each other.
package gate

import (
	"context"

	"pypack-cli/internal/layout"
	"pypack-cli/pkg/pypkg"
)

type (
	// Result is the outcome of one quality gate.
	Result struct {
		// Name identifies the gate ("lint", "tests").
		Name string
		// Passed reports whether the gate succeeded. A skipped gate
		// passes vacuously.
		Passed bool
		// Skipped is true when the gate was disabled by the request or
		// found no applicable target.
		Skipped bool
		// Output is the captured diagnostic text.
		Output string
	}

	// Gate is one independent quality check.
	Gate interface {
		// Name returns the gate name used in results and reports.
		Name() string
		// Enabled reports whether the request scheduled this gate.
		Enabled(req pypkg.Request) bool
		// Run executes the gate against the tree. A tool that exits
		// non-zero or cannot be invoked yields Passed=false with the
		// diagnostic attached; Run never returns an error.
		Run(ctx context.Context, tree *layout.Tree) Result
	}

	// Runner executes an ordered list of gates.
	Runner struct {
		gates []Gate
	}
)

// skippedResult builds the vacuous-pass result for a gate that did not run.
func skippedResult(name, reason string) Result {
	return Result{Name: name, Passed: true, Skipped: true, Output: reason}
}

// NewRunner creates a gate runner over the given ordered gates.
func NewRunner(gates ...Gate) *Runner {
	return &Runner{gates: gates}
}

// Run executes every scheduled gate in order and returns all results plus
// whether every non-skipped gate passed. A failing gate does not prevent
// later gates from running; halting the pipeline is the orchestrator's
// decision, made after all results are in.
func (r *Runner) Run(ctx context.Context, req pypkg.Request, tree *layout.Tree) ([]Result, bool) {
	results := make([]Result, 0, len(r.gates))
	allPassed := true

	for _, g := range r.gates {
		if !g.Enabled(req) {
			results = append(results, skippedResult(g.Name(), "disabled by request"))
			continue
		}

		result := g.Run(ctx, tree)
		if !result.Skipped && !result.Passed {
			allPassed = false
		}
		results = append(results, result)
	}

	return results, allPassed
}
