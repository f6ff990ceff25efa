// SPDX-License-Identifier: MPL-2.0

package gate

import (
	"context"

	"pypack-cli/internal/layout"
	"pypack-cli/internal/toolrun"
	"pypack-cli/pkg/pypkg"
)

// LintGateName is the gate name reported for the ruff check.
const LintGateName = "lint"

// RuffGate lints the generated src tree with ruff.
type RuffGate struct {
	// Tool is the ruff executable (defaults to "ruff").
	Tool string
	// Runner invokes the tool.
	Runner toolrun.Runner
}

// NewRuffGate creates the lint gate with the default tool name.
func NewRuffGate(runner toolrun.Runner) *RuffGate {
	return &RuffGate{Tool: "ruff", Runner: runner}
}

// Name returns the gate name.
func (g *RuffGate) Name() string { return LintGateName }

// Enabled reports whether linting was requested.
func (g *RuffGate) Enabled(req pypkg.Request) bool { return req.LintCode }

// Run executes `ruff check` against the tree's src directory. The tree is
// only read, never modified. Both "ruff found issues" and "ruff could not
// run" surface as a failed result with diagnostics attached.
func (g *RuffGate) Run(ctx context.Context, tree *layout.Tree) Result {
	result := g.Runner.Run(ctx, toolrun.ToolSpec{
		Name: g.Tool,
		Args: []string{"check", tree.SrcDir},
		Dir:  tree.Root,
	})

	output := result.CombinedOutput()
	if result.Error != nil {
		output = result.Error.Error()
		if combined := result.CombinedOutput(); combined != "" {
			output += "\n" + combined
		}
	}

	return Result{
		Name:   LintGateName,
		Passed: result.Success(),
		Output: output,
	}
}
