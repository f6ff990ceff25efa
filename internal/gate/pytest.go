// SPDX-License-Identifier: MPL-2.0

package gate

import (
	"context"
	"os"

	"pypack-cli/internal/layout"
	"pypack-cli/internal/toolrun"
	"pypack-cli/pkg/pypkg"
)

// TestGateName is the gate name reported for the pytest run.
const TestGateName = "tests"

// PytestGate runs the tree's test suite with pytest.
type PytestGate struct {
	// Tool is the pytest executable (defaults to "pytest").
	Tool string
	// Runner invokes the tool.
	Runner toolrun.Runner
}

// NewPytestGate creates the test gate with the default tool name.
func NewPytestGate(runner toolrun.Runner) *PytestGate {
	return &PytestGate{Tool: "pytest", Runner: runner}
}

// Name returns the gate name.
func (g *PytestGate) Name() string { return TestGateName }

// Enabled reports whether the test gate was requested.
func (g *PytestGate) Enabled(req pypkg.Request) bool { return req.RunTests }

// Run executes pytest against the tree's tests directory. When the tree
// carries no tests directory the gate is skipped, not failed.
func (g *PytestGate) Run(ctx context.Context, tree *layout.Tree) Result {
	if info, err := os.Stat(tree.TestsDir()); err != nil || !info.IsDir() {
		return skippedResult(TestGateName, "no tests directory found")
	}

	result := g.Runner.Run(ctx, toolrun.ToolSpec{
		Name: g.Tool,
		Args: []string{layout.TestsDirName, "-v"},
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
		Name:   TestGateName,
		Passed: result.Success(),
		Output: output,
	}
}
