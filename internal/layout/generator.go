// SPDX-License-Identifier: MPL-2.0

package layout

import (
	"fmt"
	"os"
	"path/filepath"

	"pypack-cli/internal/workspace"
	"pypack-cli/pkg/pypkg"
)

// TestsDirName is the conventional test directory looked for in directory
// sources and probed by the pytest gate.
const TestsDirName = "tests"

type (
	// Tree is the canonical generated layout rooted at the workspace.
	// It is owned by the workspace and must not be referenced after the
	// workspace is released.
	Tree struct {
		// Root is the tree root (the workspace directory).
		Root string
		// SrcDir is the src/ directory containing the package.
		SrcDir string
		// PackageDir is src/<normalized package name>/.
		PackageDir string
		// ManifestPath is the generated pyproject.toml.
		ManifestPath string
		// ReadmePath is the generated README.md.
		ReadmePath string
		// HasTests reports whether a tests/ directory was carried over
		// from a directory source.
		HasTests bool
	}

	// GenerationError indicates that layout synthesis failed. It wraps
	// the underlying cause (validation failure, empty source, copy error).
	GenerationError struct {
		Reason string
		Cause  error
	}

	// Generator produces a Tree from a request inside a workspace.
	Generator struct{}
)

// NewGenerator creates a layout generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Cause)
	}
	return "generation failed: " + e.Reason
}

// Unwrap returns the underlying cause.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// TestsDir returns the tests directory path inside the tree.
func (t *Tree) TestsDir() string {
	return filepath.Join(t.Root, TestsDirName)
}

// DistDir returns the dist/ directory where build artifacts land.
func (t *Tree) DistDir() string {
	return filepath.Join(t.Root, "dist")
}

// Generate materializes the canonical layout for req inside ws.
// Validation runs before any file is written: a request that fails
// validation, or a source that is an empty directory, produces a
// *GenerationError and leaves the workspace untouched.
func (g *Generator) Generate(ws *workspace.Workspace, req pypkg.Request) (*Tree, error) {
	// The orchestrator validates before acquiring the workspace; this
	// re-check keeps the generator safe against programmatic misuse.
	if err := req.Validate(); err != nil {
		return nil, &GenerationError{Reason: "invalid request", Cause: err}
	}

	info, err := os.Stat(req.SourcePath)
	if err != nil {
		return nil, &GenerationError{Reason: "source not accessible", Cause: err}
	}

	if info.IsDir() {
		empty, err := isEmptyDir(req.SourcePath)
		if err != nil {
			return nil, &GenerationError{Reason: "source not readable", Cause: err}
		}
		if empty {
			return nil, &GenerationError{Reason: fmt.Sprintf("source directory %s is empty", req.SourcePath)}
		}
	}

	tree := &Tree{
		Root:         ws.Root,
		SrcDir:       ws.Path("src"),
		PackageDir:   ws.Path("src", req.NormalizedName()),
		ManifestPath: ws.Path("pyproject.toml"),
		ReadmePath:   ws.Path("README.md"),
	}

	if err := os.MkdirAll(tree.PackageDir, 0o755); err != nil {
		return nil, &GenerationError{Reason: "failed to create package directory", Cause: err}
	}

	if info.IsDir() {
		if err := g.copyDirectorySource(req.SourcePath, tree); err != nil {
			return nil, err
		}
	} else {
		dest := filepath.Join(tree.PackageDir, filepath.Base(req.SourcePath))
		if err := copyFile(req.SourcePath, dest); err != nil {
			return nil, &GenerationError{Reason: "failed to copy source file", Cause: err}
		}
	}

	if err := ensureInitFile(tree.PackageDir, req.Version); err != nil {
		return nil, &GenerationError{Reason: "failed to create package initializer", Cause: err}
	}

	manifest, err := renderManifest(req)
	if err != nil {
		return nil, &GenerationError{Reason: "failed to synthesize manifest", Cause: err}
	}
	if err := os.WriteFile(tree.ManifestPath, manifest, 0o644); err != nil {
		return nil, &GenerationError{Reason: "failed to write manifest", Cause: err}
	}

	if err := os.WriteFile(tree.ReadmePath, renderReadme(req), 0o644); err != nil {
		return nil, &GenerationError{Reason: "failed to write README", Cause: err}
	}

	return tree, nil
}

// copyDirectorySource copies a directory source into the tree. A top-level
// tests/ directory is placed at the tree root (the conventional location
// probed by the pytest gate); everything else goes under the package dir.
func (g *Generator) copyDirectorySource(source string, tree *Tree) error {
	entries, err := os.ReadDir(source)
	if err != nil {
		return &GenerationError{Reason: "failed to read source directory", Cause: err}
	}

	for _, entry := range entries {
		srcPath := filepath.Join(source, entry.Name())

		if entry.IsDir() && entry.Name() == TestsDirName {
			if err := copyDir(srcPath, tree.TestsDir()); err != nil {
				return &GenerationError{Reason: "failed to copy tests directory", Cause: err}
			}
			tree.HasTests = true
			continue
		}

		destPath := filepath.Join(tree.PackageDir, entry.Name())
		if entry.IsDir() {
			if err := copyDir(srcPath, destPath); err != nil {
				return &GenerationError{Reason: "failed to copy source directory", Cause: err}
			}
		} else {
			if err := copyFile(srcPath, destPath); err != nil {
				return &GenerationError{Reason: "failed to copy source file", Cause: err}
			}
		}
	}

	return nil
}

// ensureInitFile creates __init__.py carrying the package version if the
// copied source did not already provide one.
func ensureInitFile(packageDir, version string) error {
	initPath := filepath.Join(packageDir, "__init__.py")
	if _, err := os.Stat(initPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	content := fmt.Sprintf("__version__ = %q\n", version)
	return os.WriteFile(initPath, []byte(content), 0o644)
}

// isEmptyDir reports whether the directory contains no entries.
func isEmptyDir(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}
