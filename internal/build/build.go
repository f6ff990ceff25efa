// SPDX-License-Identifier: MPL-2.0

// Package build invokes the PEP 517 build frontend against a generated
// tree and collects the produced distribution artifacts. A build is only
// valid when it yields both a source distribution and a wheel.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pypack-cli/internal/layout"
	"pypack-cli/internal/toolrun"
)

type (
	// Kind tags a distribution artifact.
	Kind string

	// Artifact is one produced distribution file inside the workspace.
	// Artifacts are ephemeral: they vanish with the workspace unless
	// published or copied out by the caller.
	Artifact struct {
		// Path is the absolute path inside the workspace.
		Path string
		// Kind is the artifact kind.
		Kind Kind
	}

	// BuildError indicates the build backend failed or produced an
	// incomplete artifact set.
	BuildError struct {
		Reason string
		Cause  error
	}

	// Builder produces distribution artifacts from a generated tree.
	// The production implementation is Frontend; pipeline tests use fakes.
	Builder interface {
		// Build runs the backend and returns the artifacts plus the
		// captured build output. The output is returned even on failure
		// so the report can attach diagnostics.
		Build(ctx context.Context, tree *layout.Tree) ([]Artifact, string, error)
	}

	// Frontend shells out to `python -m build`.
	Frontend struct {
		// Python is the interpreter executable (defaults to "python").
		Python string
		// Runner invokes the tool.
		Runner toolrun.Runner
	}
)

const (
	// KindSdist is a source distribution (.tar.gz).
	KindSdist Kind = "sdist"
	// KindWheel is a platform-neutral binary distribution (.whl).
	KindWheel Kind = "wheel"
)

// NewFrontend creates the production builder with the default interpreter.
func NewFrontend(runner toolrun.Runner) *Frontend {
	return &Frontend{Python: "python", Runner: runner}
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("build failed: %s: %v", e.Reason, e.Cause)
	}
	return "build failed: " + e.Reason
}

// Unwrap returns the underlying cause.
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// Build runs `python -m build` in the tree root and collects dist/
// artifacts. Either both artifact kinds exist or the build fails;
// a partial artifact set is never returned.
func (f *Frontend) Build(ctx context.Context, tree *layout.Tree) ([]Artifact, string, error) {
	result := f.Runner.Run(ctx, toolrun.ToolSpec{
		Name: f.Python,
		Args: []string{"-m", "build"},
		Dir:  tree.Root,
	})

	output := result.CombinedOutput()
	if result.Error != nil {
		return nil, output, &BuildError{Reason: "build backend could not be invoked", Cause: result.Error}
	}
	if result.ExitCode != 0 {
		return nil, output, &BuildError{Reason: fmt.Sprintf("build backend exited with code %d", result.ExitCode)}
	}

	artifacts, err := collectArtifacts(tree.DistDir())
	if err != nil {
		return nil, output, err
	}
	return artifacts, output, nil
}

// collectArtifacts reads the dist directory and tags each produced file.
// Ordering is deterministic: sdist first, then wheel, names sorted.
func collectArtifacts(distDir string) ([]Artifact, error) {
	entries, err := os.ReadDir(distDir)
	if err != nil {
		return nil, &BuildError{Reason: "build reported success but produced no dist directory", Cause: err}
	}

	var sdists, wheels []Artifact
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(distDir, entry.Name())
		switch {
		case strings.HasSuffix(entry.Name(), ".tar.gz"):
			sdists = append(sdists, Artifact{Path: path, Kind: KindSdist})
		case strings.HasSuffix(entry.Name(), ".whl"):
			wheels = append(wheels, Artifact{Path: path, Kind: KindWheel})
		}
	}

	if len(sdists) == 0 || len(wheels) == 0 {
		return nil, &BuildError{Reason: fmt.Sprintf(
			"incomplete artifact set: %d source distribution(s), %d wheel(s); both kinds are required",
			len(sdists), len(wheels))}
	}

	sortByPath := func(a []Artifact) {
		sort.Slice(a, func(i, j int) bool { return a[i].Path < a[j].Path })
	}
	sortByPath(sdists)
	sortByPath(wheels)

	return append(sdists, wheels...), nil
}
