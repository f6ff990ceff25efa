// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"pypack-cli/internal/build"
	"pypack-cli/internal/gate"
	"pypack-cli/internal/layout"
	"pypack-cli/internal/publish"
	"pypack-cli/internal/toolrun"
	"pypack-cli/internal/workspace"
	"pypack-cli/pkg/pypkg"
)

// Pipeline wires the packaging stages together. Construct with New for
// the production stack, or populate the fields directly in tests to
// inject fakes at any stage boundary.
type Pipeline struct {
	Workspaces workspace.Manager
	Generator  *layout.Generator
	Gates      *gate.Runner
	Builder    build.Builder
	Publisher  publish.Publisher

	// ArtifactDir, when set, receives copies of the built artifacts
	// before the workspace is torn down. Without it artifacts are
	// deliberately ephemeral: published or gone.
	ArtifactDir string

	// Logger receives stage-level progress. Tokens are never logged.
	Logger *log.Logger
}

// New creates a production pipeline: temp-dir workspaces, subprocess
// tool invocations, ruff and pytest gates, the PEP 517 build frontend,
// and twine for uploads.
func New(logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	runner := toolrun.NewExecRunner()
	return &Pipeline{
		Workspaces: workspace.NewTempManager(),
		Generator:  layout.NewGenerator(),
		Gates:      gate.NewRunner(gate.NewRuffGate(runner), gate.NewPytestGate(runner)),
		Builder:    build.NewFrontend(runner),
		Publisher:  publish.NewTwineUploader(runner),
		Logger:     logger,
	}
}

// Run executes the pipeline for one request and returns the report.
//
// A non-nil error is returned only for pre-flight failures: a request
// that fails validation (*pypkg.ValidationError) or a workspace that
// cannot be allocated. Both occur before any resources are held. Every
// later failure is converted into a stage outcome inside the report,
// and the workspace is released on every exit path.
func (p *Pipeline) Run(ctx context.Context, req pypkg.Request) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	machine := newStateMachine()
	builder := newReportBuilder(req.Token)

	ws, err := p.Workspaces.Acquire()
	if err != nil {
		return nil, fmt.Errorf("cannot start pipeline: %w", err)
	}
	defer func() {
		if releaseErr := p.Workspaces.Release(ws); releaseErr != nil {
			p.logger().Error("workspace release failed", "workspace", ws.ID, "err", releaseErr)
		}
	}()

	p.logger().Debug("workspace acquired", "workspace", ws.ID)

	// Generating
	if err := machine.to(StateGenerating); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return p.abort(machine, builder, StageGeneration, err)
	}
	tree, genErr := p.Generator.Generate(ws, req)
	if genErr != nil {
		builder.add(StageGeneration, StatusFailed, genErr.Error())
		return p.fail(machine, builder)
	}
	builder.add(StageGeneration, StatusPassed, "generated "+filepath.Base(tree.PackageDir))
	p.logger().Debug("tree generated", "package", req.PackageName)

	// Gating
	if err := machine.to(StateGating); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return p.abort(machine, builder, StageGates, err)
	}
	gateResults, gatesPassed := p.Gates.Run(ctx, req, tree)
	for _, result := range gateResults {
		status := StatusPassed
		switch {
		case result.Skipped:
			status = StatusSkipped
		case !result.Passed:
			status = StatusFailed
		}
		builder.add(result.Name, status, result.Output)
	}
	if !gatesPassed {
		p.logger().Info("quality gates failed", "package", req.PackageName)
		return p.fail(machine, builder)
	}

	// Building
	if err := machine.to(StateBuilding); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return p.abort(machine, builder, StageBuild, err)
	}
	artifacts, buildOutput, buildErr := p.Builder.Build(ctx, tree)
	if buildErr != nil {
		builder.add(StageBuild, StatusFailed, buildErr.Error()+"\n"+buildOutput)
		return p.fail(machine, builder)
	}
	builder.add(StageBuild, StatusPassed, buildOutput)
	for _, artifact := range artifacts {
		builder.report.Artifacts = append(builder.report.Artifacts, artifact.Path)
	}
	p.logger().Debug("build complete", "artifacts", len(artifacts))

	if err := p.persistArtifacts(builder, artifacts); err != nil {
		// Persistence is a caller-side convenience; failing it fails
		// the run but does not undo the recorded build success.
		builder.add("persist", StatusFailed, err.Error())
		return p.fail(machine, builder)
	}

	// Publishing (or done without a token)
	if !req.ShouldPublish() {
		builder.add(StagePublish, StatusSkipped, "no token supplied; publish skipped")
		if err := machine.to(StateDone); err != nil {
			return nil, err
		}
		return builder.finish(machine.current, true), nil
	}

	if err := machine.to(StatePublishing); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return p.abort(machine, builder, StagePublish, err)
	}
	publishOutput, publishErr := p.Publisher.Publish(ctx, artifacts, req.Token, req.Repository)
	success := true
	if publishErr != nil {
		// A rejected upload does not retroactively invalidate the
		// build: the run terminates in Done with success=false.
		builder.add(StagePublish, StatusFailed, publishErr.Error()+"\n"+publishOutput)
		success = false
		p.logger().Info("publish failed", "repository", req.Repository)
	} else {
		builder.add(StagePublish, StatusPassed, publishOutput)
		builder.report.ProjectURL = req.Repository.ProjectURL(req.PackageName, req.Version)
		p.logger().Info("published", "repository", req.Repository, "package", req.PackageName)
	}

	if err := machine.to(StateDone); err != nil {
		return nil, err
	}
	return builder.finish(machine.current, success), nil
}

// fail moves the machine into the absorbing failure state and seals the report.
func (p *Pipeline) fail(machine *stateMachine, builder *reportBuilder) (*Report, error) {
	if err := machine.to(StateFailed); err != nil {
		return nil, err
	}
	return builder.finish(machine.current, false), nil
}

// abort records a cancellation as a skipped-forward failure: the next
// stage never starts, but teardown still runs via the deferred release.
func (p *Pipeline) abort(machine *stateMachine, builder *reportBuilder, stage string, cause error) (*Report, error) {
	builder.add(stage, StatusFailed, "canceled before stage start: "+cause.Error())
	return p.fail(machine, builder)
}

// persistArtifacts copies built artifacts into ArtifactDir, if configured.
func (p *Pipeline) persistArtifacts(builder *reportBuilder, artifacts []build.Artifact) error {
	if p.ArtifactDir == "" {
		return nil
	}
	if err := os.MkdirAll(p.ArtifactDir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	for _, artifact := range artifacts {
		dest := filepath.Join(p.ArtifactDir, filepath.Base(artifact.Path))
		if err := copyFile(artifact.Path, dest); err != nil {
			return fmt.Errorf("failed to persist %s: %w", filepath.Base(artifact.Path), err)
		}
		builder.report.PersistedArtifacts = append(builder.report.PersistedArtifacts, dest)
	}
	return nil
}

// copyFile copies one artifact out of the workspace.
func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func (p *Pipeline) logger() *log.Logger {
	if p.Logger == nil {
		p.Logger = log.New(io.Discard)
	}
	return p.Logger
}
