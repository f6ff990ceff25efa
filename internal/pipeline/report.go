// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"fmt"
	"strings"

	"pypack-cli/internal/publish"
)

// Stage names as they appear in report outcomes.
const (
	StageGeneration = "generation"
	StageGates      = "gates"
	StageBuild      = "build"
	StagePublish    = "publish"
)

// StageStatus is the recorded outcome of one pipeline stage.
type StageStatus string

const (
	// StatusPassed marks a stage that ran and succeeded.
	StatusPassed StageStatus = "passed"
	// StatusFailed marks a stage that ran and failed.
	StatusFailed StageStatus = "failed"
	// StatusSkipped marks a stage that did not apply to this request.
	StatusSkipped StageStatus = "skipped"
)

type (
	// StageOutcome records one attempted or skipped stage.
	StageOutcome struct {
		// Stage is the stage or gate name.
		Stage string `json:"stage"`
		// Status is the recorded outcome.
		Status StageStatus `json:"status"`
		// Output is the captured diagnostic text, already redacted.
		Output string `json:"output,omitempty"`
	}

	// Report is the caller-owned result of one pipeline invocation.
	// It is the only pipeline entity that outlives the workspace.
	Report struct {
		// Success is true when every attempted stage succeeded.
		Success bool `json:"success"`
		// State is the terminal pipeline state.
		State State `json:"state"`
		// Stages lists every stage outcome in execution order.
		Stages []StageOutcome `json:"stages"`
		// Artifacts lists the produced distribution files. The paths
		// point into the released workspace and exist only if they
		// were persisted via an artifact directory.
		Artifacts []string `json:"artifacts,omitempty"`
		// PersistedArtifacts lists artifact copies placed in the
		// caller-supplied artifact directory, if one was configured.
		PersistedArtifacts []string `json:"persisted_artifacts,omitempty"`
		// ProjectURL is the index project page after a successful publish.
		ProjectURL string `json:"project_url,omitempty"`
		// Summary is a one-paragraph human-readable recap.
		Summary string `json:"summary"`
	}

	// reportBuilder assembles a Report. The redaction rule lives here:
	// every piece of output passes through publish.Redact before it is
	// stored, so credential material cannot reach the caller even if a
	// stage leaked it into diagnostics.
	reportBuilder struct {
		token  string
		report *Report
	}
)

func newReportBuilder(token string) *reportBuilder {
	return &reportBuilder{token: token, report: &Report{}}
}

// add records a stage outcome with its output redacted.
func (b *reportBuilder) add(stage string, status StageStatus, output string) {
	b.report.Stages = append(b.report.Stages, StageOutcome{
		Stage:  stage,
		Status: status,
		Output: publish.Redact(output, b.token),
	})
}

// finish seals the report with the terminal state and computed summary.
func (b *reportBuilder) finish(state State, success bool) *Report {
	b.report.State = state
	b.report.Success = success
	b.report.Summary = summarize(b.report)
	return b.report
}

// summarize renders the per-status stage counts and the headline verdict.
func summarize(r *Report) string {
	var passed, failed, skipped int
	var failures []string
	for _, s := range r.Stages {
		switch s.Status {
		case StatusPassed:
			passed++
		case StatusFailed:
			failed++
			failures = append(failures, s.Stage)
		case StatusSkipped:
			skipped++
		}
	}

	verdict := "succeeded"
	if !r.Success {
		verdict = fmt.Sprintf("failed (%s)", strings.Join(failures, ", "))
	}

	summary := fmt.Sprintf("pipeline %s: %d passed, %d failed, %d skipped", verdict, passed, failed, skipped)
	if len(r.Artifacts) > 0 {
		summary += fmt.Sprintf("; %d artifact(s) built", len(r.Artifacts))
	}
	if r.ProjectURL != "" {
		summary += "; published to " + r.ProjectURL
	}
	return summary
}

// Outcome returns the recorded outcome for a stage or gate name.
func (r *Report) Outcome(stage string) (StageOutcome, bool) {
	for _, s := range r.Stages {
		if s.Stage == stage {
			return s, true
		}
	}
	return StageOutcome{}, false
}
