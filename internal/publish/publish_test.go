// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pypack-cli/internal/build"
	"pypack-cli/internal/toolrun"
	"pypack-cli/pkg/pypkg"
)

type captureRunner struct {
	result *toolrun.Result
	spec   toolrun.ToolSpec
	calls  int
}

func (c *captureRunner) Run(_ context.Context, spec toolrun.ToolSpec) *toolrun.Result {
	c.calls++
	c.spec = spec
	if c.result != nil {
		return c.result
	}
	return &toolrun.Result{Output: "Uploading distributions... done"}
}

var testArtifacts = []build.Artifact{
	{Path: "/work/dist/pkg-1.0.0.tar.gz", Kind: build.KindSdist},
	{Path: "/work/dist/pkg-1.0.0-py3-none-any.whl", Kind: build.KindWheel},
}

func TestPublishInvokesTwineWithFixedEndpoint(t *testing.T) {
	runner := &captureRunner{}
	uploader := NewTwineUploader(runner)

	output, err := uploader.Publish(context.Background(), testArtifacts, "pypi-secret", pypkg.RepositoryTestPyPI)
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if output == "" {
		t.Error("upload output not captured")
	}

	args := strings.Join(runner.spec.Args, " ")
	if !strings.Contains(args, "--repository-url https://test.pypi.org/legacy/") {
		t.Errorf("args = %q, want fixed testpypi endpoint", args)
	}
	if !strings.Contains(args, "--username __token__") {
		t.Errorf("args = %q, want token username", args)
	}
	for _, artifact := range testArtifacts {
		if !strings.Contains(args, artifact.Path) {
			t.Errorf("args missing artifact %s", artifact.Path)
		}
	}
}

func TestPublishUploadsEveryArtifactInOneInvocation(t *testing.T) {
	runner := &captureRunner{}
	uploader := NewTwineUploader(runner)

	if _, err := uploader.Publish(context.Background(), testArtifacts, "tok", pypkg.RepositoryPyPI); err != nil {
		t.Fatal(err)
	}
	if runner.calls != 1 {
		t.Errorf("twine invoked %d times, want 1", runner.calls)
	}
}

func TestPublishRejectionIsPublishError(t *testing.T) {
	runner := &captureRunner{result: &toolrun.Result{
		ExitCode:  1,
		ErrOutput: "HTTPError: 400 Bad Request: File already exists",
	}}
	uploader := NewTwineUploader(runner)

	output, err := uploader.Publish(context.Background(), testArtifacts, "tok", pypkg.RepositoryPyPI)

	var pubErr *PublishError
	if !errors.As(err, &pubErr) {
		t.Fatalf("error = %v (%T), want *PublishError", err, err)
	}
	if !strings.Contains(output, "File already exists") {
		t.Errorf("output = %q, want index diagnostics", output)
	}
}

func TestPublishRedactsTokenFromOutput(t *testing.T) {
	const token = "pypi-AgEIcHlwaS5vcmc"
	runner := &captureRunner{result: &toolrun.Result{
		ExitCode:  1,
		ErrOutput: "401 Unauthorized for credential " + token,
	}}
	uploader := NewTwineUploader(runner)

	output, err := uploader.Publish(context.Background(), testArtifacts, token, pypkg.RepositoryPyPI)
	if err == nil {
		t.Fatal("Publish() = nil error, want rejection")
	}
	if strings.Contains(output, token) {
		t.Error("token leaked into output")
	}
	if strings.Contains(err.Error(), token) {
		t.Error("token leaked into error message")
	}
	if !strings.Contains(output, "[REDACTED]") {
		t.Errorf("output = %q, want redaction placeholder", output)
	}
}

func TestPublishGuards(t *testing.T) {
	tests := []struct {
		name      string
		artifacts []build.Artifact
		token     string
		repo      pypkg.Repository
	}{
		{"no artifacts", nil, "tok", pypkg.RepositoryPyPI},
		{"empty token", testArtifacts, "", pypkg.RepositoryPyPI},
		{"bad repository", testArtifacts, "tok", "nowhere"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &captureRunner{}
			uploader := NewTwineUploader(runner)

			_, err := uploader.Publish(context.Background(), tt.artifacts, tt.token, tt.repo)

			var pubErr *PublishError
			if !errors.As(err, &pubErr) {
				t.Fatalf("error = %v (%T), want *PublishError", err, err)
			}
			if runner.calls != 0 {
				t.Error("twine invoked despite failed guard")
			}
		})
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		token string
		want  string
	}{
		{"token present", "error with pypi-abc inside", "pypi-abc", "error with [REDACTED] inside"},
		{"token absent", "clean output", "pypi-abc", "clean output"},
		{"empty token", "output", "", "output"},
		{"repeated token", "a-tok b-tok", "tok", "a-[REDACTED] b-[REDACTED]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Redact(tt.text, tt.token); got != tt.want {
				t.Errorf("Redact() = %q, want %q", got, tt.want)
			}
		})
	}
}
