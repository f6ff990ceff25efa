// SPDX-License-Identifier: MPL-2.0

// Package publish uploads built distribution artifacts to one of the two
// fixed package indexes. The API token is a single-use, in-memory
// credential: it is handed to the upload tool and scrubbed from every
// piece of captured output before anything leaves this package.
package publish

import (
	"context"
	"fmt"
	"strings"

	"pypack-cli/internal/build"
	"pypack-cli/internal/toolrun"
	"pypack-cli/pkg/pypkg"
)

// tokenPlaceholder replaces credential material in diagnostic output.
const tokenPlaceholder = "[REDACTED]"

type (
	// PublishError indicates the index rejected the upload
	// (authentication, duplicate version) or the tool could not run.
	PublishError struct {
		Reason string
		Cause  error
	}

	// Publisher uploads artifacts to a repository. The production
	// implementation is TwineUploader; pipeline tests use fakes.
	Publisher interface {
		// Publish uploads every artifact using the supplied token.
		// The returned output is already redacted and safe to report.
		Publish(ctx context.Context, artifacts []build.Artifact, token string, repo pypkg.Repository) (string, error)
	}

	// TwineUploader shells out to twine with a fixed endpoint URL.
	TwineUploader struct {
		// Tool is the twine executable (defaults to "twine").
		Tool string
		// Runner invokes the tool.
		Runner toolrun.Runner
	}
)

// NewTwineUploader creates the production publisher.
func NewTwineUploader(runner toolrun.Runner) *TwineUploader {
	return &TwineUploader{Tool: "twine", Runner: runner}
}

// Error implements the error interface.
func (e *PublishError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("publish failed: %s: %v", e.Reason, e.Cause)
	}
	return "publish failed: " + e.Reason
}

// Unwrap returns the underlying cause.
func (e *PublishError) Unwrap() error {
	return e.Cause
}

// Redact scrubs the token from text. Applied to every captured output and
// again at the report-construction boundary as a second line of defense.
func Redact(text, token string) string {
	if token == "" {
		return text
	}
	return strings.ReplaceAll(text, token, tokenPlaceholder)
}

// Publish uploads all artifacts in one twine invocation. The repository
// is resolved to its fixed endpoint URL here; twine never sees a
// free-form repository name.
func (u *TwineUploader) Publish(ctx context.Context, artifacts []build.Artifact, token string, repo pypkg.Repository) (string, error) {
	if len(artifacts) == 0 {
		return "", &PublishError{Reason: "no artifacts to upload"}
	}
	if token == "" {
		return "", &PublishError{Reason: "no token supplied"}
	}
	if !repo.IsValid() {
		return "", &PublishError{Reason: fmt.Sprintf("unknown repository %q", repo)}
	}

	args := []string{
		"upload",
		"--non-interactive",
		"--repository-url", repo.UploadURL(),
		"--username", "__token__",
		"--password", token,
	}
	for _, artifact := range artifacts {
		args = append(args, artifact.Path)
	}

	result := u.Runner.Run(ctx, toolrun.ToolSpec{
		Name: u.Tool,
		Args: args,
	})

	output := Redact(result.CombinedOutput(), token)
	if result.Error != nil {
		return output, &PublishError{
			Reason: "upload tool could not be invoked",
			Cause:  fmt.Errorf("%s", Redact(result.Error.Error(), token)),
		}
	}
	if result.ExitCode != 0 {
		return output, &PublishError{Reason: fmt.Sprintf("index rejected upload (exit code %d)", result.ExitCode)}
	}

	return output, nil
}
