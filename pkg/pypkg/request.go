// SPDX-License-Identifier: MPL-2.0

package pypkg

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Sentinel categories for field validation failures. Each is wrapped
// into the FieldErrors of a ValidationError so callers can map a
// failure to user-facing remediation with errors.Is.
var (
	ErrNameInvalid    = errors.New("invalid package name")
	ErrVersionInvalid = errors.New("invalid version")
	ErrSourceNotFound = errors.New("source path not found")
)

// DefaultMinPython is the minimum interpreter version declared in the
// generated manifest when the request does not specify one.
const DefaultMinPython = "3.8"

// distNameRegex validates a distribution name: alphanumerics with inner
// runs of '-', '_' or '.', never leading or trailing a separator.
// This mirrors the normalized-name grammar used by package indexes.
var distNameRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)

// minPythonRegex validates the requires-python floor ("3", "3.8", "3.11").
var minPythonRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)

type (
	// Request is the immutable input to one pipeline invocation.
	// Construct with NewRequest to get the documented defaults, then
	// adjust fields before the first Validate call. The pipeline never
	// mutates a Request.
	Request struct {
		// SourcePath is the Python file or directory to package.
		SourcePath string
		// PackageName is the distribution name for the package index.
		PackageName string
		// Version is the semantic version of the release.
		Version string
		// Token is the index API token. Empty means "do not publish".
		// It is held only in memory and must never be logged, written
		// to the workspace, or echoed into the report.
		Token string
		// Repository selects the upload target.
		Repository Repository
		// RunTests enables the pytest quality gate.
		RunTests bool
		// LintCode enables the ruff quality gate.
		LintCode bool
		// MinPython is the minimum Python version for the manifest.
		MinPython string
	}

	// ValidationError aggregates every field-level problem found in a
	// Request. It is the only pipeline error surfaced before any
	// workspace resources are held.
	ValidationError struct {
		FieldErrors []error
	}
)

// NewRequest creates a Request with the documented defaults applied:
// publish disabled, repository "pypi", both gates enabled, MinPython "3.8".
func NewRequest(sourcePath, packageName, version string) Request {
	return Request{
		SourcePath:  sourcePath,
		PackageName: packageName,
		Version:     version,
		Repository:  DefaultRepository,
		RunTests:    true,
		LintCode:    true,
		MinPython:   DefaultMinPython,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid package request: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the field errors for errors.Is/As traversal.
func (e *ValidationError) Unwrap() []error {
	return e.FieldErrors
}

// Validate checks the request shape: name grammar, version syntax,
// source existence, repository membership, and MinPython format.
// It returns a *ValidationError listing every violation, or nil.
func (r Request) Validate() error {
	var errs []error

	if r.PackageName == "" {
		errs = append(errs, fmt.Errorf("%w: name cannot be empty", ErrNameInvalid))
	} else if !distNameRegex.MatchString(r.PackageName) {
		errs = append(errs, fmt.Errorf(
			"%w: %q may only contain letters, digits, '-', '_' and '.', and must start and end with a letter or digit",
			ErrNameInvalid, r.PackageName))
	}

	if r.Version == "" {
		errs = append(errs, fmt.Errorf("%w: version cannot be empty", ErrVersionInvalid))
	} else if _, err := semver.NewVersion(r.Version); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q is not a valid semantic version: %w", ErrVersionInvalid, r.Version, err))
	}

	if r.SourcePath == "" {
		errs = append(errs, fmt.Errorf("source path cannot be empty"))
	} else if _, err := os.Stat(r.SourcePath); err != nil {
		if os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrSourceNotFound, r.SourcePath))
		} else {
			errs = append(errs, fmt.Errorf("source path %q is not accessible: %w", r.SourcePath, err))
		}
	}

	if !r.Repository.IsValid() {
		errs = append(errs, fmt.Errorf("unknown repository %q (must be %q or %q)", r.Repository, RepositoryPyPI, RepositoryTestPyPI))
	}

	if r.MinPython != "" && !minPythonRegex.MatchString(r.MinPython) {
		errs = append(errs, fmt.Errorf("min python %q is invalid: expected a dotted version like \"3.8\"", r.MinPython))
	}

	if len(errs) > 0 {
		return &ValidationError{FieldErrors: errs}
	}
	return nil
}

// NormalizedName returns the package name as a valid Python import name:
// lowercased, with '-' and '.' mapped to '_'. This names the directory
// under src/ in the generated tree.
func (r Request) NormalizedName() string {
	name := strings.ToLower(r.PackageName)
	name = strings.ReplaceAll(name, "-", "_")
	return strings.ReplaceAll(name, ".", "_")
}

// ShouldPublish reports whether the publish stage applies to this request.
func (r Request) ShouldPublish() bool {
	return r.Token != ""
}
