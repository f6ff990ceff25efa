// SPDX-License-Identifier: MPL-2.0

package pypkg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeSourceFile creates a throwaway Python file and returns its path.
func writeSourceFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.py")
	if err := os.WriteFile(path, []byte("print('hi')\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewRequestDefaults(t *testing.T) {
	req := NewRequest("/tmp/src", "awesome_tool", "1.0.0")

	if req.Repository != RepositoryPyPI {
		t.Errorf("Repository = %q, want %q", req.Repository, RepositoryPyPI)
	}
	if !req.RunTests || !req.LintCode {
		t.Errorf("gates disabled by default: RunTests=%v LintCode=%v", req.RunTests, req.LintCode)
	}
	if req.MinPython != "3.8" {
		t.Errorf("MinPython = %q, want %q", req.MinPython, "3.8")
	}
	if req.ShouldPublish() {
		t.Error("ShouldPublish() = true with empty token")
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr bool
	}{
		{
			name:    "valid request",
			mutate:  func(r *Request) {},
			wantErr: false,
		},
		{
			name:    "valid name with separators",
			mutate:  func(r *Request) { r.PackageName = "my-pkg.util_x" },
			wantErr: false,
		},
		{
			name:    "empty package name",
			mutate:  func(r *Request) { r.PackageName = "" },
			wantErr: true,
		},
		{
			name:    "name with spaces",
			mutate:  func(r *Request) { r.PackageName = "my pkg" },
			wantErr: true,
		},
		{
			name:    "name ending in separator",
			mutate:  func(r *Request) { r.PackageName = "mypkg-" },
			wantErr: true,
		},
		{
			name:    "empty version",
			mutate:  func(r *Request) { r.Version = "" },
			wantErr: true,
		},
		{
			name:    "garbage version",
			mutate:  func(r *Request) { r.Version = "not.a.version" },
			wantErr: true,
		},
		{
			name:    "partial version is accepted",
			mutate:  func(r *Request) { r.Version = "1.2" },
			wantErr: false,
		},
		{
			name:    "missing source path",
			mutate:  func(r *Request) { r.SourcePath = "/nonexistent/path/tool.py" },
			wantErr: true,
		},
		{
			name:    "unknown repository",
			mutate:  func(r *Request) { r.Repository = "privatepypi" },
			wantErr: true,
		},
		{
			name:    "bad min python",
			mutate:  func(r *Request) { r.MinPython = "three.eight" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest(writeSourceFile(t), "awesome_tool", "1.0.0")
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tt.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("error type = %T, want *ValidationError", err)
				}
				if len(ve.FieldErrors) == 0 {
					t.Error("ValidationError has no field errors")
				}
			}
		})
	}
}

func TestRequestValidateCollectsAllFieldErrors(t *testing.T) {
	req := NewRequest("/nonexistent", "", "bogus")
	req.Repository = "nowhere"

	err := req.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	// name, version, source, repository
	if len(ve.FieldErrors) != 4 {
		t.Errorf("len(FieldErrors) = %d, want 4: %v", len(ve.FieldErrors), ve.FieldErrors)
	}
}

func TestRequestValidateWrapsSentinels(t *testing.T) {
	req := NewRequest("/nonexistent/tool.py", "bad name!", "not.a.version")

	err := req.Validate()
	for _, sentinel := range []error{ErrNameInvalid, ErrVersionInvalid, ErrSourceNotFound} {
		if !errors.Is(err, sentinel) {
			t.Errorf("errors.Is(err, %v) = false, want true", sentinel)
		}
	}
}

func TestNormalizedName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"awesome_tool", "awesome_tool"},
		{"Awesome-Tool", "awesome_tool"},
		{"com.example.util", "com_example_util"},
		{"My-Pkg.X", "my_pkg_x"},
	}

	for _, tt := range tests {
		req := Request{PackageName: tt.in}
		if got := req.NormalizedName(); got != tt.want {
			t.Errorf("NormalizedName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
