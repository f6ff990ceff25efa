// SPDX-License-Identifier: MPL-2.0

package pypkg

import "fmt"

// Repository identifies one of the two fixed package indexes that pypack
// can upload to. Free-form repository strings are rejected at request
// validation time; the publish stage only ever sees a valid member.
type Repository string

const (
	// RepositoryPyPI is the production Python package index.
	RepositoryPyPI Repository = "pypi"
	// RepositoryTestPyPI is the staging index for upload rehearsals.
	RepositoryTestPyPI Repository = "testpypi"
)

// DefaultRepository is used when a request leaves the repository unset.
const DefaultRepository = RepositoryPyPI

// ParseRepository converts a raw string into a Repository.
// An empty string resolves to DefaultRepository.
func ParseRepository(s string) (Repository, error) {
	switch Repository(s) {
	case RepositoryPyPI, RepositoryTestPyPI:
		return Repository(s), nil
	case "":
		return DefaultRepository, nil
	default:
		return "", fmt.Errorf("unknown repository %q (must be %q or %q)", s, RepositoryPyPI, RepositoryTestPyPI)
	}
}

// IsValid returns whether the Repository is a recognized member of the enum.
func (r Repository) IsValid() bool {
	return r == RepositoryPyPI || r == RepositoryTestPyPI
}

// UploadURL returns the fixed upload endpoint for this repository.
func (r Repository) UploadURL() string {
	if r == RepositoryTestPyPI {
		return "https://test.pypi.org/legacy/"
	}
	return "https://upload.pypi.org/legacy/"
}

// ProjectURL returns the browsable project page for a published release.
func (r Repository) ProjectURL(name, version string) string {
	host := "pypi.org"
	if r == RepositoryTestPyPI {
		host = "test.pypi.org"
	}
	return fmt.Sprintf("https://%s/project/%s/%s/", host, name, version)
}
