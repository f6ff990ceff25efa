// SPDX-License-Identifier: MPL-2.0

package layout

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"pypack-cli/pkg/pypkg"
)

// Fixed manifest template values. Everything request-independent is a
// constant so that two generations from the same request are byte-identical.
const (
	manifestDescription = "Auto-generated package via pypack"
	manifestAuthorName  = "pypack"
	manifestAuthorEmail = "pypack@example.com"
	ruffLineLength      = 120
)

type (
	// pyproject models the generated manifest. Field order matters:
	// go-toml marshals struct fields in declaration order, which is what
	// makes synthesis deterministic.
	pyproject struct {
		BuildSystem buildSystem `toml:"build-system"`
		Project     project     `toml:"project"`
		Tool        tool        `toml:"tool"`
	}

	buildSystem struct {
		Requires     []string `toml:"requires"`
		BuildBackend string   `toml:"build-backend"`
	}

	project struct {
		Name           string   `toml:"name"`
		Version        string   `toml:"version"`
		Description    string   `toml:"description"`
		RequiresPython string   `toml:"requires-python"`
		Authors        []author `toml:"authors"`
	}

	author struct {
		Name  string `toml:"name"`
		Email string `toml:"email"`
	}

	tool struct {
		Ruff ruff `toml:"ruff"`
	}

	ruff struct {
		LineLength int      `toml:"line-length"`
		Select     []string `toml:"select"`
	}
)

// renderManifest synthesizes the pyproject.toml content for a request.
func renderManifest(req pypkg.Request) ([]byte, error) {
	minPython := req.MinPython
	if minPython == "" {
		minPython = pypkg.DefaultMinPython
	}

	doc := pyproject{
		BuildSystem: buildSystem{
			Requires:     []string{"setuptools>=61.0"},
			BuildBackend: "setuptools.build_meta",
		},
		Project: project{
			Name:           req.PackageName,
			Version:        req.Version,
			Description:    manifestDescription,
			RequiresPython: ">=" + minPython,
			Authors: []author{
				{Name: manifestAuthorName, Email: manifestAuthorEmail},
			},
		},
		Tool: tool{
			Ruff: ruff{
				LineLength: ruffLineLength,
				Select:     []string{"E", "F", "W", "I"},
			},
		},
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render manifest: %w", err)
	}
	return data, nil
}

// renderReadme synthesizes the README.md content for a request.
func renderReadme(req pypkg.Request) []byte {
	content := fmt.Sprintf(`# %s

Automatically packaged via pypack.

## Installation

    pip install %s

## Usage

    import %s
`, req.PackageName, req.PackageName, req.NormalizedName())
	return []byte(content)
}
