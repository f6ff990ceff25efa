// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	SourceNotFoundId Id = iota + 1
	PythonNotFoundId
	RuffNotFoundId
	PytestNotFoundId
	TwineNotFoundId
	BuildModuleMissingId
	WorkspaceAllocFailedId
	ConfigLoadFailedId
	InvalidPackageNameId
	InvalidVersionId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	sourceNotFoundIssue = &Issue{
		id: SourceNotFoundId,
		mdMsg: `
# Source path not found!

The source file or directory you asked to package does not exist.

## Things you can try:
- Check for typos in the path
- Use an absolute path:
~~~
$ pypack package /full/path/to/module.py --name mytool --pkg-version 1.0.0
~~~

- For a directory source, point at the directory containing your modules, not a single file inside it`,
	}

	pythonNotFoundIssue = &Issue{
		id: PythonNotFoundId,
		mdMsg: `
# Python interpreter not found!

Building distributions requires a Python interpreter with the 'build' package.

## Things you can try:
- Install Python 3.8 or newer:
  - Linux: ` + "`sudo apt install python3`" + ` or ` + "`sudo dnf install python3`" + `
  - macOS: ` + "`brew install python`" + `
  - Windows: https://www.python.org/downloads/

- If Python is installed under a different name, point pypack at it:
~~~toml
[tools]
python = "python3.12"
~~~`,
		extLinks: []HttpLink{"https://www.python.org/downloads/"},
	}

	ruffNotFoundIssue = &Issue{
		id: RuffNotFoundId,
		mdMsg: `
# ruff not found!

The lint gate is enabled but the ruff linter is not on your PATH.

## Things you can try:
- Install ruff:
~~~
$ pip install ruff
~~~

- Or disable the lint gate for this run:
~~~
$ pypack package ./src --name mytool --pkg-version 1.0.0 --lint=false
~~~`,
		extLinks: []HttpLink{"https://docs.astral.sh/ruff/"},
	}

	pytestNotFoundIssue = &Issue{
		id: PytestNotFoundId,
		mdMsg: `
# pytest not found!

The test gate is enabled but pytest is not on your PATH.

## Things you can try:
- Install pytest:
~~~
$ pip install pytest
~~~

- Or disable the test gate for this run:
~~~
$ pypack package ./src --name mytool --pkg-version 1.0.0 --tests=false
~~~`,
		extLinks: []HttpLink{"https://docs.pytest.org/"},
	}

	twineNotFoundIssue = &Issue{
		id: TwineNotFoundId,
		mdMsg: `
# twine not found!

A token was supplied so pypack wants to upload, but twine is not on your PATH.

## Things you can try:
- Install twine:
~~~
$ pip install twine
~~~

- Or build without publishing by omitting the token`,
		extLinks: []HttpLink{"https://twine.readthedocs.io/"},
	}

	buildModuleMissingIssue = &Issue{
		id: BuildModuleMissingId,
		mdMsg: `
# The 'build' package is missing!

pypack builds distributions with ` + "`python -m build`" + `, which requires the
'build' package in the interpreter's environment.

## Things you can try:
- Install it:
~~~
$ pip install build
~~~

- Check which interpreter pypack uses with ` + "`pypack config show`" + ` and install
  the package into that environment`,
		extLinks: []HttpLink{"https://build.pypa.io/"},
	}

	workspaceAllocFailedIssue = &Issue{
		id: WorkspaceAllocFailedId,
		mdMsg: `
# Could not create a workspace!

pypack stages every build in a private temporary directory and failed to
create one.

## Common causes:
- The temp directory is full or read-only
- TMPDIR points at a location you cannot write to

## Things you can try:
- Free up disk space
- Point TMPDIR at a writable location:
~~~
$ TMPDIR=/var/tmp pypack package ...
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the pypack configuration file.

## Configuration file locations:
- Linux: ~/.config/pypack/config.toml
- macOS: ~/Library/Application Support/pypack/config.toml
- Windows: %APPDATA%\pypack\config.toml

## Things you can try:
- Create a default configuration:
~~~
$ pypack config init
~~~

- Check the TOML syntax
- Remove the config file to use defaults

## Example configuration:
~~~toml
repository = "pypi"
min_python = "3.8"

[gates]
lint = true
tests = true

[ui]
verbose = false
~~~`,
	}

	invalidPackageNameIssue = &Issue{
		id: InvalidPackageNameId,
		mdMsg: `
# Invalid package name!

Distribution names may only contain ASCII letters, digits, dots, hyphens
and underscores, and must start and end with a letter or digit.

## Examples:
- Valid: ` + "`awesome-tool`, `awesome_tool`, `awesome.tool`, `tool2`" + `
- Invalid: ` + "`-tool`, `tool-`, `my tool`, `tool!`" + `

pypack normalizes the name to lowercase with underscores for the import
package, so ` + "`Awesome-Tool`" + ` installs as ` + "`awesome_tool`" + `.`,
		extLinks: []HttpLink{"https://packaging.python.org/en/latest/specifications/name-normalization/"},
	}

	invalidVersionIssue = &Issue{
		id: InvalidVersionId,
		mdMsg: `
# Invalid version!

Versions must be semantic versions like ` + "`1.0.0`" + ` or ` + "`2.1.3-rc.1`" + `.

## Things you can try:
- Use MAJOR.MINOR.PATCH:
~~~
$ pypack package ./src --name mytool --pkg-version 1.0.0
~~~

- Pre-release and build metadata suffixes are accepted (` + "`1.0.0-beta.2`" + `)`,
		extLinks: []HttpLink{"https://semver.org/"},
	}

	issues = map[Id]*Issue{
		sourceNotFoundIssue.Id():       sourceNotFoundIssue,
		pythonNotFoundIssue.Id():       pythonNotFoundIssue,
		ruffNotFoundIssue.Id():         ruffNotFoundIssue,
		pytestNotFoundIssue.Id():       pytestNotFoundIssue,
		twineNotFoundIssue.Id():        twineNotFoundIssue,
		buildModuleMissingIssue.Id():   buildModuleMissingIssue,
		workspaceAllocFailedIssue.Id(): workspaceAllocFailedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		invalidPackageNameIssue.Id():   invalidPackageNameIssue,
		invalidVersionIssue.Id():       invalidVersionIssue,
	}
)

func Values() []*Issue {
	return slices.Collect(maps.Values(issues))
}

func Get(id Id) *Issue {
	return issues[id]
}
