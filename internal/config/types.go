// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"pypack-cli/pkg/pypkg"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidRepository is returned when a repository value is not recognized.
	ErrInvalidRepository = errors.New("invalid repository")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidToolPath is returned when a ToolPath value is whitespace-only.
	ErrInvalidToolPath = errors.New("invalid tool path")
	// ErrInvalidMinPython is returned when a MinPythonVersion is malformed.
	ErrInvalidMinPython = errors.New("invalid minimum python version")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidToolsConfig is the sentinel error wrapped by InvalidToolsConfigError.
	ErrInvalidToolsConfig = errors.New("invalid tools config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")

	minPythonRegex = regexp.MustCompile(`^\d+\.\d+$`)
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidRepositoryError is returned when a repository value is not recognized.
	// It wraps ErrInvalidRepository for errors.Is() compatibility.
	InvalidRepositoryError struct {
		Value string
	}

	// ToolPath represents a filesystem path or command name for an external tool.
	// The zero value ("") is valid and means "use the default tool name".
	// Non-zero values must not be whitespace-only.
	ToolPath string

	// InvalidToolPathError is returned when a ToolPath value is
	// non-empty but whitespace-only.
	InvalidToolPathError struct {
		Value ToolPath
	}

	// MinPythonVersion represents the minimum supported Python version
	// as MAJOR.MINOR (e.g., "3.8").
	MinPythonVersion string

	// InvalidMinPythonError is returned when a MinPythonVersion is not MAJOR.MINOR.
	// It wraps ErrInvalidMinPython for errors.Is() compatibility.
	InvalidMinPythonError struct {
		Value MinPythonVersion
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// InvalidToolsConfigError is returned when a ToolsConfig has invalid fields.
	InvalidToolsConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Repository selects the default upload target ("pypi" or "testpypi").
		Repository string `json:"repository" mapstructure:"repository" toml:"repository"`
		// MinPython sets the default minimum supported Python version.
		MinPython MinPythonVersion `json:"min_python" mapstructure:"min_python" toml:"min_python"`
		// Gates toggles the default quality gates.
		Gates GatesConfig `json:"gates" mapstructure:"gates" toml:"gates"`
		// Tools overrides the external tool invocations.
		Tools ToolsConfig `json:"tools" mapstructure:"tools" toml:"tools"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
	}

	// GatesConfig toggles the default quality gates.
	GatesConfig struct {
		// Lint enables the ruff lint gate by default.
		Lint bool `json:"lint" mapstructure:"lint" toml:"lint"`
		// Tests enables the pytest gate by default.
		Tests bool `json:"tests" mapstructure:"tests" toml:"tests"`
	}

	// ToolsConfig overrides external tool paths or command names.
	// Empty values fall back to the conventional tool names.
	ToolsConfig struct {
		// Python overrides the Python interpreter used for builds.
		Python ToolPath `json:"python" mapstructure:"python" toml:"python"`
		// Ruff overrides the ruff linter invocation.
		Ruff ToolPath `json:"ruff" mapstructure:"ruff" toml:"ruff"`
		// Pytest overrides the pytest invocation.
		Pytest ToolPath `json:"pytest" mapstructure:"pytest" toml:"pytest"`
		// Twine overrides the twine invocation.
		Twine ToolPath `json:"twine" mapstructure:"twine" toml:"twine"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
	}
)

// IsValid returns whether the Config has valid fields.
// It delegates to the repository, MinPython, Tools, and UI validators.
// Gates has only bool fields and needs no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if !pypkg.Repository(c.Repository).IsValid() {
		errs = append(errs, &InvalidRepositoryError{Value: c.Repository})
	}
	if valid, fieldErrs := c.MinPython.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Tools.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// IsValid returns whether the ToolsConfig has valid fields.
func (c ToolsConfig) IsValid() (bool, []error) {
	var errs []error
	for _, path := range []ToolPath{c.Python, c.Ruff, c.Pytest, c.Twine} {
		if valid, fieldErrs := path.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidToolsConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidToolsConfigError.
func (e *InvalidToolsConfigError) Error() string {
	return fmt.Sprintf("invalid tools config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidToolsConfig for errors.Is() compatibility.
func (e *InvalidToolsConfigError) Unwrap() error { return ErrInvalidToolsConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// Error implements the error interface for InvalidRepositoryError.
func (e *InvalidRepositoryError) Error() string {
	return fmt.Sprintf("invalid repository %q (valid: pypi, testpypi)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidRepositoryError) Unwrap() error { return ErrInvalidRepository }

// String returns the string representation of the ToolPath.
func (p ToolPath) String() string { return string(p) }

// IsValid returns whether the ToolPath is valid.
// The zero value ("") is valid (means "use the default tool name").
// Non-zero values must not be whitespace-only.
func (p ToolPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidToolPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidToolPathError.
func (e *InvalidToolPathError) Error() string {
	return fmt.Sprintf("invalid tool path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidToolPath for errors.Is() compatibility.
func (e *InvalidToolPathError) Unwrap() error { return ErrInvalidToolPath }

// String returns the string representation of the MinPythonVersion.
func (v MinPythonVersion) String() string { return string(v) }

// IsValid returns whether the MinPythonVersion is MAJOR.MINOR.
func (v MinPythonVersion) IsValid() (bool, []error) {
	if !minPythonRegex.MatchString(string(v)) {
		return false, []error{&InvalidMinPythonError{Value: v}}
	}
	return true, nil
}

// Error implements the error interface for InvalidMinPythonError.
func (e *InvalidMinPythonError) Error() string {
	return fmt.Sprintf("invalid minimum python version %q: must be MAJOR.MINOR (e.g., 3.8)", e.Value)
}

// Unwrap returns ErrInvalidMinPython for errors.Is() compatibility.
func (e *InvalidMinPythonError) Unwrap() error { return ErrInvalidMinPython }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Repository: string(pypkg.DefaultRepository),
		MinPython:  MinPythonVersion(pypkg.DefaultMinPython),
		Gates: GatesConfig{
			Lint:  true,
			Tests: true,
		},
		Tools: ToolsConfig{},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
