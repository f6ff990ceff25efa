// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with TOML as the file format.
//
// Configuration is loaded from ~/.config/pypack/config.toml (or XDG equivalent on Linux,
// ~/Library/Application Support/pypack/config.toml on macOS, %APPDATA%\pypack\config.toml
// on Windows). The package provides type-safe configuration access covering the default
// upload repository, quality gate toggles, external tool overrides, and UI settings.
//
// Values are validated after unmarshaling so that a malformed file fails loudly with
// remediation suggestions instead of silently producing a broken pipeline.
package config
