// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pypack-cli/internal/issue"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWithOptions_NoConfigFileUsesDefaults(t *testing.T) {
	cfg, resolved, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("loadWithOptions() error: %v", err)
	}
	if resolved != "" {
		t.Errorf("resolved path = %q, want empty without a config file", resolved)
	}
	if cfg.Repository != DefaultConfig().Repository {
		t.Errorf("Repository = %q, want default", cfg.Repository)
	}
}

func TestLoadWithOptions_ReadsConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "repository = 'testpypi'\nmin_python = '3.11'\n\n[gates]\nlint = false\n")

	cfg, resolved, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("loadWithOptions() error: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Repository != "testpypi" {
		t.Errorf("Repository = %q", cfg.Repository)
	}
	if cfg.MinPython != "3.11" {
		t.Errorf("MinPython = %q", cfg.MinPython)
	}
	if cfg.Gates.Lint {
		t.Error("Gates.Lint = true, want false from file")
	}
	if !cfg.Gates.Tests {
		t.Error("Gates.Tests = false, want default true")
	}
}

func TestLoadWithOptions_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "repository = [broken\n")

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err == nil {
		t.Fatal("loadWithOptions() should fail on malformed TOML")
	}

	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("error = %T, want *issue.ActionableError", err)
	}
	if len(actionable.Suggestions) == 0 {
		t.Error("parse error should carry remediation suggestions")
	}
}

func TestLoadWithOptions_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad repository", "repository = 'my-private-index'\n"},
		{"bad min python", "min_python = 'three.eight'\n"},
		{"bad color scheme", "[ui]\ncolor_scheme = 'solarized'\n"},
		{"whitespace tool path", "[tools]\nruff = '   '\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("loadWithOptions() should reject invalid values")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error should wrap ErrInvalidConfig, got: %v", err)
			}
		})
	}
}

func TestLoadWithOptions_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := loadWithOptions(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if err == nil {
		t.Fatal("loadWithOptions() should fail with canceled context")
	}
}

func TestConfigDir_Override(t *testing.T) {
	t.Cleanup(Reset)

	dir := t.TempDir()
	SetConfigDirOverride(dir)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if got != dir {
		t.Errorf("ConfigDir() = %q, want override %q", got, dir)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Cleanup(Reset)
	SetConfigDirOverride(filepath.Join(t.TempDir(), "pypack"))

	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() error: %v", err)
	}

	cfgDir, _ := ConfigDir()
	data, err := os.ReadFile(filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt))
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if !strings.Contains(string(data), "repository = 'pypi'") {
		t.Errorf("default config missing repository key:\n%s", data)
	}

	// Second call must not overwrite
	if err := os.WriteFile(filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), []byte("repository = 'testpypi'\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CreateDefaultConfig(); err != nil {
		t.Fatal(err)
	}
	data, _ = os.ReadFile(filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt))
	if !strings.Contains(string(data), "testpypi") {
		t.Error("CreateDefaultConfig() overwrote an existing config file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Cleanup(Reset)
	SetConfigDirOverride(filepath.Join(t.TempDir(), "pypack"))

	cfg := DefaultConfig()
	cfg.Repository = "testpypi"
	cfg.Tools.Python = "python3.13"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	cfgDir, _ := ConfigDir()
	loaded, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: cfgDir})
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if loaded.Repository != "testpypi" {
		t.Errorf("Repository = %q after round trip", loaded.Repository)
	}
	if loaded.Tools.Python != "python3.13" {
		t.Errorf("Tools.Python = %q after round trip", loaded.Tools.Python)
	}
}

func TestGenerateTOML(t *testing.T) {
	content, err := GenerateTOML(DefaultConfig())
	if err != nil {
		t.Fatalf("GenerateTOML() error: %v", err)
	}

	for _, want := range []string{"repository = 'pypi'", "min_python = '3.8'", "[gates]", "[ui]"} {
		if !strings.Contains(content, want) {
			t.Errorf("GenerateTOML() missing %q:\n%s", want, content)
		}
	}
}
