// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pypack-cli/internal/config"
	"pypack-cli/internal/issue"
)

// configCmd is the `pypack config` command tree.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pypack configuration",
	Long: `Manage pypack configuration.

Configuration is stored in:
  - Linux: ~/.config/pypack/config.toml
  - macOS: ~/Library/Application Support/pypack/config.toml
  - Windows: %APPDATA%\pypack\config.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := config.GenerateTOML(loadedConfig)
			if err != nil {
				return err
			}
			fmt.Print(content)
			return nil
		},
	})
}

func showConfig() error {
	cfg, err := config.Load()
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	cfgDir, dirErr := config.ConfigDir()
	cfgPath := ""
	if dirErr == nil {
		cfgPath = filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
	}
	if cfgPath != "" && fileExistsCheck(cfgPath) {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("repository"), valueStyle.Render(cfg.Repository))
	fmt.Printf("%s: %s\n", keyStyle.Render("min_python"), valueStyle.Render(string(cfg.MinPython)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("gates"))
	fmt.Printf("  lint: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Gates.Lint)))
	fmt.Printf("  tests: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Gates.Tests)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("tools"))
	printToolOverride("python", cfg.Tools.Python)
	printToolOverride("ruff", cfg.Tools.Ruff)
	printToolOverride("pytest", cfg.Tools.Pytest)
	printToolOverride("twine", cfg.Tools.Twine)

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func printToolOverride(name string, path config.ToolPath) {
	if path == "" {
		fmt.Printf("  %s: %s\n", name, SubtitleStyle.Render("(default)"))
		return
	}
	fmt.Printf("  %s: %s\n", name, SuccessStyle.Render(string(path)))
}

func initConfig() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s\n",
		SuccessStyle.Render("✓"),
		filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))

	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))

	return nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
