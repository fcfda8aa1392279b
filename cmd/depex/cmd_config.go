// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"depex-cli/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `depex config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage depex configuration",
		Long: `Manage depex configuration.

Configuration is stored in:
  - Linux: ~/.config/depex/config.cue
  - macOS: ~/Library/Application Support/depex/config.cue
  - Windows: %APPDATA%\depex\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.InitDefault()
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("Created ")+path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.Config.Load(ctx)
	if err != nil {
		return err
	}

	headerStyle := TitleStyle
	keyStyle := PkgStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(app.stdout, headerStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	if path := app.Config.ConfigFilePath(); path != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)

	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("cargo_bin"), valueStyle.Render(cfg.CargoBin))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("expand.features"), valueStyle.Render(formatList(cfg.Expand.Features)))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("expand.all_features"), valueStyle.Render(fmt.Sprintf("%v", cfg.Expand.AllFeatures)))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("expand.no_default_features"), valueStyle.Render(fmt.Sprintf("%v", cfg.Expand.NoDefaultFeatures)))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("expand.tests"), valueStyle.Render(fmt.Sprintf("%v", cfg.Expand.Tests)))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("expand.release"), valueStyle.Render(fmt.Sprintf("%v", cfg.Expand.Release)))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("expand.unstable_flags"), valueStyle.Render(formatList(cfg.Expand.UnstableFlags)))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("ui.color_scheme"), valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("ui.verbose"), valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	path := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
	fmt.Fprintln(app.stdout, path)

	if _, statErr := os.Stat(path); statErr != nil {
		fmt.Fprintln(app.stderr, SubtitleStyle.Render("(file does not exist yet, run 'depex config init')"))
	}

	return nil
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
