// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/packrgo/packr/internal/config"
)

// newConfigCommand creates the `packr config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage packr configuration",
		Long: `Manage packr configuration.

Configuration is stored in config.cue under the user config directory:
  - Linux: ~/.config/packr/config.cue
  - macOS: ~/Library/Application Support/packr/config.cue
  - Windows: %LOCALAPPDATA%\packr\config.cue

Every value can be overridden with a PACKR_ environment variable, for
example PACKR_PLATFORM=macos or PACKR_UI_VERBOSE=true.`,
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
			return initConfig(app)
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
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
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
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	w := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	source, err := config.Source(app.loadOptions())
	if err != nil || source == "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), source)
	}
	fmt.Fprintln(w)

	profile := cfg.MinimizeProfile
	if profile == "" {
		profile = "(none)"
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("platform"), valueStyle.Render(cfg.Platform.String()))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("minimize_profile"), valueStyle.Render(profile))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("strict_profile"), valueStyle.Render(fmt.Sprintf("%v", cfg.StrictProfile)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("classpath"))
	if len(cfg.Classpath) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, entry := range cfg.Classpath {
		fmt.Fprintf(w, "  - %s\n", valueStyle.Render(entry))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("layout"))
	writeValues(w, valueStyle.Render, [][2]string{
		{"runtime_dir", cfg.Layout.RuntimeDir},
		{"main_archive", cfg.Layout.MainArchive},
		{"scripting_archive", cfg.Layout.ScriptingArchive},
		{"bin_dir", cfg.Layout.BinDir},
		{"client_dir", cfg.Layout.ClientDir},
		{"scratch_suffix", cfg.Layout.ScratchSuffix},
	})

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	writeValues(w, valueStyle.Render, [][2]string{
		{"color_scheme", cfg.UI.ColorScheme.String()},
		{"verbose", fmt.Sprintf("%v", cfg.UI.Verbose)},
	})

	return nil
}

func writeValues(w io.Writer, render func(...string) string, pairs [][2]string) {
	for _, kv := range pairs {
		fmt.Fprintf(w, "  %s: %s\n", kv[0], render(kv[1]))
	}
}

func initConfig(app *App) error {
	cfgPath, created, err := config.CreateDefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	if !created {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), cfgPath)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", cfgPath)

	if source, err := config.Source(app.loadOptions()); err == nil && source != "" && source != cfgPath {
		fmt.Fprintf(app.stdout, "Active config file: %s\n", source)
	}

	var envVars []string
	for _, key := range []string{"PLATFORM", "MINIMIZE_PROFILE", "CLASSPATH", "STRICT_PROFILE", "UI_VERBOSE"} {
		envVars = append(envVars, config.EnvPrefix+"_"+key)
	}
	fmt.Fprintf(app.stdout, "Environment overrides: %s, ...\n", strings.Join(envVars, ", "))

	return nil
}
