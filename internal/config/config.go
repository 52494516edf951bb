// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/packrgo/packr/internal/issue"
	"github.com/packrgo/packr/pkg/fspath"
	"github.com/packrgo/packr/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "packr"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "PACKR"
)

// ConfigDir returns the packr configuration directory under the XDG config
// home of the current platform.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	if xdg.ConfigHome == "" {
		return "", errors.New("failed to determine the user config directory")
	}
	return filepath.Join(xdg.ConfigHome, AppName), nil
}

// ConfigFilePath returns the path of the config file inside ConfigDir.
func ConfigFilePath() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// newViper returns a Viper instance holding the defaults and wired for
// PACKR_ environment overrides.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("platform", defaults.Platform.String())
	v.SetDefault("minimize_profile", defaults.MinimizeProfile)
	v.SetDefault("classpath", defaults.Classpath)
	v.SetDefault("strict_profile", defaults.StrictProfile)
	v.SetDefault("layout.runtime_dir", defaults.Layout.RuntimeDir)
	v.SetDefault("layout.main_archive", defaults.Layout.MainArchive)
	v.SetDefault("layout.scripting_archive", defaults.Layout.ScriptingArchive)
	v.SetDefault("layout.bin_dir", defaults.Layout.BinDir)
	v.SetDefault("layout.client_dir", defaults.Layout.ClientDir)
	v.SetDefault("layout.scratch_suffix", defaults.Layout.ScratchSuffix)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme.String())
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	resolvedPath, err := resolveConfigFile(opts)
	if err != nil {
		return nil, err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'packr config dump' to see a valid configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, issue.WrapWithContext(err, "decode configuration", resolvedPath)
	}

	// Environment overrides bypass the schema, so the decoded value is checked again.
	if p, err := platform.Parse(cfg.Platform.String()); err == nil {
		cfg.Platform = p
	}
	if valid, errs := cfg.IsValid(); !valid {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check PACKR_* environment variables for typos").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, nil
}

// resolveConfigFile picks the config file to read: the explicit path when
// set (it must exist), else config.cue in the config directory, else
// ./config.cue. It returns "" when no file applies.
func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fspath.IsFile(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'packr config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s: %w", opts.ConfigFilePath, fs.ErrNotExist)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	if cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fspath.IsFile(cuePath) {
		return cuePath, nil
	}
	if localPath := ConfigFileName + "." + ConfigFileExt; fspath.IsFile(localPath) {
		return localPath, nil
	}
	return "", nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// CreateDefaultConfig writes a default config file into the config directory
// unless one exists. It returns the file path and whether it was created.
func CreateDefaultConfig() (string, bool, error) {
	cfgPath, err := ConfigFilePath()
	if err != nil {
		return "", false, err
	}

	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// packr configuration file\n\n")

	fmt.Fprintf(&sb, "platform: %q\n", cfg.Platform)
	fmt.Fprintf(&sb, "minimize_profile: %q\n", cfg.MinimizeProfile)
	fmt.Fprintf(&sb, "strict_profile: %v\n", cfg.StrictProfile)

	if len(cfg.Classpath) > 0 {
		sb.WriteString("\nclasspath: [\n")
		for _, entry := range cfg.Classpath {
			fmt.Fprintf(&sb, "\t%q,\n", entry)
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\nlayout: {\n")
	fmt.Fprintf(&sb, "\truntime_dir: %q\n", cfg.Layout.RuntimeDir)
	fmt.Fprintf(&sb, "\tmain_archive: %q\n", cfg.Layout.MainArchive)
	fmt.Fprintf(&sb, "\tscripting_archive: %q\n", cfg.Layout.ScriptingArchive)
	fmt.Fprintf(&sb, "\tbin_dir: %q\n", cfg.Layout.BinDir)
	fmt.Fprintf(&sb, "\tclient_dir: %q\n", cfg.Layout.ClientDir)
	fmt.Fprintf(&sb, "\tscratch_suffix: %q\n", cfg.Layout.ScratchSuffix)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
