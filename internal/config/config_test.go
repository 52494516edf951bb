// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/packrgo/packr/internal/issue"
	"github.com/packrgo/packr/internal/reduce"
	"github.com/packrgo/packr/internal/testutil"
	"github.com/packrgo/packr/pkg/platform"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), content)
	return dir
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Platform != platform.Host() {
		t.Errorf("expected default platform to be the host (%s), got %s", platform.Host(), cfg.Platform)
	}
	if cfg.MinimizeProfile != "" {
		t.Errorf("expected minimization to be disabled by default, got %q", cfg.MinimizeProfile)
	}
	if len(cfg.Classpath) != 0 {
		t.Errorf("expected empty default classpath, got %v", cfg.Classpath)
	}
	if cfg.StrictProfile {
		t.Error("expected strict profile to be off by default")
	}
	if cfg.Layout.Reduce() != reduce.DefaultLayout() {
		t.Errorf("expected conventional layout, got %+v", cfg.Layout)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme to be auto, got %s", cfg.UI.ColorScheme)
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config should be valid, got %v", errs)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	opts := LoadOptions{ConfigDirPath: t.TempDir()}
	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Layout != DefaultConfig().Layout {
		t.Errorf("expected default layout, got %+v", cfg.Layout)
	}
	if path, err := Source(opts); err != nil || path != "" {
		t.Errorf("Source() = %q, %v; want no config file", path, err)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	t.Parallel()

	dir := writeConfig(t, `
platform: "windows64"
minimize_profile: "hard"
classpath: ["build/libs/game.jar", "natives.jar"]
strict_profile: true
layout: {
	scratch_suffix: ".unpacked"
}
ui: {
	verbose: true
}
`)

	opts := LoadOptions{ConfigDirPath: dir}
	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if path, _ := Source(opts); path != filepath.Join(dir, "config.cue") {
		t.Errorf("Source() = %q", path)
	}
	if cfg.Platform != platform.Windows64 {
		t.Errorf("Platform = %q, want windows64", cfg.Platform)
	}
	if cfg.MinimizeProfile != "hard" {
		t.Errorf("MinimizeProfile = %q, want hard", cfg.MinimizeProfile)
	}
	if !slices.Equal(cfg.Classpath, []string{"build/libs/game.jar", "natives.jar"}) {
		t.Errorf("Classpath = %v", cfg.Classpath)
	}
	if !cfg.StrictProfile || !cfg.UI.Verbose {
		t.Error("expected strict_profile and ui.verbose to be true")
	}
	if cfg.Layout.ScratchSuffix != ".unpacked" {
		t.Errorf("ScratchSuffix = %q", cfg.Layout.ScratchSuffix)
	}
	if cfg.Layout.RuntimeDir != reduce.DefaultRuntimeDir {
		t.Errorf("omitted layout fields should keep defaults, RuntimeDir = %q", cfg.Layout.RuntimeDir)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	dir := writeConfig(t, `platform: "macos"`)
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(dir, "config.cue"),
		ConfigDirPath:  writeConfig(t, `platform: "linux32"`),
	})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Platform != platform.MacOS {
		t.Errorf("explicit file should win, got platform %q", cfg.Platform)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "absent.cue"),
	})
	if err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error should wrap fs.ErrNotExist, got: %v", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || !ae.HasSuggestions() {
		t.Errorf("expected an ActionableError with suggestions, got %T", err)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown platform", `platform: "beos"`, "platform"},
		{"unknown field", `compression_level: 9`, "compression_level"},
		{"wrong type", `strict_profile: "yes"`, "strict_profile"},
		{"escaping layout path", `layout: { bin_dir: "../bin" }`, "bin_dir"},
		{"separator in scratch suffix", `layout: { scratch_suffix: "/tmp" }`, "scratch_suffix"},
		{"empty classpath entry", `classpath: ["a.jar", ""]`, "classpath[1]"},
		{"syntax error", `platform: "linux64`, "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: writeConfig(t, tt.content)})
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should mention %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PACKR_PLATFORM", "MacOS")
	t.Setenv("PACKR_UI_VERBOSE", "true")
	t.Setenv("PACKR_CLASSPATH", "a.jar,b.jar")
	t.Setenv("PACKR_LAYOUT_RUNTIME_DIR", "runtime")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: writeConfig(t, `platform: "linux64"`)})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Platform != platform.MacOS {
		t.Errorf("Platform = %q, want macos", cfg.Platform)
	}
	if !cfg.UI.Verbose {
		t.Error("expected ui.verbose from the environment")
	}
	if !slices.Equal(cfg.Classpath, []string{"a.jar", "b.jar"}) {
		t.Errorf("Classpath = %v", cfg.Classpath)
	}
	if cfg.Layout.RuntimeDir != "runtime" {
		t.Errorf("RuntimeDir = %q", cfg.Layout.RuntimeDir)
	}
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	t.Setenv("PACKR_PLATFORM", "beos")

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if !errors.Is(err, platform.ErrInvalidPlatform) {
		t.Errorf("error should wrap ErrInvalidPlatform, got %v", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGenerateCUE_LoadsBack(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Platform = platform.Linux32
	cfg.MinimizeProfile = "soft"
	cfg.Classpath = []string{"app.jar"}
	cfg.UI.ColorScheme = ColorSchemeDark

	loaded, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: writeConfig(t, GenerateCUE(cfg))})
	if err != nil {
		t.Fatalf("generated CUE failed to load: %v\n%s", err, GenerateCUE(cfg))
	}
	if loaded.Platform != cfg.Platform || loaded.MinimizeProfile != "soft" || loaded.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("loaded config differs: %+v", loaded)
	}
	if !slices.Equal(loaded.Classpath, cfg.Classpath) {
		t.Errorf("Classpath = %v", loaded.Classpath)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "packr")
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	path, created, err := CreateDefaultConfig()
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error: %v", err)
	}
	if !created || path != filepath.Join(dir, "config.cue") {
		t.Errorf("CreateDefaultConfig() = %q, %v", path, created)
	}

	testutil.MustWriteFile(t, path, `platform: "macos"`)
	_, created, err = CreateDefaultConfig()
	if err != nil || created {
		t.Errorf("an existing file must be left alone, created=%v err=%v", created, err)
	}
	if got := testutil.MustReadFile(t, path); got != `platform: "macos"` {
		t.Errorf("existing config was overwritten: %q", got)
	}
}

func TestConfigDir_Override(t *testing.T) {
	SetConfigDirOverride("/custom/packr")
	t.Cleanup(Reset)

	dir, err := ConfigDir()
	if err != nil || dir != "/custom/packr" {
		t.Errorf("ConfigDir() = %q, %v", dir, err)
	}

	Reset()
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if filepath.Base(dir) != AppName {
		t.Errorf("ConfigDir() = %q, want a %s directory", dir, AppName)
	}
}

func TestReduceOptions(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Platform = platform.Windows32
	cfg.MinimizeProfile = "soft"
	cfg.Classpath = []string{"a.jar"}
	cfg.StrictProfile = true
	cfg.UI.Verbose = true
	cfg.Layout.ScratchSuffix = ""

	opts := cfg.ReduceOptions()
	if opts.Platform != platform.Windows32 || opts.MinimizationProfile != "soft" || !opts.StrictProfile || !opts.Verbose {
		t.Errorf("ReduceOptions() = %+v", opts)
	}
	if opts.Layout.ScratchSuffix != reduce.DefaultScratchSuffix {
		t.Errorf("blank layout fields should take defaults, got %q", opts.Layout.ScratchSuffix)
	}

	opts.Classpath[0] = "changed.jar"
	if cfg.Classpath[0] != "a.jar" {
		t.Error("ReduceOptions must copy the classpath")
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("options from a valid config should validate: %v", err)
	}
}

func TestMain(m *testing.M) {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, EnvPrefix+"_") {
			_ = os.Unsetenv(strings.SplitN(kv, "=", 2)[0])
		}
	}
	os.Exit(m.Run())
}
