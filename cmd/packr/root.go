// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the packr command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "packr",
		Short: "Shrink a packaged JVM application and its bundled runtime",
		Long: TitleStyle.Render("packr") + SubtitleStyle.Render(" - shrink a packaged JVM application and its bundled runtime") + `

packr reduces an output directory that already holds a bundled runtime
(jre/) and the application's classpath archives. It deletes runtime files
the application never needs, guided by a minimization profile, and strips
shared libraries built for other platforms from every classpath archive.

` + SubtitleStyle.Render("Examples:") + `
  packr reduce out --platform linux64 --minimize soft --classpath app.jar
  packr reduce out --dry-run            Show what would be removed
  packr profiles list                   List bundled minimization profiles
  packr config show                     Show current configuration`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			installDefaultLogger(app.stderr, app.verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/packr/config.cue)")

	rootCmd.AddCommand(newReduceCommand(app))
	rootCmd.AddCommand(newProfilesCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the packr CLI and exits the process on failure. It is called
// by main.main.
func Execute() {
	app := NewApp(Dependencies{})

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}
