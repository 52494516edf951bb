// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/packrgo/packr/internal/config"
	"github.com/packrgo/packr/internal/reduce"
	"github.com/packrgo/packr/pkg/fspath"
	"github.com/packrgo/packr/pkg/platform"
	"github.com/packrgo/packr/pkg/types"
)

// reduceFlags holds the flag values of `packr reduce`. Flags override the
// matching config values only when set on the command line.
type reduceFlags struct {
	platform      string
	minimize      string
	classpath     []string
	strictProfile bool
	report        string
	dryRun        bool
}

func newReduceCommand(app *App) *cobra.Command {
	var flags reduceFlags

	reduceCmd := &cobra.Command{
		Use:   "reduce <output-dir>",
		Short: "Minimize the runtime and filter classpath archives in an output directory",
		Long: `Reduce an output directory in place.

When a minimization profile is set, the runtime's binaries are pruned,
every profile entry is deleted relative to the output directory and the
runtime's main archive is repacked. Every classpath archive is then
stripped of shared libraries that belong to other platforms.

` + SubtitleStyle.Render("Examples:") + `
  packr reduce out --platform windows64 --minimize hard --classpath build/libs/game.jar
  packr reduce out --report out-report.toml
  packr reduce out --minimize ./my-profile.txt --strict-profile`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReduce(cmd, app, args[0], flags)
		},
	}

	reduceCmd.Flags().StringVarP(&flags.platform, "platform", "p", "", "target platform: windows32, windows64, linux32, linux64 or macos")
	reduceCmd.Flags().StringVarP(&flags.minimize, "minimize", "m", "", "minimization profile: a file path or a bundled profile name")
	reduceCmd.Flags().StringSliceVar(&flags.classpath, "classpath", nil, "classpath archive to filter (repeatable)")
	reduceCmd.Flags().BoolVar(&flags.strictProfile, "strict-profile", false, "fail when profile entries cannot be deleted")
	reduceCmd.Flags().StringVar(&flags.report, "report", "", "write a size report (.toml, .yaml or .yml)")
	reduceCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print what would be removed without modifying anything")

	return reduceCmd
}

func runReduce(cmd *cobra.Command, app *App, outputDir string, flags reduceFlags) error {
	cfg, err := app.loadConfig(cmd.Context())
	if err != nil {
		return err
	}
	scheme := cfg.UI.ColorScheme

	opts, err := reduceOptions(cmd, app, cfg, flags)
	if err != nil {
		return app.fail(err, scheme)
	}

	if !fspath.IsDir(outputDir) {
		return &ExitError{Code: types.ExitFailure, Err: fmt.Errorf("output directory %s does not exist or is not a directory", outputDir)}
	}
	if flags.report != "" {
		if _, err := reduce.FormatFromPath(flags.report); err != nil {
			return &ExitError{Code: types.ExitFailure, Err: err}
		}
	}

	reducer := app.newReducer(opts.Verbose)

	if flags.dryRun {
		plan, err := reducer.Plan(outputDir, opts)
		if err != nil {
			return app.fail(err, scheme)
		}
		printPlan(app.stdout, outputDir, plan)
		return nil
	}

	report, runErr := reducer.Run(outputDir, opts)
	if report != nil {
		printReport(app.stdout, report)
		if flags.report != "" {
			if err := report.WriteFile(flags.report); err != nil {
				slog.Error("failed to write report", "path", flags.report, "error", err)
				if runErr == nil {
					runErr = err
				}
			} else {
				fmt.Fprintf(app.stdout, "%s Report written to %s\n", SuccessStyle.Render("✓"), flags.report)
			}
		}
	}
	if runErr != nil {
		return app.fail(runErr, scheme)
	}
	return nil
}

// reduceOptions layers the command-line flags over the loaded config.
func reduceOptions(cmd *cobra.Command, app *App, cfg *config.Config, flags reduceFlags) (reduce.Options, error) {
	opts := cfg.ReduceOptions()
	opts.Verbose = app.isVerbose(cfg)

	changed := cmd.Flags().Changed
	if changed("platform") {
		p, err := platform.Parse(flags.platform)
		if err != nil {
			return reduce.Options{}, err
		}
		opts.Platform = p
	}
	if changed("minimize") {
		opts.MinimizationProfile = flags.minimize
	}
	if changed("classpath") {
		opts.Classpath = flags.classpath
	}
	if changed("strict-profile") {
		opts.StrictProfile = flags.strictProfile
	}

	return opts, opts.Validate()
}

// printReport writes the human-readable summary of a pass.
func printReport(w io.Writer, report *reduce.Report) {
	fmt.Fprintf(w, "%s %s (%s)\n", TitleStyle.Render("Reduced"), CmdStyle.Render(report.OutputRoot), report.Platform)

	if report.MinimizeSkipped {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("runtime minimization skipped (no profile)"))
	} else {
		fmt.Fprintf(w, "  profile %s: %d entries, %d failed\n", CmdStyle.Render(report.Profile), len(report.Entries), report.FailedEntries())
		for _, e := range report.Entries {
			if e.Error != "" {
				fmt.Fprintf(w, "    %s %s: %s\n", ErrorStyle.Render("✗"), e.Path, e.Error)
			}
		}
	}

	for _, a := range report.Archives {
		fmt.Fprintf(w, "  %-9s %s  %s → %s", a.Kind, CmdStyle.Render(a.Path), formatSize(a.SizeBefore), formatSize(a.SizeAfter))
		if len(a.Removed) > 0 {
			fmt.Fprintf(w, "  (%d libraries removed)", len(a.Removed))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render("saved"), SuccessStyle.Render(formatSize(report.Saved())))
}

// printPlan writes the removals a dry run found.
func printPlan(w io.Writer, outputDir string, plan *reduce.Plan) {
	fmt.Fprintf(w, "%s %s %s\n", TitleStyle.Render("Dry run"), CmdStyle.Render(outputDir), SubtitleStyle.Render("(nothing was modified)"))
	fmt.Fprintf(w, "  platform %s keeps %s, strips %s\n", CmdStyle.Render(plan.Platform.String()),
		plan.Platform.NativeLibraryExtension(), strings.Join(plan.Platform.ForeignLibraryExtensions(), " "))
	if exts := plan.Platform.ExecutableExtensions(); plan.Minimize && len(exts) > 0 {
		fmt.Fprintf(w, "  executables %s\n", strings.Join(exts, " "))
	}

	if !plan.Minimize {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("runtime minimization skipped (no profile)"))
	} else {
		fmt.Fprintf(w, "  profile %s\n", CmdStyle.Render(plan.Profile))
		for _, exe := range plan.Executables {
			fmt.Fprintf(w, "    remove %s\n", exe)
		}
		for _, e := range plan.Entries {
			switch {
			case e.Invalid != "":
				fmt.Fprintf(w, "    %s %s: %s\n", ErrorStyle.Render("skip"), e.Path, e.Invalid)
			case e.Exists:
				fmt.Fprintf(w, "    remove %s\n", e.Path)
			default:
				fmt.Fprintf(w, "    %s %s\n", SubtitleStyle.Render("absent"), e.Path)
			}
		}
		if plan.ScriptingArchive != "" {
			fmt.Fprintf(w, "    remove %s\n", plan.ScriptingArchive)
		}
	}

	for _, a := range plan.Archives {
		fmt.Fprintf(w, "  archive %s: %d foreign libraries\n", CmdStyle.Render(a.Path), len(a.Foreign))
		for _, lib := range a.Foreign {
			fmt.Fprintf(w, "    remove %s\n", lib)
		}
	}
}

// formatSize renders a byte count in KiB with one decimal.
func formatSize(n int64) string {
	return fmt.Sprintf("%.1f KiB", float64(n)/1024)
}
