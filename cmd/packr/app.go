// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/packrgo/packr/internal/config"
	"github.com/packrgo/packr/internal/issue"
	"github.com/packrgo/packr/internal/reduce"
	"github.com/packrgo/packr/pkg/types"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires CLI services and shared dependencies. Every command handler
	// receives the App and reaches configuration, profiles and output
	// streams through it.
	App struct {
		Config   ConfigProvider
		Profiles *reduce.ProfileLoader
		stdout   io.Writer
		stderr   io.Writer

		// Global flag values, bound by NewRootCommand.
		verbose    bool
		configPath string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Profiles *reduce.ProfileLoader
		Stdout   io.Writer
		Stderr   io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Profiles == nil {
		deps.Profiles = reduce.NewProfileLoader()
	}

	return &App{
		Config:   deps.Config,
		Profiles: deps.Profiles,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
}

// loadOptions returns the config loading inputs selected by global flags.
func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: a.configPath}
}

// loadConfig loads the configuration, rendering the config issue on failure.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		a.renderIssue(issue.ConfigLoadFailedId, config.ColorSchemeAuto)
		return nil, &ExitError{Code: types.ExitFailure, Err: err}
	}
	return cfg, nil
}

// newReducer returns a Reducer logging to stderr at the requested verbosity.
func (a *App) newReducer(verbose bool) *reduce.Reducer {
	return reduce.New(
		reduce.WithLogger(newLogger(a.stderr, "reduce", verbose)),
		reduce.WithProfileLoader(a.Profiles),
	)
}

// isVerbose reports whether either the flag or the config asks for verbose output.
func (a *App) isVerbose(cfg *config.Config) bool {
	return a.verbose || (cfg != nil && cfg.UI.Verbose)
}
