// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/packrgo/packr/internal/reduce"
	"github.com/packrgo/packr/pkg/platform"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLayout is the sentinel error wrapped by InvalidLayoutError.
	ErrInvalidLayout = errors.New("invalid layout config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidLayoutError is returned when a LayoutConfig has invalid fields.
	InvalidLayoutError struct {
		Cause error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Platform is the packaging target.
		Platform platform.Platform `json:"platform" mapstructure:"platform"`
		// MinimizeProfile names the runtime minimization profile ("" disables it).
		MinimizeProfile string `json:"minimize_profile" mapstructure:"minimize_profile"`
		// Classpath lists the application archives to filter.
		Classpath []string `json:"classpath" mapstructure:"classpath"`
		// StrictProfile fails the run when profile entries cannot be deleted.
		StrictProfile bool `json:"strict_profile" mapstructure:"strict_profile"`
		// Layout overrides the runtime layout names.
		Layout LayoutConfig `json:"layout" mapstructure:"layout"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// LayoutConfig names the parts of the runtime in the output directory.
	LayoutConfig struct {
		RuntimeDir       string `json:"runtime_dir" mapstructure:"runtime_dir"`
		MainArchive      string `json:"main_archive" mapstructure:"main_archive"`
		ScriptingArchive string `json:"scripting_archive" mapstructure:"scripting_archive"`
		BinDir           string `json:"bin_dir" mapstructure:"bin_dir"`
		ClientDir        string `json:"client_dir" mapstructure:"client_dir"`
		ScratchSuffix    string `json:"scratch_suffix" mapstructure:"scratch_suffix"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the default configuration: the host platform, no
// minimization, an empty classpath and the conventional layout.
func DefaultConfig() *Config {
	layout := reduce.DefaultLayout()
	return &Config{
		Platform:  platform.Host(),
		Classpath: []string{},
		Layout: LayoutConfig{
			RuntimeDir:       layout.RuntimeDir,
			MainArchive:      layout.MainArchive,
			ScriptingArchive: layout.ScriptingArchive,
			BinDir:           layout.BinDir,
			ClientDir:        layout.ClientDir,
			ScratchSuffix:    layout.ScratchSuffix,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Reduce converts the layout into its reduce form. Blank fields take the
// conventional defaults.
func (l LayoutConfig) Reduce() reduce.Layout {
	return reduce.Layout{
		RuntimeDir:       l.RuntimeDir,
		MainArchive:      l.MainArchive,
		ScriptingArchive: l.ScriptingArchive,
		BinDir:           l.BinDir,
		ClientDir:        l.ClientDir,
		ScratchSuffix:    l.ScratchSuffix,
	}.WithDefaults()
}

// IsValid returns whether every layout path stays inside the output tree.
func (l LayoutConfig) IsValid() (bool, []error) {
	if err := l.Reduce().Validate(); err != nil {
		return false, []error{&InvalidLayoutError{Cause: err}}
	}
	return true, nil
}

// Error implements the error interface for InvalidLayoutError.
func (e *InvalidLayoutError) Error() string {
	return fmt.Sprintf("invalid layout config: %v", e.Cause)
}

// Unwrap returns ErrInvalidLayout and the cause for errors.Is() compatibility.
func (e *InvalidLayoutError) Unwrap() []error { return []error{ErrInvalidLayout, e.Cause} }

// IsValid returns whether the Config has valid fields.
// It delegates to Platform, Layout and UI.ColorScheme validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Platform.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Layout.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// ReduceOptions builds the immutable options of a reduction pass.
func (c *Config) ReduceOptions() reduce.Options {
	return reduce.Options{
		MinimizationProfile: c.MinimizeProfile,
		Platform:            c.Platform,
		Classpath:           append([]string(nil), c.Classpath...),
		Verbose:             c.UI.Verbose,
		StrictProfile:       c.StrictProfile,
		Layout:              c.Layout.Reduce(),
	}
}
