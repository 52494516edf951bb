// SPDX-License-Identifier: MPL-2.0

package reduce

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/packrgo/packr/pkg/platform"
	"github.com/packrgo/packr/pkg/types"
)

// Default layout names, relative to the output root (RuntimeDir) or to the
// runtime directory (everything else).
const (
	DefaultRuntimeDir       = "jre"
	DefaultMainArchive      = "lib/rt.jar"
	DefaultScriptingArchive = "lib/rhino.jar"
	DefaultBinDir           = "bin"
	DefaultClientDir        = "bin/client"
	DefaultScratchSuffix    = ".tmp"
)

type (
	// Options is the immutable input of a reduction pass.
	Options struct {
		// MinimizationProfile is a local file path or a bundled profile name.
		// Empty disables runtime minimization entirely.
		MinimizationProfile string
		// Platform selects the executable rule and the foreign library set.
		Platform platform.Platform
		// Classpath lists the application archives. Only their base names are
		// used: each is expected directly under the output root.
		Classpath []string
		// Verbose promotes step-by-step progress from debug to info level.
		Verbose bool
		// StrictProfile turns failed profile entries into an error returned
		// once minimization has otherwise completed.
		StrictProfile bool
		// Layout overrides the conventional runtime layout. Zero fields take
		// their defaults.
		Layout Layout
	}

	// Layout names the parts of the runtime inside the output tree.
	Layout struct {
		RuntimeDir       string
		MainArchive      string
		ScriptingArchive string
		BinDir           string
		ClientDir        string
		// ScratchSuffix is appended to a classpath archive name to form its
		// unpack directory.
		ScratchSuffix string
	}
)

// DefaultLayout returns the conventional runtime layout.
func DefaultLayout() Layout {
	return Layout{
		RuntimeDir:       DefaultRuntimeDir,
		MainArchive:      DefaultMainArchive,
		ScriptingArchive: DefaultScriptingArchive,
		BinDir:           DefaultBinDir,
		ClientDir:        DefaultClientDir,
		ScratchSuffix:    DefaultScratchSuffix,
	}
}

// WithDefaults returns a copy of l with every blank field replaced by its default.
func (l Layout) WithDefaults() Layout {
	d := DefaultLayout()
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&l.RuntimeDir, d.RuntimeDir)
	fill(&l.MainArchive, d.MainArchive)
	fill(&l.ScriptingArchive, d.ScriptingArchive)
	fill(&l.BinDir, d.BinDir)
	fill(&l.ClientDir, d.ClientDir)
	fill(&l.ScratchSuffix, d.ScratchSuffix)
	return l
}

// Validate checks every layout path and the scratch suffix.
func (l Layout) Validate() error {
	var errs []error
	for _, p := range []string{l.RuntimeDir, l.MainArchive, l.ScriptingArchive, l.BinDir, l.ClientDir} {
		if err := types.RelativePath(p).Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if strings.ContainsAny(l.ScratchSuffix, `/\`) {
		errs = append(errs, fmt.Errorf("scratch suffix %q must not contain a path separator", l.ScratchSuffix))
	}
	return errors.Join(errs...)
}

// runtimeDir returns the runtime directory under root.
func (l Layout) runtimeDir(root string) string {
	return filepath.Join(root, filepath.FromSlash(l.RuntimeDir))
}

// runtimePath returns a runtime-relative layout path under root.
func (l Layout) runtimePath(root, rel string) string {
	return filepath.Join(l.runtimeDir(root), filepath.FromSlash(rel))
}

// mainScratch returns the unpack directory of the main archive: the archive
// path with its extension stripped (lib/rt.jar unpacks into lib/rt).
func (l Layout) mainScratch(root string) string {
	archive := l.runtimePath(root, l.MainArchive)
	return strings.TrimSuffix(archive, filepath.Ext(archive))
}

// Validate checks the options and returns an error wrapping ErrInvalidOptions
// describing every problem found.
func (o Options) Validate() error {
	var errs []error
	if valid, platformErrs := o.Platform.IsValid(); !valid {
		errs = append(errs, platformErrs...)
	}
	if err := o.Layout.WithDefaults().Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, entry := range o.Classpath {
		if classpathName(entry) == "" {
			errs = append(errs, fmt.Errorf("classpath entry %q has no file name", entry))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, errors.Join(errs...))
	}
	return nil
}

// Minimizes reports whether runtime minimization is enabled.
func (o Options) Minimizes() bool {
	return o.MinimizationProfile != ""
}

// classpathName returns the base name of a classpath entry, accepting either
// separator regardless of the host.
func classpathName(entry string) string {
	entry = strings.TrimRight(strings.ReplaceAll(strings.TrimSpace(entry), `\`, "/"), "/")
	if i := strings.LastIndex(entry, "/"); i >= 0 {
		entry = entry[i+1:]
	}
	if entry == "." || entry == ".." {
		return ""
	}
	return entry
}
