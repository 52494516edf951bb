// SPDX-License-Identifier: MPL-2.0

package reduce

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/packrgo/packr/pkg/fspath"
	"github.com/packrgo/packr/pkg/platform"
	"github.com/packrgo/packr/pkg/ziparchive"
)

type (
	// Plan lists what a pass would remove, computed without modifying the
	// output tree. Paths are slash-separated and relative to the output root,
	// except archive members, which are relative to their archive.
	Plan struct {
		Platform platform.Platform
		Minimize bool
		Profile  string
		// Executables holds the runtime paths the executable rule removes.
		Executables []string
		Entries     []PlannedEntry
		// ScriptingArchive is set when the scripting archive is present.
		ScriptingArchive string
		Archives         []PlannedArchive
	}

	// PlannedEntry is one non-blank profile entry.
	PlannedEntry struct {
		Path   string
		Exists bool
		// Invalid is set when the entry cannot be resolved under the root.
		Invalid string
	}

	// PlannedArchive lists the foreign libraries inside one classpath archive.
	PlannedArchive struct {
		Path    string
		Foreign []string
	}
)

// Plan computes the removals of a Run over outputRoot without performing
// them. Archives are read but never unpacked.
func (r *Reducer) Plan(outputRoot string, opts Options) (*Plan, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := r.newPass(opts)
	layout := p.opts.Layout
	plan := &Plan{Platform: opts.Platform, Minimize: opts.Minimizes(), Profile: opts.MinimizationProfile}

	if plan.Minimize {
		executables, err := p.plannedExecutables(outputRoot)
		if err != nil {
			return nil, failure("plan runtime executables", layout.runtimePath(outputRoot, layout.BinDir), ErrRemoveExecutables, err)
		}
		plan.Executables = executables

		entries, err := p.profiles.Load(opts.MinimizationProfile)
		if err != nil {
			return nil, failure("load minimization profile", opts.MinimizationProfile, ErrProfile, err)
		}
		for _, entry := range entries {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			planned := PlannedEntry{Path: entry}
			if target, err := profileEntry(entry).Resolve(outputRoot); err != nil {
				planned.Invalid = err.Error()
			} else {
				planned.Exists = fspath.Exists(target)
			}
			plan.Entries = append(plan.Entries, planned)
		}

		if scripting := layout.runtimePath(outputRoot, layout.ScriptingArchive); fspath.Exists(scripting) {
			plan.ScriptingArchive = fspath.Rel(outputRoot, scripting)
		}
	}

	for _, entry := range opts.Classpath {
		name := classpathName(entry)
		members, err := ziparchive.Members(filepath.Join(outputRoot, name))
		if err != nil {
			return nil, failure("plan classpath archive", entry, ErrFilterArchive, err)
		}
		archive := PlannedArchive{Path: name}
		for _, m := range members {
			if opts.Platform.IsForeignLibrary(path.Base(m)) {
				archive.Foreign = append(archive.Foreign, m)
			}
		}
		plan.Archives = append(plan.Archives, archive)
	}

	return plan, nil
}

func (p *pass) plannedExecutables(root string) ([]string, error) {
	layout := p.opts.Layout
	binDir := layout.runtimePath(root, layout.BinDir)

	if !p.opts.Platform.IsWindows() {
		if fspath.Exists(binDir) {
			return []string{fspath.Rel(root, binDir)}, nil
		}
		return nil, nil
	}

	var planned []string
	if client := layout.runtimePath(root, layout.ClientDir); fspath.Exists(client) {
		planned = append(planned, fspath.Rel(root, client))
	}
	files, err := os.ReadDir(binDir)
	if errors.Is(err, fs.ErrNotExist) {
		return planned, nil
	}
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if !f.IsDir() && p.opts.Platform.IsExecutable(f.Name()) {
			planned = append(planned, fspath.Rel(root, filepath.Join(binDir, f.Name())))
		}
	}
	return planned, nil
}
