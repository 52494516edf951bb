// SPDX-License-Identifier: MPL-2.0

package reduce

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/packrgo/packr/pkg/fspath"
	"github.com/packrgo/packr/pkg/types"
	"github.com/packrgo/packr/pkg/ziparchive"
)

// Minimize strips the bundled runtime under outputRoot. With no minimization
// profile configured it returns a skipped result without touching the tree.
//
// The steps run in a fixed order: unpack the main archive, remove runtime
// executables, delete the profile entries, delete the scripting archive, and
// repack the main archive. Failing profile entries are recorded and logged
// but do not stop the pass; in strict mode they are returned as an error
// wrapping ErrProfileEntries after the repack, alongside the result.
func (r *Reducer) Minimize(outputRoot string, opts Options) (*MinimizeResult, error) {
	if !opts.Minimizes() {
		return &MinimizeResult{Skipped: true}, nil
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return r.newPass(opts).minimize(outputRoot)
}

func (p *pass) minimize(root string) (result *MinimizeResult, err error) {
	layout := p.opts.Layout
	profile := p.opts.MinimizationProfile
	archive := layout.runtimePath(root, layout.MainArchive)
	scratch := layout.mainScratch(root)

	p.log.Info("minimizing runtime", "profile", profile)

	if _, err := checkScratch(scratch); err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = fspath.Remove(scratch)
		}
	}()

	p.step("unpacking runtime archive", "archive", filepath.Base(archive))
	if err := ziparchive.Unpack(archive, scratch); err != nil {
		return nil, unpackFailure(archive, err)
	}

	p.step("removing executables", "platform", p.opts.Platform)
	if err := p.removeExecutables(root); err != nil {
		return nil, failure("remove runtime executables", layout.runtimePath(root, layout.BinDir), ErrRemoveExecutables, err,
			"Check that no process is running from the output runtime")
	}

	entries, err := p.profiles.Load(profile)
	if err != nil {
		return nil, failure("load minimization profile", profile, ErrProfile, err)
	}
	result = &MinimizeResult{Profile: profile}
	if len(entries) > 0 {
		p.step("removing profile entries", "profile", profile)
	}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		res := EntryResult{Path: entry, Err: removeEntry(root, entry)}
		if res.Err != nil {
			p.log.Warn("failed to delete profile entry", "path", entry, "err", res.Err)
		}
		result.Entries = append(result.Entries, res)
	}

	scripting := layout.runtimePath(root, layout.ScriptingArchive)
	if fspath.Exists(scripting) {
		p.step("removing scripting archive", "archive", filepath.Base(scripting))
		if err := fspath.Remove(scripting); err != nil {
			return nil, failure("remove scripting archive", scripting, ErrRemoveScriptingArchive, err)
		}
	}

	result.Archive, err = p.repack(archive, scratch)
	if err != nil {
		return nil, err
	}

	if failed := result.Failed(); p.opts.StrictProfile && len(failed) > 0 {
		return result, failure("apply minimization profile", profile, ErrProfileEntries, joinEntries(failed),
			"Fix or remove the failing entries, or disable strict profile mode")
	}
	return result, nil
}

// removeExecutables prunes the runtime bin directory. Windows targets keep
// the directory and drop only the client VM and the executables; every other
// target drops the directory entirely.
func (p *pass) removeExecutables(root string) error {
	layout := p.opts.Layout
	binDir := layout.runtimePath(root, layout.BinDir)

	if !p.opts.Platform.IsWindows() {
		return fspath.Remove(binDir)
	}

	if err := fspath.Remove(layout.runtimePath(root, layout.ClientDir)); err != nil {
		return err
	}
	files, err := os.ReadDir(binDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("listing %s: %w", binDir, err)
	}
	for _, f := range files {
		if f.IsDir() || !p.opts.Platform.IsExecutable(f.Name()) {
			continue
		}
		if err := fspath.Remove(filepath.Join(binDir, f.Name())); err != nil {
			return err
		}
	}
	return nil
}

// profileEntry maps a profile line to a path under the output root. A leading
// separator roots the entry at the output root, not the filesystem root.
func profileEntry(entry string) types.RelativePath {
	return types.RelativePath(strings.TrimLeft(entry, `/\`))
}

// removeEntry deletes one profile entry relative to root. Entries that would
// resolve outside root are rejected.
func removeEntry(root, entry string) error {
	target, err := profileEntry(entry).Resolve(root)
	if err != nil {
		return err
	}
	return fspath.Remove(target)
}

func joinEntries(failed []EntryResult) error {
	errs := make([]error, 0, len(failed))
	for _, f := range failed {
		errs = append(errs, fmt.Errorf("%s: %w", f.Path, f.Err))
	}
	return errors.Join(errs...)
}
