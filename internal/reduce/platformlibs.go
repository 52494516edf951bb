// SPDX-License-Identifier: MPL-2.0

package reduce

import (
	"path/filepath"

	"github.com/packrgo/packr/pkg/fspath"
	"github.com/packrgo/packr/pkg/ziparchive"
)

// FilterPlatformLibraries removes shared libraries built for other platforms
// from every classpath archive. Each archive is looked up by its base name
// directly under outputRoot, unpacked into a sibling scratch directory,
// pruned, and repacked in place. The first failing archive stops the run;
// results for the archives completed before it are still returned.
func (r *Reducer) FilterPlatformLibraries(outputRoot string, opts Options) ([]ArchiveResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return r.newPass(opts).filterPlatformLibraries(outputRoot)
}

func (p *pass) filterPlatformLibraries(root string) ([]ArchiveResult, error) {
	if len(p.opts.Classpath) == 0 {
		return nil, nil
	}

	p.log.Info("removing foreign platform libraries", "platform", p.opts.Platform)

	results := make([]ArchiveResult, 0, len(p.opts.Classpath))
	for _, entry := range p.opts.Classpath {
		res, err := p.filterArchive(root, entry)
		if err != nil {
			return results, failure("filter classpath archive", entry, ErrFilterArchive, err,
				"Check that every classpath archive was copied into the output directory")
		}
		results = append(results, *res)
	}
	return results, nil
}

func (p *pass) filterArchive(root, entry string) (*ArchiveResult, error) {
	name := classpathName(entry)
	archive := filepath.Join(root, name)
	scratch := filepath.Join(root, name+p.opts.Layout.ScratchSuffix)

	if _, err := checkScratch(scratch); err != nil {
		return nil, err
	}

	p.step("unpacking classpath archive", "archive", entry)
	if err := ziparchive.Unpack(archive, scratch); err != nil {
		_ = fspath.Remove(scratch)
		return nil, unpackFailure(archive, err)
	}

	removed, err := p.removeForeignLibraries(scratch)
	if err != nil {
		_ = fspath.Remove(scratch)
		return nil, err
	}

	p.step("repacking classpath archive", "archive", entry)
	res, err := p.repack(archive, scratch)
	if err != nil {
		return nil, err
	}
	res.Removed = removed
	return res, nil
}

// removeForeignLibraries deletes every file under dir whose name ends in one
// of the target's foreign library extensions and returns their paths
// relative to dir.
func (p *pass) removeForeignLibraries(dir string) ([]string, error) {
	files, err := fspath.Files(dir)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, file := range files {
		if !p.opts.Platform.IsForeignLibrary(filepath.Base(file)) {
			continue
		}
		rel := fspath.Rel(dir, file)
		p.step("removing library", "path", rel)
		if err := fspath.Remove(file); err != nil {
			return removed, err
		}
		removed = append(removed, rel)
	}
	return removed, nil
}
