// SPDX-License-Identifier: MPL-2.0

package reduce

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/packrgo/packr/pkg/fspath"
	"github.com/packrgo/packr/pkg/ziparchive"
)

// Repack rebuilds the archive at archivePath from scratchDir. When scratchDir
// does not exist the archive is unpacked into it first, so a bare repack
// normalizes an archive without changing its members. Any pruning must happen
// in scratchDir before the call. The scratch directory is removed on every
// return once the repack has taken it over.
func (r *Reducer) Repack(archivePath, scratchDir string, opts Options) (*ArchiveResult, error) {
	return r.newPass(opts).repack(archivePath, scratchDir)
}

func (p *pass) repack(archivePath, scratchDir string) (res *ArchiveResult, err error) {
	name := filepath.Base(archivePath)
	p.log.Info("reducing archive", "archive", name)

	scratchExists, err := checkScratch(scratchDir)
	if err != nil {
		return nil, err
	}

	defer func() {
		if rmErr := fspath.Remove(scratchDir); rmErr != nil && err == nil {
			res, err = nil, failure("remove scratch directory", scratchDir, ErrRepack, rmErr)
		}
	}()

	if !scratchExists {
		p.step("unpacking archive first", "archive", name)
		if err := ziparchive.Unpack(archivePath, scratchDir); err != nil {
			return nil, unpackFailure(archivePath, err)
		}
	}

	before, err := fspath.Size(archivePath)
	if err != nil {
		return nil, failure("repack archive", archivePath, ErrRepack, err)
	}
	if err := fspath.Remove(archivePath); err != nil {
		return nil, failure("repack archive", archivePath, ErrRepack, err,
			"Check that the archive is not open in another process")
	}

	p.step("repacking archive", "archive", name)
	if err := ziparchive.Pack(scratchDir, archivePath); err != nil {
		return nil, failure("repack archive", archivePath, ErrRepack, err,
			"Make sure the output directory is writable and has free space",
			"Rebuild the output directory before shipping it")
	}

	after, err := fspath.Size(archivePath)
	if err != nil {
		return nil, failure("repack archive", archivePath, ErrRepack, err)
	}
	p.step("archive size", "archive", name, "before", kib(before), "after", kib(after))

	return &ArchiveResult{Path: archivePath, SizeBefore: before, SizeAfter: after}, nil
}

// checkScratch reports whether scratchDir exists, failing when something
// other than a directory occupies the path.
func checkScratch(scratchDir string) (bool, error) {
	info, err := os.Stat(scratchDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, failure("inspect scratch directory", scratchDir, ErrRepack, err)
	case !info.IsDir():
		return true, failure("repack archive", scratchDir, ErrRepack, &ScratchNotDirectoryError{Path: scratchDir},
			"Remove or rename the file at this path and run again")
	}
	return true, nil
}

func unpackFailure(archivePath string, err error) error {
	return failure("unpack archive", archivePath, ErrUnpack, err,
		"Check that the file is a valid zip or jar archive",
		"Re-run the step that produced the output directory")
}
