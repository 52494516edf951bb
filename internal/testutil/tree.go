// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// dirMarker is the Snapshot value recorded for directories.
const dirMarker = "<dir>"

// WriteTree creates files under root from a map of slash-separated relative
// paths to contents. A key ending in "/" creates an empty directory.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			MustMkdirAll(t, path)
			continue
		}
		MustWriteFile(t, path, content)
	}
}

// WriteArchive writes a zip archive at path holding the given members.
// Parent directories of path are created first.
func WriteArchive(t testing.TB, path string, members map[string]string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path))

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create archive %s: %v", path, err)
	}
	zw := zip.NewWriter(f)
	for name, content := range members {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s to %s: %v", name, path, err)
		}
		if _, err := io.WriteString(w, content); err != nil {
			t.Fatalf("failed to write %s to %s: %v", name, path, err)
		}
	}
	MustClose(t, zw)
	MustClose(t, f)
}

// ArchiveContents reads every file member of the archive at path into a map
// of member name to content. Directory entries are skipped.
func ArchiveContents(t testing.TB, path string) map[string]string {
	t.Helper()

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("failed to open archive %s: %v", path, err)
	}
	defer MustClose(t, zr)

	contents := make(map[string]string, len(zr.File))
	for _, file := range zr.File {
		if file.FileInfo().IsDir() {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("failed to open member %s: %v", file.Name, err)
		}
		data, err := io.ReadAll(rc)
		MustClose(t, rc)
		if err != nil {
			t.Fatalf("failed to read member %s: %v", file.Name, err)
		}
		contents[file.Name] = string(data)
	}
	return contents
}

// Snapshot records every entry under root as slash-separated relative path to
// content. Directories map to a fixed marker so empty directories count too.
func Snapshot(t testing.TB, root string) map[string]string {
	t.Helper()

	snap := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			snap[filepath.ToSlash(rel)] = dirMarker
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		snap[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to snapshot %s: %v", root, err)
	}
	return snap
}
