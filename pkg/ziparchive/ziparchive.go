// SPDX-License-Identifier: MPL-2.0

package ziparchive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafeMember is returned when an archive member would be extracted
// outside the destination directory.
var ErrUnsafeMember = errors.New("archive member escapes destination")

// Unpack extracts every member of the archive at archivePath into destDir,
// creating destDir and any intermediate directories as needed.
func Unpack(archivePath, destDir string) (err error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer func() {
		if closeErr := zr.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", destDir, err)
	}

	for _, file := range zr.File {
		destPath, err := memberPath(destDir, file.Name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0o755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return fmt.Errorf("failed to create parent directory: %w", err)
		}

		if err := extractFile(file, destPath); err != nil {
			return fmt.Errorf("failed to extract %s: %w", file.Name, err)
		}
	}

	return nil
}

// Pack writes the contents of srcDir into a new archive at archivePath.
// Members are named relative to srcDir with forward slashes; srcDir itself is
// not part of the member names. An existing file at archivePath is replaced.
func Pack(srcDir, archivePath string) (err error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		return fmt.Errorf("failed to read source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %s is not a directory", srcDir)
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", archivePath, err)
	}

	zw := zip.NewWriter(out)
	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		if relPath == "." {
			return nil
		}
		name := filepath.ToSlash(relPath)

		if d.IsDir() {
			if _, err := zw.Create(name + "/"); err != nil {
				return fmt.Errorf("failed to create directory entry: %w", err)
			}
			return nil
		}

		return addFile(zw, path, name, d)
	})

	closeErr := zw.Close()
	fileCloseErr := out.Close()
	if err := errors.Join(walkErr, closeErr, fileCloseErr); err != nil {
		_ = os.Remove(archivePath)
		return fmt.Errorf("failed to pack %s: %w", srcDir, err)
	}

	return nil
}

// Members lists the names of the file members of an archive, skipping
// directory entries, in archive order.
func Members(archivePath string) ([]string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, file := range zr.File {
		if file.FileInfo().IsDir() {
			continue
		}
		names = append(names, file.Name)
	}
	return names, nil
}

// memberPath resolves an archive member name under destDir, rejecting names
// that would land outside it.
func memberPath(destDir, name string) (string, error) {
	destPath := filepath.Join(destDir, filepath.FromSlash(name))
	relPath, err := filepath.Rel(destDir, destPath)
	if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeMember, name)
	}
	return destPath, nil
}

// addFile streams a single file into the archive under name.
func addFile(zw *zip.Writer, path, name string, d fs.DirEntry) error {
	fileInfo, err := d.Info()
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}

	header, err := zip.FileInfoHeader(fileInfo)
	if err != nil {
		return fmt.Errorf("failed to create file header: %w", err)
	}
	header.Name = name
	header.Method = zip.Deflate

	writer, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create archive entry: %w", err)
	}

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	defer src.Close()

	if _, err := io.Copy(writer, src); err != nil {
		return fmt.Errorf("failed to write file data: %w", err)
	}
	return nil
}

// extractFile extracts a single file from the archive.
func extractFile(file *zip.File, destPath string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, rc); err != nil {
		destFile.Close()
		return err
	}
	return destFile.Close()
}
