// SPDX-License-Identifier: MPL-2.0

package reduce

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"slices"
	"strings"
)

// bundledDir is the directory inside the bundled file system that holds the
// profiles.
const bundledDir = "minimize"

//go:embed minimize
var bundledProfiles embed.FS

var lineBreak = regexp.MustCompile(`\r?\n`)

// ProfileLoader resolves a minimization profile identifier into the ordered
// list of paths it names.
type ProfileLoader struct {
	bundled fs.FS
}

// NewProfileLoader returns a loader backed by the profiles compiled into the
// binary.
func NewProfileLoader() *ProfileLoader {
	return &ProfileLoader{bundled: bundledProfiles}
}

// NewProfileLoaderFS returns a loader whose bundled profiles live under
// "minimize/" in fsys.
func NewProfileLoaderFS(fsys fs.FS) *ProfileLoader {
	return &ProfileLoader{bundled: fsys}
}

// Load resolves identifier in order: an existing local file, then a bundled
// profile of that name, then nothing. An unknown identifier yields an empty
// list and no error. Lines are split on LF or CRLF and trimmed; blank lines
// in the middle of a profile are kept as empty entries.
func (l *ProfileLoader) Load(identifier string) ([]string, error) {
	if identifier == "" {
		return nil, nil
	}

	if info, err := os.Stat(identifier); err == nil && info.Mode().IsRegular() {
		data, err := os.ReadFile(identifier)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrProfile, identifier, err)
		}
		return splitProfile(string(data)), nil
	}

	if !fs.ValidPath(identifier) {
		return []string{}, nil
	}
	data, err := fs.ReadFile(l.bundled, path.Join(bundledDir, identifier))
	if err != nil {
		// Missing and unreadable bundled entries (a directory, say) both
		// resolve to an empty profile.
		return []string{}, nil
	}
	return splitProfile(string(data)), nil
}

// Bundled returns the names of the bundled profiles, sorted.
func (l *ProfileLoader) Bundled() []string {
	entries, err := fs.ReadDir(l.bundled, bundledDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names
}

// splitProfile splits profile text into trimmed lines. Trailing empty lines
// are dropped so a final newline does not produce an empty entry.
func splitProfile(text string) []string {
	lines := lineBreak.Split(text, -1)
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
