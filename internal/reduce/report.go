// SPDX-License-Identifier: MPL-2.0

package reduce

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/packrgo/packr/pkg/fspath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
)

// Report formats.
const (
	ReportTOML ReportFormat = "toml"
	ReportYAML ReportFormat = "yaml"
)

// Archive kinds recorded in a report.
const (
	ArchiveKindRuntime   = "runtime"
	ArchiveKindClasspath = "classpath"
)

// ErrUnknownReportFormat is returned for report paths with an unsupported extension.
var ErrUnknownReportFormat = errors.New("unknown report format")

type (
	// ReportFormat selects the serialization of a Report.
	ReportFormat string

	// Report summarizes a reduction pass for humans and for build tooling.
	// Paths are slash-separated and relative to the output root.
	Report struct {
		OutputRoot      string          `toml:"output_root" yaml:"output_root"`
		Platform        string          `toml:"platform" yaml:"platform"`
		Profile         string          `toml:"profile,omitempty" yaml:"profile,omitempty"`
		MinimizeSkipped bool            `toml:"minimize_skipped" yaml:"minimize_skipped"`
		Entries         []EntryReport   `toml:"entries,omitempty" yaml:"entries,omitempty"`
		Archives        []ArchiveReport `toml:"archives,omitempty" yaml:"archives,omitempty"`
	}

	// EntryReport is the serialized form of an EntryResult.
	EntryReport struct {
		Path  string `toml:"path" yaml:"path"`
		Error string `toml:"error,omitempty" yaml:"error,omitempty"`
	}

	// ArchiveReport is the serialized form of an ArchiveResult.
	ArchiveReport struct {
		Path       string   `toml:"path" yaml:"path"`
		Kind       string   `toml:"kind" yaml:"kind"`
		SizeBefore int64    `toml:"size_before" yaml:"size_before"`
		SizeAfter  int64    `toml:"size_after" yaml:"size_after"`
		Removed    []string `toml:"removed,omitempty" yaml:"removed,omitempty"`
	}
)

// NewReport starts an empty report for a pass over outputRoot.
func NewReport(outputRoot string, opts Options) *Report {
	return &Report{
		OutputRoot:      filepath.ToSlash(outputRoot),
		Platform:        opts.Platform.String(),
		Profile:         opts.MinimizationProfile,
		MinimizeSkipped: !opts.Minimizes(),
	}
}

// FormatFromPath picks the report format from a file extension:
// .toml, .yaml or .yml.
func FormatFromPath(path string) (ReportFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ReportTOML, nil
	case ".yaml", ".yml":
		return ReportYAML, nil
	default:
		return "", fmt.Errorf("%w: %q (use .toml, .yaml or .yml)", ErrUnknownReportFormat, path)
	}
}

// Saved returns the total number of bytes saved across all archives.
func (r *Report) Saved() int64 {
	var saved int64
	for _, a := range r.Archives {
		saved += a.SizeBefore - a.SizeAfter
	}
	return saved
}

// FailedEntries returns the number of profile entries that could not be deleted.
func (r *Report) FailedEntries() int {
	n := 0
	for _, e := range r.Entries {
		if e.Error != "" {
			n++
		}
	}
	return n
}

// Encode writes the report to w in the given format.
func (r *Report) Encode(w io.Writer, format ReportFormat) error {
	switch format {
	case ReportTOML:
		return toml.NewEncoder(w).Encode(r)
	case ReportYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownReportFormat, format)
	}
}

// WriteFile writes the report to path in the format implied by its extension.
func (r *Report) WriteFile(path string) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := r.Encode(f, format); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

func (r *Report) addMinimize(res *MinimizeResult) {
	if res == nil || res.Skipped {
		return
	}
	for _, e := range res.Entries {
		entry := EntryReport{Path: e.Path}
		if e.Err != nil {
			entry.Error = e.Err.Error()
		}
		r.Entries = append(r.Entries, entry)
	}
	if res.Archive != nil {
		r.Archives = append(r.Archives, r.archiveReport(*res.Archive, ArchiveKindRuntime))
	}
}

func (r *Report) addFiltered(results []ArchiveResult) {
	for _, res := range results {
		r.Archives = append(r.Archives, r.archiveReport(res, ArchiveKindClasspath))
	}
}

func (r *Report) archiveReport(res ArchiveResult, kind string) ArchiveReport {
	return ArchiveReport{
		Path:       fspath.Rel(filepath.FromSlash(r.OutputRoot), res.Path),
		Kind:       kind,
		SizeBefore: res.SizeBefore,
		SizeAfter:  res.SizeAfter,
		Removed:    res.Removed,
	}
}

// kib renders a byte count in whole kibibytes.
func kib(n int64) string {
	return fmt.Sprintf("%d kb", n/1024)
}
