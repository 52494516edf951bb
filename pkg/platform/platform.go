// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// Windows32 targets 32-bit Windows.
	Windows32 Platform = "windows32"
	// Windows64 targets 64-bit Windows.
	Windows64 Platform = "windows64"
	// Linux32 targets 32-bit Linux.
	Linux32 Platform = "linux32"
	// Linux64 targets 64-bit Linux.
	Linux64 Platform = "linux64"
	// MacOS targets macOS.
	MacOS Platform = "macos"

	libraryDLL   = ".dll"
	librarySO    = ".so"
	libraryDylib = ".dylib"
)

// ErrInvalidPlatform is the sentinel error wrapped by InvalidPlatformError.
var ErrInvalidPlatform = errors.New("invalid platform")

type (
	// Platform identifies a packaging target.
	Platform string

	// InvalidPlatformError is returned when a Platform value is not recognized.
	// It wraps ErrInvalidPlatform for errors.Is() compatibility.
	InvalidPlatformError struct {
		Value Platform
	}

	// libraryRow holds the shared-library facts of one target.
	libraryRow struct {
		native      string
		foreign     []string
		executables []string
	}
)

// libraryTable is the single source of per-target library knowledge.
// Foreign extensions never include the row's native extension.
var libraryTable = map[Platform]libraryRow{
	Windows32: {native: libraryDLL, foreign: []string{libraryDylib, librarySO}, executables: []string{".exe"}},
	Windows64: {native: libraryDLL, foreign: []string{libraryDylib, librarySO}, executables: []string{".exe"}},
	Linux32:   {native: librarySO, foreign: []string{libraryDylib, libraryDLL}},
	Linux64:   {native: librarySO, foreign: []string{libraryDylib, libraryDLL}},
	MacOS:     {native: libraryDylib, foreign: []string{libraryDLL, librarySO}},
}

// All returns every known target in a stable order.
func All() []Platform {
	return []Platform{Windows32, Windows64, Linux32, Linux64, MacOS}
}

// Parse converts a user-supplied name into a Platform. Matching is
// case-insensitive, so "Windows64" and "windows64" are equivalent.
func Parse(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if valid, errs := p.IsValid(); !valid {
		return "", errs[0]
	}
	return p, nil
}

// String returns the string representation of the Platform.
func (p Platform) String() string { return string(p) }

// IsValid returns whether the Platform is one of the known targets.
func (p Platform) IsValid() (bool, []error) {
	if _, ok := libraryTable[p]; !ok {
		return false, []error{&InvalidPlatformError{Value: p}}
	}
	return true, nil
}

// IsWindows reports whether the target is a Windows flavor.
func (p Platform) IsWindows() bool {
	return p == Windows32 || p == Windows64
}

// NativeLibraryExtension returns the shared-library extension loaded by the
// target itself, or "" for unknown targets.
func (p Platform) NativeLibraryExtension() string {
	return libraryTable[p].native
}

// ForeignLibraryExtensions returns the shared-library extensions that belong
// to targets other than p. The returned slice is a copy.
func (p Platform) ForeignLibraryExtensions() []string {
	return slices.Clone(libraryTable[p].foreign)
}

// ExecutableExtensions returns the file extensions of native executables on
// the target. Targets whose executables carry no extension return nil.
func (p Platform) ExecutableExtensions() []string {
	return slices.Clone(libraryTable[p].executables)
}

// IsForeignLibrary reports whether name ends with one of the target's foreign
// library extensions.
func (p Platform) IsForeignLibrary(name string) bool {
	for _, ext := range libraryTable[p].foreign {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// IsExecutable reports whether name carries one of the target's executable
// extensions. The comparison ignores case, matching Windows file semantics.
func (p Platform) IsExecutable(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range libraryTable[p].executables {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Error implements the error interface for InvalidPlatformError.
func (e *InvalidPlatformError) Error() string {
	names := make([]string, 0, len(libraryTable))
	for _, p := range All() {
		names = append(names, string(p))
	}
	return fmt.Sprintf("invalid platform %q (valid: %s)", e.Value, strings.Join(names, ", "))
}

// Unwrap returns ErrInvalidPlatform for errors.Is() compatibility.
func (e *InvalidPlatformError) Unwrap() error { return ErrInvalidPlatform }
