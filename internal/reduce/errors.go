// SPDX-License-Identifier: MPL-2.0

package reduce

import (
	"errors"
	"fmt"

	"github.com/packrgo/packr/internal/issue"
)

var (
	// ErrInvalidOptions is returned when Options fail validation.
	ErrInvalidOptions = errors.New("invalid reduce options")
	// ErrUnpack is returned when an archive cannot be unpacked.
	ErrUnpack = errors.New("unpack failed")
	// ErrRepack is returned when an archive cannot be rebuilt from its scratch directory.
	ErrRepack = errors.New("repack failed")
	// ErrScratchNotDirectory is the sentinel wrapped by ScratchNotDirectoryError.
	ErrScratchNotDirectory = errors.New("scratch path is not a directory")
	// ErrRemoveExecutables is returned when the runtime bin directory cannot be pruned.
	ErrRemoveExecutables = errors.New("removing runtime executables failed")
	// ErrRemoveScriptingArchive is returned when the scripting engine archive cannot be deleted.
	ErrRemoveScriptingArchive = errors.New("removing scripting archive failed")
	// ErrProfile is returned when a minimization profile cannot be read.
	ErrProfile = errors.New("reading minimization profile failed")
	// ErrProfileEntries is returned in strict mode when one or more profile
	// entries could not be deleted.
	ErrProfileEntries = errors.New("minimization profile entries failed")
	// ErrFilterArchive is returned when a classpath archive cannot be filtered.
	ErrFilterArchive = errors.New("filtering classpath archive failed")
)

// ScratchNotDirectoryError is returned when the scratch path of a repack
// exists but is not a directory.
type ScratchNotDirectoryError struct {
	Path string
}

// Error implements the error interface.
func (e *ScratchNotDirectoryError) Error() string {
	return fmt.Sprintf("expecting directory, but file found: %s", e.Path)
}

// Unwrap returns ErrScratchNotDirectory for errors.Is() compatibility.
func (e *ScratchNotDirectoryError) Unwrap() error { return ErrScratchNotDirectory }

// failure wraps cause with sentinel and attaches operation context and
// remediation hints for the CLI.
func failure(operation, resource string, sentinel, cause error, suggestions ...string) error {
	return issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithSuggestions(suggestions...).
		Wrap(fmt.Errorf("%w: %w", sentinel, cause)).
		BuildError()
}
