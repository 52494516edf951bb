// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidRelativePath is the sentinel error wrapped by InvalidRelativePathError.
var ErrInvalidRelativePath = errors.New("invalid relative path")

type (
	// RelativePath is a slash- or OS-separated path that is resolved against a
	// root directory. A valid path is non-blank, not absolute, and does not
	// climb out of its root.
	RelativePath string

	// InvalidRelativePathError is returned when a RelativePath is blank,
	// absolute, or escapes its root.
	InvalidRelativePathError struct {
		Value  RelativePath
		Reason string
	}
)

// String returns the string representation of the RelativePath.
func (p RelativePath) String() string { return string(p) }

// IsBlank reports whether the path is empty or whitespace-only.
func (p RelativePath) IsBlank() bool { return strings.TrimSpace(string(p)) == "" }

// Validate returns an error if the path cannot be safely resolved under a root.
func (p RelativePath) Validate() error {
	if p.IsBlank() {
		return &InvalidRelativePathError{Value: p, Reason: "must be non-empty"}
	}
	native := filepath.FromSlash(strings.ReplaceAll(string(p), `\`, "/"))
	if filepath.IsAbs(native) || strings.HasPrefix(native, string(filepath.Separator)) || filepath.VolumeName(native) != "" {
		return &InvalidRelativePathError{Value: p, Reason: "must not be absolute"}
	}
	if !filepath.IsLocal(native) {
		return &InvalidRelativePathError{Value: p, Reason: "must stay within its root"}
	}
	return nil
}

// Resolve joins the path onto root after validating it.
func (p RelativePath) Resolve(root string) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	native := filepath.FromSlash(strings.ReplaceAll(string(p), `\`, "/"))
	return filepath.Join(root, native), nil
}

// Error implements the error interface for InvalidRelativePathError.
func (e *InvalidRelativePathError) Error() string {
	return fmt.Sprintf("invalid relative path %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidRelativePath for errors.Is() compatibility.
func (e *InvalidRelativePathError) Unwrap() error { return ErrInvalidRelativePath }
