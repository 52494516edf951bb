// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/packrgo/packr/internal/config"
	"github.com/packrgo/packr/internal/issue"
	"github.com/packrgo/packr/internal/reduce"
	"github.com/packrgo/packr/pkg/platform"
	"github.com/packrgo/packr/pkg/types"
)

// ExitError carries the process exit code of a failed command so RunE
// handlers never call os.Exit themselves.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// classifyError maps a reduction failure to its issue catalog entry and the
// exit code it ends the process with. A zero Id means no catalog entry fits.
// Causes are checked before the stage that reported them.
func classifyError(err error) (issue.Id, types.ExitCode) {
	switch {
	case errors.Is(err, reduce.ErrProfileEntries):
		return issue.ProfileEntriesFailedId, types.ExitPartial
	case errors.Is(err, reduce.ErrScratchNotDirectory):
		return issue.ScratchNotDirectoryId, types.ExitFailure
	case errors.Is(err, os.ErrPermission):
		return issue.PermissionDeniedId, types.ExitFailure
	case errors.Is(err, platform.ErrInvalidPlatform):
		return issue.InvalidPlatformId, types.ExitFailure
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId, types.ExitFailure
	case errors.Is(err, reduce.ErrFilterArchive):
		return issue.ClasspathArchiveFailedId, types.ExitFailure
	case errors.Is(err, reduce.ErrRemoveExecutables):
		return issue.ExecutableRemovalFailedId, types.ExitFailure
	case errors.Is(err, reduce.ErrUnpack):
		return issue.ArchiveUnpackFailedId, types.ExitFailure
	case errors.Is(err, reduce.ErrRepack):
		return issue.ArchiveRepackFailedId, types.ExitFailure
	default:
		return 0, types.ExitFailure
	}
}

// fail renders err with its catalog entry and wraps it in an ExitError.
func (a *App) fail(err error, scheme config.ColorScheme) error {
	id, code := classifyError(err)
	fmt.Fprintf(a.stderr, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, a.verbose))
	a.renderIssue(id, scheme)
	return &ExitError{Code: code, Err: err}
}

// renderIssue prints the catalog entry for id, if any, in the glamour style
// matching scheme.
func (a *App) renderIssue(id issue.Id, scheme config.ColorScheme) {
	if id == 0 {
		return
	}
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(glamourStyle(scheme, a.stderr))
	if err != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", id, "error", err)
		return
	}
	fmt.Fprint(a.stderr, rendered)
}

// glamourStyle picks the issue rendering style for a color scheme. The auto
// scheme falls back to plain text when w is not a terminal.
func glamourStyle(scheme config.ColorScheme, w io.Writer) string {
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		if isTerminal(w) {
			return "dark"
		}
		return "notty"
	}
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// render their suggestions, and in verbose mode the whole cause chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
