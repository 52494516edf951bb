// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

type fdWriter interface {
	Fd() uintptr
}

// newLogger creates a logger writing to w. Terminals get the styled text
// format; pipes and files get logfmt.
func newLogger(w io.Writer, prefix string, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix: prefix,
		Level:  level,
	})
	if !isTerminal(w) {
		logger.SetFormatter(log.LogfmtFormatter)
	}
	return logger
}

// installDefaultLogger routes log/slog output through a packr logger.
func installDefaultLogger(w io.Writer, verbose bool) {
	slog.SetDefault(slog.New(newLogger(w, "packr", verbose)))
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
