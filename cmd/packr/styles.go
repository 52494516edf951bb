// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette of the reduce, profiles and config output. Each color carries a
// darker variant for light terminal backgrounds.
var (
	colorTitle   = lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#7C3AED"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#6B7280"}
	colorSaved   = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#10B981"}
	colorFailed  = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#EF4444"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	colorPath    = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#3B82F6"}
)

var (
	// TitleStyle heads each command's output.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorTitle)

	// SubtitleStyle de-emphasizes skipped steps, absent entries and hints.
	SubtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)

	// SuccessStyle marks saved sizes and completed writes.
	SuccessStyle = lipgloss.NewStyle().Foreground(colorSaved)

	// ErrorStyle marks failed entries and the error banner.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorFailed)

	WarningStyle = lipgloss.NewStyle().Foreground(colorWarning)

	// CmdStyle renders paths, profile names, config keys and commands.
	CmdStyle = lipgloss.NewStyle().Foreground(colorPath)
)
