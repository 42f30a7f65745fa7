// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/kronos-tui/internal/ui/styles"
)

// Colors are dropped for piped output and when NO_COLOR is set.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for command titles and the REPL banner.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Purple)

	// SectionStyle heads a block of output.
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Cyan)

	// LabelStyle is used for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(14)

	ValueStyle = lipgloss.NewStyle()

	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// DimStyle is used for hints and previews.
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// CommandStyle highlights slash commands and flags in help text.
	CommandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	// PromptStyle is the REPL prompt.
	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	// SpeakerUserStyle and SpeakerAssistantStyle label transcript lines.
	SpeakerUserStyle = lipgloss.NewStyle().
				Foreground(styles.Cyan).
				Bold(true)
	SpeakerAssistantStyle = lipgloss.NewStyle().
				Foreground(styles.Emerald).
				Bold(true)
)

// =============================================================================
// HELPERS
// =============================================================================

// RenderSeparator renders a horizontal rule. The default width is 40.
func RenderSeparator(width ...int) string {
	w := 40
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return SeparatorStyle.Render(strings.Repeat("─", w))
}

// RenderLabel renders a field label padded to a common width.
func RenderLabel(label string) string {
	return LabelStyle.Render(label)
}

// RenderField renders "label value" on one line.
func RenderField(label, value string) string {
	return RenderLabel(label) + ValueStyle.Render(value)
}

// RenderSuccess renders a confirmation line such as "✓ Chat deleted".
func RenderSuccess(msg string) string {
	return SuccessStyle.Render(styles.StatusIndicators.Success + " " + msg)
}

// RenderWarning renders a warning line.
func RenderWarning(msg string) string {
	return WarningStyle.Render(styles.StatusIndicators.Warning + " " + msg)
}

// RenderWrapped renders text wrapped to the terminal width.
func RenderWrapped(style lipgloss.Style, text string) string {
	wrapped := WrapText(text, GetTerminalWidth())
	if !ColorsEnabled() {
		return wrapped
	}
	return style.Render(wrapped)
}
