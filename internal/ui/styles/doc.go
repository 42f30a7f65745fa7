// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the kronos TUI.

# Palettes (colors.go)

Every chat theme (dark, light, blue, purple, black) maps to a Palette of
lipgloss colors. A handful of adaptive semantic colors (Rose, Amber,
Emerald, Cyan) are shared by the CLI output helpers, which always pair a
color with a shape indicator.

# Theme (theme.go)

NewTheme builds all lipgloss styles for one theme name and records the
terminal color profile reported by termenv. The TUI rebuilds its Theme
whenever the theme setting changes.

# Usage

	theme := styles.NewTheme(settings.Current().Theme)
	theme.SetSize(width, height)
	line := theme.UserBubble.Render(text)
*/
package styles
