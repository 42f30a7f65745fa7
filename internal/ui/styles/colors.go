// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, failed sends
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, rate limits
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Emerald - Success states
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Cyan - Info, command names
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Purple - Brand accent outside the themed TUI
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// TextMuted - Hints and metadata
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextSecondary - Labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// StatusIndicators pairs every status color with a shape so state never
// depends on color alone.
var StatusIndicators = struct {
	Success string
	Error   string
	Warning string
	Info    string
}{
	Success: "✓",
	Error:   "✗",
	Warning: "⚠",
	Info:    "ℹ",
}

// =============================================================================
// THEME PALETTES
// =============================================================================

// Palette is the set of colors one chat theme is drawn with.
type Palette struct {
	Dark bool

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color

	UserFg      lipgloss.Color
	UserBg      lipgloss.Color
	AssistantFg lipgloss.Color
	AssistantBg lipgloss.Color

	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
}

var palettes = map[string]Palette{
	"dark": {
		Dark:        true,
		Background:  "#1E1E2E",
		Surface:     "#313244",
		Border:      "#45475A",
		Text:        "#CDD6F4",
		Muted:       "#6C7086",
		Accent:      "#22D3EE",
		UserFg:      "#CDD6F4",
		UserBg:      "#164E63",
		AssistantFg: "#CDD6F4",
		AssistantBg: "#2A2A3C",
		Error:       "#FB7185",
		Success:     "#34D399",
		Warning:     "#FBBF24",
	},
	"light": {
		Background:  "#FFFFFF",
		Surface:     "#F5F5F5",
		Border:      "#D4D4D4",
		Text:        "#1F2937",
		Muted:       "#9CA3AF",
		Accent:      "#0891B2",
		UserFg:      "#1F2937",
		UserBg:      "#CFFAFE",
		AssistantFg: "#1F2937",
		AssistantBg: "#F3F4F6",
		Error:       "#E11D48",
		Success:     "#059669",
		Warning:     "#D97706",
	},
	"blue": {
		Dark:        true,
		Background:  "#0F172A",
		Surface:     "#1E293B",
		Border:      "#334155",
		Text:        "#E2E8F0",
		Muted:       "#64748B",
		Accent:      "#60A5FA",
		UserFg:      "#EFF6FF",
		UserBg:      "#1D4ED8",
		AssistantFg: "#E2E8F0",
		AssistantBg: "#1E293B",
		Error:       "#F87171",
		Success:     "#4ADE80",
		Warning:     "#FACC15",
	},
	"purple": {
		Dark:        true,
		Background:  "#1A1025",
		Surface:     "#2E1A47",
		Border:      "#4C1D95",
		Text:        "#EDE9FE",
		Muted:       "#8B7BA8",
		Accent:      "#A78BFA",
		UserFg:      "#F5F3FF",
		UserBg:      "#5B21B6",
		AssistantFg: "#EDE9FE",
		AssistantBg: "#2E1A47",
		Error:       "#FB7185",
		Success:     "#34D399",
		Warning:     "#FBBF24",
	},
	"black": {
		Dark:        true,
		Background:  "#000000",
		Surface:     "#111111",
		Border:      "#333333",
		Text:        "#E5E5E5",
		Muted:       "#737373",
		Accent:      "#FFFFFF",
		UserFg:      "#FFFFFF",
		UserBg:      "#262626",
		AssistantFg: "#E5E5E5",
		AssistantBg: "#0A0A0A",
		Error:       "#F87171",
		Success:     "#4ADE80",
		Warning:     "#FACC15",
	},
}

// PaletteFor returns the palette for a theme name. Unknown names get the
// dark palette.
func PaletteFor(name string) Palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes["dark"]
}

// =============================================================================
// STATUS HELPERS
// =============================================================================

// RenderSuccess renders a success line with its indicator.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Emerald).Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error line with its indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning line with its indicator.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).
		Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders an info line with its indicator.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().Foreground(Cyan).
		Render(StatusIndicators.Info + " " + message)
}
