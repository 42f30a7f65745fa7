// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for one chat theme.
type Theme struct {
	Name         string
	Palette      Palette
	HasTrueColor bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// SAVED CHATS SIDEBAR
	// ==========================================================================

	Sidebar             lipgloss.Style
	SidebarTitle        lipgloss.Style
	SidebarItem         lipgloss.Style
	SidebarItemSelected lipgloss.Style
	SidebarItemActive   lipgloss.Style
	SidebarEmpty        lipgloss.Style

	// ==========================================================================
	// MESSAGES
	// ==========================================================================

	UserLabel       lipgloss.Style
	AssistantLabel  lipgloss.Style
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ExpandHint      lipgloss.Style
	Loading         lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS BAR
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	StatusBar      lipgloss.Style
	StatusKey      lipgloss.Style
	StatusValue    lipgloss.Style

	// ==========================================================================
	// OVERLAYS AND TOASTS
	// ==========================================================================

	Overlay             lipgloss.Style
	OverlayTitle        lipgloss.Style
	OverlayItem         lipgloss.Style
	OverlayItemSelected lipgloss.Style
	OverlayHint         lipgloss.Style
	ToastError          lipgloss.Style
	ToastInfo           lipgloss.Style
	CodeHeader          lipgloss.Style

	Muted   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
}

// NewTheme builds the styles for a theme name. Unknown names use the dark
// palette.
func NewTheme(name string) *Theme {
	profile := termenv.ColorProfile()
	t := &Theme{
		Name:         name,
		Palette:      PaletteFor(name),
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	p := t.Palette

	t.Header = lipgloss.NewStyle().
		Background(p.Surface).
		Foreground(p.Text).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	t.HeaderSubtitle = lipgloss.NewStyle().Foreground(p.Muted).Italic(true)

	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)
	t.SidebarTitle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent).MarginBottom(1)
	t.SidebarItem = lipgloss.NewStyle().Foreground(p.Text)
	t.SidebarItemSelected = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Accent).
		Bold(true)
	t.SidebarItemActive = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	t.SidebarEmpty = lipgloss.NewStyle().Foreground(p.Muted).Italic(true)

	t.UserLabel = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	t.AssistantLabel = lipgloss.NewStyle().Bold(true).Foreground(p.Success)
	t.UserBubble = lipgloss.NewStyle().
		Foreground(p.UserFg).
		Background(p.UserBg).
		Padding(0, 1)
	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(p.AssistantFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(p.Border).
		PaddingLeft(1)
	t.ExpandHint = lipgloss.NewStyle().Foreground(p.Muted).Italic(true)
	t.Loading = lipgloss.NewStyle().Foreground(p.Accent)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(p.Border)
	t.InputPrompt = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(p.Surface).
		Foreground(p.Muted).
		Padding(0, 1)
	t.StatusKey = lipgloss.NewStyle().Background(p.Surface).Foreground(p.Accent).Bold(true)
	t.StatusValue = lipgloss.NewStyle().Background(p.Surface).Foreground(p.Text)

	t.Overlay = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(1, 2)
	t.OverlayTitle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent).MarginBottom(1)
	t.OverlayItem = lipgloss.NewStyle().Foreground(p.Text)
	t.OverlayItemSelected = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	t.OverlayHint = lipgloss.NewStyle().Foreground(p.Muted).MarginTop(1)

	t.ToastError = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Error).
		Foreground(p.Error).
		Padding(0, 1)
	t.ToastInfo = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Success).
		Foreground(p.Text).
		Padding(0, 1)
	t.CodeHeader = lipgloss.NewStyle().
		Foreground(p.Muted).
		Background(p.Surface).
		Padding(0, 1)

	t.Muted = lipgloss.NewStyle().Foreground(p.Muted)
	t.Error = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
	t.Success = lipgloss.NewStyle().Foreground(p.Success)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// SidebarWidth is the width of the saved chats column for the current
// layout; zero hides it.
func (t *Theme) SidebarWidth() int {
	switch t.GetLayoutMode() {
	case LayoutNarrow:
		return 0
	case LayoutMedium:
		return 24
	default:
		return 32
	}
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)
