// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme_AllThemes(t *testing.T) {
	for _, name := range []string{"dark", "light", "blue", "purple", "black"} {
		theme := NewTheme(name)
		if theme == nil {
			t.Fatalf("NewTheme(%q) returned nil", name)
		}
		if theme.Name != name {
			t.Errorf("Name = %q, want %q", theme.Name, name)
		}
		if theme.Palette != palettes[name] {
			t.Errorf("NewTheme(%q) did not pick its own palette", name)
		}
	}
}

func TestNewTheme_UnknownFallsBackToDark(t *testing.T) {
	theme := NewTheme("sepia")
	if theme.Palette != palettes["dark"] {
		t.Error("unknown theme should use the dark palette")
	}
}

func TestPaletteFor_LightIsNotDark(t *testing.T) {
	if PaletteFor("light").Dark {
		t.Error("light palette should not be marked dark")
	}
	if !PaletteFor("black").Dark {
		t.Error("black palette should be marked dark")
	}
}

func TestThemeStylesRender(t *testing.T) {
	theme := NewTheme("dark")
	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"Sidebar", theme.Sidebar},
		{"UserBubble", theme.UserBubble},
		{"AssistantBubble", theme.AssistantBubble},
		{"InputContainer", theme.InputContainer},
		{"StatusBar", theme.StatusBar},
		{"Overlay", theme.Overlay},
		{"ToastError", theme.ToastError},
	}
	for _, s := range styles {
		if !strings.Contains(s.style.Render("test"), "test") {
			t.Errorf("%s style lost its content", s.name)
		}
	}
}

// =============================================================================
// LAYOUT TESTS
// =============================================================================

func TestLayoutMode(t *testing.T) {
	tests := []struct {
		width   int
		mode    LayoutMode
		sidebar int
	}{
		{40, LayoutNarrow, 0},
		{59, LayoutNarrow, 0},
		{60, LayoutMedium, 24},
		{99, LayoutMedium, 24},
		{100, LayoutWide, 32},
		{200, LayoutWide, 32},
	}
	theme := NewTheme("dark")
	for _, tt := range tests {
		theme.SetSize(tt.width, 30)
		if got := theme.GetLayoutMode(); got != tt.mode {
			t.Errorf("width %d: mode = %v, want %v", tt.width, got, tt.mode)
		}
		if got := theme.SidebarWidth(); got != tt.sidebar {
			t.Errorf("width %d: sidebar = %d, want %d", tt.width, got, tt.sidebar)
		}
	}
}

func TestRenderHelpersIncludeIndicator(t *testing.T) {
	if !strings.Contains(RenderSuccess("saved"), StatusIndicators.Success) {
		t.Error("RenderSuccess should include the success indicator")
	}
	if !strings.Contains(RenderError("failed"), StatusIndicators.Error) {
		t.Error("RenderError should include the error indicator")
	}
	if !strings.Contains(RenderWarning("slow"), "slow") {
		t.Error("RenderWarning should include the message")
	}
}
