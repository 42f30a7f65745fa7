// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/kronos-tui/internal/model"
	"github.com/jeranaias/kronos-tui/internal/ui/styles"
)

// =============================================================================
// FUZZY TESTS
// =============================================================================

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		query, target string
		want          bool
	}{
		{"", "anything", true},
		{"wkp", "Weekend plans", true},
		{"WEEK", "weekend plans", true},
		{"xyz", "Weekend plans", false},
		{"toolongquery", "short", false},
	}
	for _, tt := range tests {
		_, got := FuzzyMatch(tt.query, tt.target)
		assert.Equal(t, tt.want, got, "%q vs %q", tt.query, tt.target)
	}
}

func TestFuzzyMatch_PrefersStartAndConsecutive(t *testing.T) {
	start, _ := FuzzyMatch("go", "Go tips")
	middle, _ := FuzzyMatch("go", "Big oven")
	assert.Greater(t, start, middle)
}

func TestFilterIndices(t *testing.T) {
	titles := []string{"Recipes", "Go tips", "Gardening", "Trip"}
	assert.Equal(t, []int{0, 1, 2, 3}, FilterIndices("", titles))
	assert.Equal(t, []int{1, 2}, FilterIndices("g", titles), "shorter title first")
	assert.Empty(t, FilterIndices("zz", titles))
}

// =============================================================================
// TOAST TESTS
// =============================================================================

func TestToastManager(t *testing.T) {
	now := time.Unix(1000, 0)
	m := NewToastManager()
	m.now = func() time.Time { return now }

	m.AddStatus("saved")
	m.AddError("send failed")
	toasts := m.Toasts()
	require.Len(t, toasts, 2)
	assert.Equal(t, "send failed", toasts[0].Message, "newest first")

	now = now.Add(DefaultToastDuration)
	assert.True(t, m.Tick())
	require.Len(t, m.Toasts(), 1, "status toast expired")

	now = now.Add(ErrorToastDuration)
	assert.False(t, m.Tick())
}

func TestToastManager_CapsStack(t *testing.T) {
	m := NewToastManager()
	for i := 0; i < maxToasts+2; i++ {
		m.AddStatus("x")
	}
	assert.Len(t, m.Toasts(), maxToasts)
	m.Dismiss()
	assert.Len(t, m.Toasts(), maxToasts-1)
}

func TestRenderToastStack(t *testing.T) {
	theme := styles.NewTheme("dark")
	m := NewToastManager()
	m.AddError("gateway unreachable")
	out := RenderToastStack(theme, m.Toasts(), 80)
	assert.Contains(t, out, "gateway unreachable")
	assert.Empty(t, RenderToastStack(theme, nil, 80))
}

// =============================================================================
// CHAT LIST TESTS
// =============================================================================

func chats(titles ...string) []model.Chat {
	out := make([]model.Chat, len(titles))
	for i, title := range titles {
		out[i] = model.Chat{Title: title}
	}
	return out
}

func TestChatList_Navigation(t *testing.T) {
	l := NewChatList()
	_, ok := l.Selected()
	assert.False(t, ok)

	l.SetChats(chats("A", "B", "C"), "B")
	sel, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "A", sel)

	l.MoveUp()
	sel, _ = l.Selected()
	assert.Equal(t, "C", sel, "wraps to bottom")
	l.MoveDown()
	l.MoveDown()
	sel, _ = l.Selected()
	assert.Equal(t, "B", sel)

	l.SetChats(chats("A"), "")
	sel, _ = l.Selected()
	assert.Equal(t, "A", sel, "cursor clamped")
}

func TestChatList_Filter(t *testing.T) {
	l := NewChatList()
	l.SetChats(chats("Recipes", "Go tips", "Trip"), "")
	l.StartFilter()
	assert.True(t, l.Filtering())
	for _, r := range "tip" {
		l.UpdateFilter(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Equal(t, "tip", l.FilterValue())
	assert.Equal(t, 2, l.Len())

	l.StopFilter(true)
	assert.False(t, l.Filtering())
	assert.Equal(t, 3, l.Len())
}

func TestChatList_View(t *testing.T) {
	theme := styles.NewTheme("dark")
	l := NewChatList()
	assert.Contains(t, l.View(theme, 30, 20, true), "No saved chats")
	l.SetChats(chats("Weekend plans"), "Weekend plans")
	out := l.View(theme, 30, 20, true)
	assert.Contains(t, out, "Weekend plans")
	assert.True(t, strings.Contains(out, "Saved Chats"))
}

// =============================================================================
// PICKER TESTS
// =============================================================================

func TestPicker(t *testing.T) {
	p := NewPicker("Jump", "enter: go", []string{"one", "two"})
	assert.Equal(t, 0, p.Cursor())
	p.MoveDown()
	assert.Equal(t, 1, p.Cursor())
	p.MoveDown()
	assert.Equal(t, 0, p.Cursor())
	p.SetCursor(10)
	assert.Equal(t, 1, p.Cursor())

	empty := NewPicker("Empty", "", nil)
	assert.Equal(t, -1, empty.Cursor())
	assert.Contains(t, empty.View(styles.NewTheme("light"), 80, 24), "Nothing here yet")
}
