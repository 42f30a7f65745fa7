// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/kronos-tui/internal/model"
	"github.com/jeranaias/kronos-tui/internal/ui/styles"
	"github.com/jeranaias/kronos-tui/internal/util"
)

// =============================================================================
// SAVED CHATS LIST
// =============================================================================

// ChatList is the saved chats sidebar. Chats are listed in collection order;
// a fuzzy filter narrows the list without changing that order's meaning.
type ChatList struct {
	titles  []string
	visible []int
	cursor  int
	active  string

	filter    textinput.Model
	filtering bool
}

// NewChatList creates an empty list.
func NewChatList() ChatList {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter"
	ti.CharLimit = 64
	return ChatList{filter: ti}
}

// SetChats replaces the listed chats and marks the active title. The cursor
// stays on the same position, clamped to the new length.
func (l *ChatList) SetChats(chats []model.Chat, active string) {
	l.titles = l.titles[:0]
	for _, c := range chats {
		l.titles = append(l.titles, c.Title)
	}
	l.active = active
	l.refilter()
}

func (l *ChatList) refilter() {
	l.visible = FilterIndices(strings.TrimSpace(l.filter.Value()), l.titles)
	if l.cursor >= len(l.visible) {
		l.cursor = len(l.visible) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// Len is the number of visible entries.
func (l ChatList) Len() int { return len(l.visible) }

// MoveUp moves the cursor up, wrapping to the bottom.
func (l *ChatList) MoveUp() {
	if len(l.visible) == 0 {
		return
	}
	l.cursor = (l.cursor - 1 + len(l.visible)) % len(l.visible)
}

// MoveDown moves the cursor down, wrapping to the top.
func (l *ChatList) MoveDown() {
	if len(l.visible) == 0 {
		return
	}
	l.cursor = (l.cursor + 1) % len(l.visible)
}

// Selected returns the title under the cursor.
func (l ChatList) Selected() (string, bool) {
	if len(l.visible) == 0 {
		return "", false
	}
	return l.titles[l.visible[l.cursor]], true
}

// Filtering reports whether the filter input has focus.
func (l ChatList) Filtering() bool { return l.filtering }

// FilterValue is the current filter text.
func (l ChatList) FilterValue() string { return l.filter.Value() }

// StartFilter focuses the filter input.
func (l *ChatList) StartFilter() tea.Cmd {
	l.filtering = true
	return l.filter.Focus()
}

// StopFilter blurs the filter input; clear also drops the filter text.
func (l *ChatList) StopFilter(clear bool) {
	l.filtering = false
	l.filter.Blur()
	if clear {
		l.filter.SetValue("")
	}
	l.refilter()
}

// UpdateFilter feeds a key to the filter input and re-filters.
func (l *ChatList) UpdateFilter(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.filter, cmd = l.filter.Update(msg)
	l.cursor = 0
	l.refilter()
	return cmd
}

// View renders the list inside a bordered column of the given outer size.
func (l ChatList) View(theme *styles.Theme, width, height int, focused bool) string {
	inner := max(width-4, 4)
	var b strings.Builder
	b.WriteString(theme.SidebarTitle.Render("Saved Chats"))
	b.WriteString("\n")

	if l.filtering || l.filter.Value() != "" {
		l.filter.Width = inner - 2
		b.WriteString(l.filter.View())
		b.WriteString("\n")
	}

	rows := max(height-6, 1)
	if len(l.visible) == 0 {
		if len(l.titles) == 0 {
			b.WriteString(theme.SidebarEmpty.Render("No saved chats"))
		} else {
			b.WriteString(theme.SidebarEmpty.Render("No matches"))
		}
	}

	start := 0
	if l.cursor >= rows {
		start = l.cursor - rows + 1
	}
	for i := start; i < len(l.visible) && i < start+rows; i++ {
		title := l.titles[l.visible[i]]
		line := util.TruncateWidth(title, inner-2)
		prefix := "  "
		if title == l.active {
			prefix = "• "
		}
		switch {
		case focused && i == l.cursor:
			b.WriteString(theme.SidebarItemSelected.Render(util.PadRight(prefix+line, inner)))
		case title == l.active:
			b.WriteString(theme.SidebarItemActive.Render(prefix + line))
		default:
			b.WriteString(theme.SidebarItem.Render(prefix + line))
		}
		b.WriteString("\n")
	}

	return theme.Sidebar.Width(width - 2).Height(height - 2).Render(strings.TrimRight(b.String(), "\n"))
}
