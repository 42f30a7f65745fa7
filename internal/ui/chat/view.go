// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/kronos-tui/internal/model"
	"github.com/jeranaias/kronos-tui/internal/render"
	"github.com/jeranaias/kronos-tui/internal/settings"
	"github.com/jeranaias/kronos-tui/internal/ui/components"
	"github.com/jeranaias/kronos-tui/internal/util"
)

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) inputHeight() int {
	if m.inputExpanded {
		return expandedInputHeight
	}
	return inputHeight
}

func (m *Model) chatWidth() int {
	return max(m.width-m.theme.SidebarWidth(), 10)
}

// layout sizes the viewport and input. Fixed rows: header, hint line, status
// bar and the input's top border.
func (m *Model) layout() {
	ih := m.inputHeight()
	m.viewport.Width = m.chatWidth()
	m.viewport.Height = max(m.height-ih-4, 1)
	m.input.SetWidth(max(m.width-2, 10))
	m.input.SetHeight(ih)
	if m.theme.SidebarWidth() == 0 && m.focus == focusSidebar {
		m.setFocus(focusInput)
	}
}

// refresh re-renders the conversation into the viewport. bottom scrolls to
// the newest message.
func (m *Model) refresh(bottom bool) {
	if !m.ready {
		return
	}
	content, offsets := m.renderMessages(m.viewport.Width)
	m.offsets = offsets
	m.viewport.SetContent(content)
	if bottom {
		m.viewport.GotoBottom()
	}
}

// =============================================================================
// MESSAGES
// =============================================================================

// renderMessages lays out the active history and records the first line of
// each message.
func (m *Model) renderMessages(width int) (string, []int) {
	st := m.mgr.State()
	set := m.settings.Current()
	if len(st.History) == 0 {
		welcome := m.theme.Muted.Render("Start a conversation. Chats are saved automatically.")
		return lipgloss.Place(width, m.viewport.Height, lipgloss.Center, lipgloss.Center, welcome), nil
	}

	wrap := set.WrapWidth(max(width-3, 10))
	gap := strings.Repeat("\n", set.MessageSpacing()+1)

	var b strings.Builder
	offsets := make([]int, 0, len(st.History))
	line := 0
	for i, msg := range st.History {
		block := m.renderMessage(msg, wrap)
		offsets = append(offsets, line)
		b.WriteString(block)
		if i < len(st.History)-1 {
			b.WriteString(gap)
		}
		line += lipgloss.Height(block) + strings.Count(gap, "\n") - 1
	}
	return b.String(), offsets
}

func (m *Model) renderMessage(msg model.Message, wrap int) string {
	text := render.MessageText(msg)
	if !msg.Speaker.IsUser() {
		label := m.theme.AssistantLabel.Render(string(model.SpeakerAssistant) + ":")
		body := m.md.Render(text, m.theme.Name, wrap)
		return label + "\n" + m.theme.AssistantBubble.Render(body)
	}

	label := m.theme.UserLabel.Render(string(model.SpeakerYou) + ":")
	var hint string
	if msg.IsMultiLine() {
		short, hidden := render.Collapse(text, collapsedLines)
		switch {
		case hidden && !msg.IsExpanded:
			text = short
			hint = m.theme.ExpandHint.Render("＋ more (C-e)")
		case hidden:
			hint = m.theme.ExpandHint.Render("－ less (C-e)")
		}
	}
	out := label + "\n" + m.theme.UserBubble.Width(wrap).Render(text)
	if hint != "" {
		out += "\n" + hint
	}
	return out
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.overlay != overlayNone {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderOverlay(),
			lipgloss.WithWhitespaceChars(" "))
	}

	body := m.viewport.View()
	if sw := m.theme.SidebarWidth(); sw > 0 {
		sidebar := m.list.View(m.theme, sw, m.viewport.Height, m.focus == focusSidebar)
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, body)
	}

	if toasts := m.toasts.Toasts(); len(toasts) > 0 {
		body = overlayBottom(body, components.RenderToastStack(m.theme, toasts, m.width))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.theme.InputContainer.Width(m.width).Render(m.input.View()),
		m.renderHint(),
		m.renderStatus(),
	)
}

// overlayBottom replaces the last lines of body with the toast stack.
func overlayBottom(body, stack string) string {
	lines := strings.Split(body, "\n")
	toast := strings.Split(stack, "\n")
	if len(toast) > len(lines) {
		toast = toast[len(toast)-len(lines):]
	}
	copy(lines[len(lines)-len(toast):], toast)
	return strings.Join(lines, "\n")
}

func (m Model) renderHeader() string {
	st := m.mgr.State()
	left := m.theme.HeaderTitle.Render("Kronos") + "  " + m.theme.HeaderSubtitle.Render(util.TruncateWidth(st.Title, max(m.width/2, 10)))
	right := m.theme.HeaderSubtitle.Render(settings.ThemeDisplayName(m.theme.Name))
	pad := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return m.theme.Header.Width(m.width).Render(left + strings.Repeat(" ", pad) + right)
}

func (m Model) renderHint() string {
	if m.loading() {
		return m.theme.Loading.Render(m.spinner.View() + " Assistant is typing...")
	}
	return m.theme.Muted.Render("Enter send · M-Enter new line · Tab saved chats · F1 help")
}

func (m Model) renderStatus() string {
	st := m.mgr.State()
	set := m.settings.Current()
	parts := []string{
		m.theme.StatusKey.Render("chats ") + m.theme.StatusValue.Render(strconv.Itoa(len(st.Chats))),
		m.theme.StatusKey.Render("messages ") + m.theme.StatusValue.Render(strconv.Itoa(len(st.History))),
		m.theme.StatusKey.Render("line ") + m.theme.StatusValue.Render(strconv.FormatFloat(set.LineHeight, 'f', 1, 64)),
		m.theme.StatusKey.Render("font ") + m.theme.StatusValue.Render(strconv.Itoa(set.FontSize)),
	}
	if err := m.mgr.LastError(); err != nil && !m.loading() {
		parts = append(parts, m.theme.Error.Render("last send failed"))
	}
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}

// =============================================================================
// OVERLAYS
// =============================================================================

func (m Model) renderOverlay() string {
	switch m.overlay {
	case overlayHelp:
		return m.renderHelp()
	case overlaySettings:
		return m.renderSettings()
	case overlaySuggest:
		return m.renderSuggest()
	case overlaySuggestions:
		view := m.picker.View(m.theme, m.width, m.height)
		if m.sugLoading {
			view += "\n" + m.theme.Muted.Render("Loading...")
		}
		if m.sugErr != "" {
			view += "\n" + m.theme.Error.Render(m.sugErr)
		}
		return view
	case overlayPrompts:
		return m.picker.View(m.theme, m.width, m.height)
	case overlayCode:
		return m.renderCode()
	case overlayRename:
		return m.theme.Overlay.Render(
			m.theme.OverlayTitle.Render("Rename chat") + "\n" +
				m.renameInput.View() + "\n" +
				m.theme.OverlayHint.Render("Enter save · Esc cancel"))
	case overlayConfirm:
		return m.theme.Overlay.Render(
			m.theme.OverlayTitle.Render(m.confirmText) + "\n" +
				m.theme.OverlayHint.Render("y confirm · n cancel"))
	}
	return ""
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.OverlayTitle.Render("Keys"))
	b.WriteString("\n")
	for _, sec := range m.keys.HelpSections() {
		b.WriteString(m.theme.OverlayItemSelected.Render(sec.Title))
		b.WriteString("\n")
		for _, kb := range sec.Bindings {
			h := kb.Help()
			b.WriteString(fmt.Sprintf("  %s %s\n", m.theme.StatusKey.UnsetBackground().Render(util.PadRight(h.Key, 14)), h.Desc))
		}
	}
	b.WriteString(m.theme.OverlayHint.Render("Any key closes"))
	return m.theme.Overlay.Render(b.String())
}

func (m Model) renderSettings() string {
	set := m.settings.Current()
	rows := []struct {
		label, value string
	}{
		{"Line Height", fmt.Sprintf("‹ %.1f ›", set.LineHeight)},
		{"Font Size", fmt.Sprintf("‹ %d ›", set.FontSize)},
		{"Theme", "‹ " + settings.ThemeDisplayName(set.Theme) + " ›"},
		{"Suggestion", "Enter"},
		{"View Suggestions", "Enter"},
		{"Close", "Enter"},
	}

	var b strings.Builder
	b.WriteString(m.theme.OverlayTitle.Render("Settings"))
	b.WriteString("\n")
	if m.version != "" {
		b.WriteString(m.theme.Muted.Render("Version: " + m.version))
		b.WriteString("\n\n")
	}
	for i, r := range rows {
		line := util.PadRight(r.label, 18) + r.value
		if settingsRow(i) == m.settingsRow {
			b.WriteString(m.theme.OverlayItemSelected.Render("› " + line))
		} else {
			b.WriteString(m.theme.OverlayItem.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.theme.OverlayHint.Render("↑/↓ select · ←/→ change · Esc close"))
	return m.theme.Overlay.Render(b.String())
}

func (m Model) renderSuggest() string {
	var b strings.Builder
	b.WriteString(m.theme.OverlayTitle.Render("Suggestion"))
	b.WriteString("\n")
	b.WriteString("Name\n")
	b.WriteString(m.sugName.View())
	b.WriteString("\n\nSuggestion\n")
	b.WriteString(m.sugText.View())
	b.WriteString("\n")
	if m.sugLoading {
		b.WriteString(m.theme.Muted.Render("Sending..."))
		b.WriteString("\n")
	}
	if m.sugErr != "" {
		b.WriteString(m.theme.Error.Render(m.sugErr))
		b.WriteString("\n")
	}
	b.WriteString(m.theme.OverlayHint.Render("Tab next field · Enter submit · Esc close"))
	return m.theme.Overlay.Width(min(max(m.width-10, 30), 76)).Render(b.String())
}

func (m Model) renderCode() string {
	view := m.picker.View(m.theme, m.width, m.height/2)
	i := m.picker.Cursor()
	if i < 0 {
		return view
	}
	block := m.codeBlocks[i]
	code, _ := render.Collapse(block.Code, max(m.height/2-4, 3))
	preview := m.theme.CodeHeader.Render(block.Label()) + "\n" + render.Highlight(code, block.Language, m.theme.Name)
	return lipgloss.JoinVertical(lipgloss.Left, view, preview)
}
