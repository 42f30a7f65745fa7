// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/jeranaias/kronos-tui/internal/gateway"
	"github.com/jeranaias/kronos-tui/internal/render"
	"github.com/jeranaias/kronos-tui/internal/session"
	"github.com/jeranaias/kronos-tui/internal/settings"
	"github.com/jeranaias/kronos-tui/internal/ui/components"
	"github.com/jeranaias/kronos-tui/internal/util"
)

// =============================================================================
// OVERLAY DISPATCH
// =============================================================================

func (m *Model) updateOverlay(msg tea.KeyMsg) tea.Cmd {
	switch m.overlay {
	case overlayHelp:
		m.closeOverlay()
		return nil
	case overlaySettings:
		return m.updateSettings(msg)
	case overlaySuggest:
		return m.updateSuggest(msg)
	case overlaySuggestions:
		return m.updatePickerOnly(msg)
	case overlayPrompts:
		return m.updatePrompts(msg)
	case overlayCode:
		return m.updateCode(msg)
	case overlayRename:
		return m.updateRename(msg)
	case overlayConfirm:
		return m.updateConfirm(msg)
	}
	return nil
}

func (m *Model) closeOverlay() {
	m.overlay = overlayNone
	m.renameInput.Blur()
	m.sugName.Blur()
	m.sugText.Blur()
	if m.focus == focusInput {
		m.input.Focus()
	}
}

func (m *Model) updatePickerOnly(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeOverlay()
	case key.Matches(msg, m.keys.Up):
		m.picker.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.picker.MoveDown()
	}
	return nil
}

// =============================================================================
// SETTINGS
// =============================================================================

func (m *Model) openSettings() {
	m.settingsRow = rowLineHeight
	m.overlay = overlaySettings
	m.input.Blur()
}

func (m *Model) updateSettings(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeOverlay()
	case key.Matches(msg, m.keys.Up):
		m.settingsRow = (m.settingsRow - 1 + settingsRowCount) % settingsRowCount
	case key.Matches(msg, m.keys.Down):
		m.settingsRow = (m.settingsRow + 1) % settingsRowCount
	case key.Matches(msg, m.keys.Left):
		return m.adjustSetting(-1)
	case key.Matches(msg, m.keys.Right):
		return m.adjustSetting(1)
	case msg.Type == tea.KeyEnter:
		switch m.settingsRow {
		case rowSuggest:
			return m.openSuggest()
		case rowViewSuggestions:
			return m.openSuggestions()
		case rowClose:
			m.closeOverlay()
		default:
			return m.adjustSetting(1)
		}
	}
	return nil
}

func (m *Model) adjustSetting(delta int) tea.Cmd {
	switch m.settingsRow {
	case rowLineHeight:
		return m.changeSetting(m.settings.StepLineHeight(delta))
	case rowFontSize:
		return m.changeSetting(m.settings.StepFontSize(delta))
	case rowTheme:
		return m.changeSetting(m.settings.SetTheme(stepTheme(m.settings.Current().Theme, delta)))
	}
	return nil
}

// stepTheme returns the theme delta places away in menu order.
func stepTheme(current string, delta int) string {
	themes := settings.Themes()
	for i, t := range themes {
		if t == current {
			n := len(themes)
			return themes[((i+delta)%n+n)%n]
		}
	}
	return themes[0]
}

// changeSetting re-lays out the screen after a settings write. A failed write
// still leaves the new value in effect for this run.
func (m *Model) changeSetting(err error) tea.Cmd {
	m.applyTheme()
	m.layout()
	m.refresh(false)
	if err != nil {
		m.log.WithError(err).Warn("Failed to save setting")
		return m.showError(err)
	}
	return nil
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

func (m *Model) openSuggest() tea.Cmd {
	if m.suggestions == nil {
		return m.showError(errors.New("suggestions are not configured"))
	}
	m.overlay = overlaySuggest
	m.sugErr = ""
	m.input.Blur()
	if m.sugName.Value() == "" {
		m.sugField = 0
		m.sugText.Blur()
		return m.sugName.Focus()
	}
	m.sugField = 1
	m.sugName.Blur()
	return m.sugText.Focus()
}

func (m *Model) updateSuggest(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeOverlay()
		return nil
	case msg.Type == tea.KeyTab || msg.Type == tea.KeyShiftTab:
		return m.switchSuggestField()
	case msg.Type == tea.KeyEnter:
		if m.sugField == 0 {
			return m.switchSuggestField()
		}
		if m.sugLoading {
			return nil
		}
		m.sugLoading = true
		m.sugErr = ""
		return submitSuggestionCmd(m.ctx, m.suggestions, m.sugName.Value(), m.sugText.Value())
	}

	var cmd tea.Cmd
	if m.sugField == 0 {
		m.sugName, cmd = m.sugName.Update(msg)
	} else {
		m.sugText, cmd = m.sugText.Update(msg)
	}
	return cmd
}

func (m *Model) switchSuggestField() tea.Cmd {
	if m.sugField == 0 {
		m.sugField = 1
		m.sugName.Blur()
		return m.sugText.Focus()
	}
	m.sugField = 0
	m.sugText.Blur()
	return m.sugName.Focus()
}

func (m *Model) openSuggestions() tea.Cmd {
	if m.suggestions == nil {
		return m.showError(errors.New("suggestions are not configured"))
	}
	m.overlay = overlaySuggestions
	m.sugErr = ""
	m.sugLoading = true
	m.picker = components.NewPicker("Suggestions", "↑/↓ scroll · Esc close", suggestionItems(m.suggestList))
	return fetchSuggestionsCmd(m.ctx, m.suggestions)
}

func suggestionItems(items []gateway.Suggestion) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, s.UserName+": "+s.Suggestion)
	}
	return out
}

// =============================================================================
// PROMPT HISTORY
// =============================================================================

func (m *Model) openPrompts() {
	m.prompts = session.UserPrompts(m.mgr.State().History)
	items := make([]string, len(m.prompts))
	for i, p := range m.prompts {
		items[i] = p.Text
	}
	m.picker = components.NewPicker("Chat History", "Enter jump · Space expand · Esc close", items)
	m.picker.SetCursor(len(items) - 1)
	m.overlay = overlayPrompts
	m.input.Blur()
}

func (m *Model) updatePrompts(msg tea.KeyMsg) tea.Cmd {
	i := m.picker.Cursor()
	switch {
	case msg.Type == tea.KeyEnter && i >= 0:
		m.closeOverlay()
		m.jumpTo(m.prompts[i].Index)
	case msg.String() == " " && i >= 0:
		idx := m.prompts[i].Index
		if m.mgr.State().History[idx].IsMultiLine() {
			m.mgr.ToggleExpanded(idx)
			m.refresh(false)
		}
	default:
		return m.updatePickerOnly(msg)
	}
	return nil
}

// jumpTo scrolls so message index sits at the top of the viewport.
func (m *Model) jumpTo(index int) {
	if index >= 0 && index < len(m.offsets) {
		m.viewport.SetYOffset(m.offsets[index])
	}
}

// =============================================================================
// CODE BLOCKS
// =============================================================================

func (m *Model) openCodeBlocks() {
	m.codeBlocks = m.codeBlocks[:0]
	for _, msg := range m.mgr.State().History {
		if msg.Speaker.IsUser() {
			continue
		}
		m.codeBlocks = append(m.codeBlocks, render.ExtractCodeBlocks(msg.Content)...)
	}
	items := make([]string, len(m.codeBlocks))
	for i, b := range m.codeBlocks {
		items[i] = b.Label() + "  " + util.FirstLine(b.Code)
	}
	m.picker = components.NewPicker("Code Blocks", "c copy · Esc close", items)
	m.picker.SetCursor(len(items) - 1)
	m.overlay = overlayCode
	m.input.Blur()
}

func (m *Model) updateCode(msg tea.KeyMsg) tea.Cmd {
	i := m.picker.Cursor()
	if i >= 0 && (key.Matches(msg, m.keys.Copy) || msg.Type == tea.KeyEnter) {
		if err := render.Copy(m.codeBlocks[i].Code); err != nil {
			return m.showError(err)
		}
		m.closeOverlay()
		return m.showStatus("Copied!")
	}
	return m.updatePickerOnly(msg)
}

// =============================================================================
// RENAME AND CONFIRM
// =============================================================================

func (m *Model) updateRename(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeOverlay()
		return nil
	case tea.KeyEnter:
		err := m.mgr.RenameChat(m.renameFrom, m.renameInput.Value())
		if errors.Is(err, session.ErrTitleTaken) || errors.Is(err, session.ErrReservedTitle) {
			return m.showError(err)
		}
		m.closeOverlay()
		m.syncList()
		m.refresh(false)
		if err != nil && !errors.Is(err, session.ErrEmptyTitle) {
			return m.showError(err)
		}
		return nil
	}
	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "enter":
		action := m.confirmAction
		m.confirmAction = nil
		m.closeOverlay()
		var err error
		if action != nil {
			err = action()
		}
		m.syncList()
		m.refresh(true)
		if err != nil {
			return m.showError(err)
		}
	case "n", "N", "esc":
		m.confirmAction = nil
		m.closeOverlay()
	}
	return nil
}
