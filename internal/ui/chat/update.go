// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/jeranaias/kronos-tui/internal/gateway"
	"github.com/jeranaias/kronos-tui/internal/model"
	"github.com/jeranaias/kronos-tui/internal/session"
	"github.com/jeranaias/kronos-tui/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.layout()
		m.ready = true
		m.refresh(true)
		return m, nil

	case session.ReplyMsg:
		cmd := m.handleReply(msg)
		return m, cmd

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StoreChangedMsg:
		m.mgr.Reload()
		m.syncList()
		m.refresh(false)
		return m, nil

	case SuggestionsLoadedMsg:
		m.sugLoading = false
		if msg.Err != nil {
			m.sugErr = errorText(msg.Err)
			return m, nil
		}
		m.suggestList = msg.Items
		m.picker.Items = suggestionItems(msg.Items)
		return m, nil

	case SuggestionSubmittedMsg:
		return m, m.handleSubmitted(msg)

	case components.ToastTickMsg:
		if m.toasts.Tick() {
			return m, components.ToastTickCmd()
		}
		m.toastTicking = false
		return m, nil

	case tea.MouseMsg:
		if m.overlay != overlayNone {
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.cancel()
			return m, tea.Quit
		}
		if m.overlay != overlayNone {
			cmd := m.updateOverlay(msg)
			return m, cmd
		}
		cmd := m.handleKey(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleReply(msg session.ReplyMsg) tea.Cmd {
	err := m.mgr.Handle(msg)
	m.syncList()
	m.refresh(true)
	if err != nil {
		m.log.WithError(err).Warn("Chat reply failed")
		return m.showError(err)
	}
	return nil
}

func (m *Model) handleSubmitted(msg SuggestionSubmittedMsg) tea.Cmd {
	m.sugLoading = false
	var verr *model.ValidationError
	switch {
	case msg.Err == nil:
		m.sugText.SetValue("")
		m.sugErr = ""
		if m.overlay == overlaySuggest {
			m.closeOverlay()
		}
		return m.showStatus("Suggestion submitted successfully!")
	case errors.As(msg.Err, &verr):
		return nil
	default:
		m.sugErr = errorText(msg.Err)
		return nil
	}
}

// =============================================================================
// MAIN SCREEN KEYS
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.focus == focusSidebar && m.list.Filtering() {
		return m.updateFilter(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.overlay = overlayHelp
		return nil
	case key.Matches(msg, m.keys.Settings):
		m.openSettings()
		return nil
	case key.Matches(msg, m.keys.Suggest):
		return m.openSuggest()
	case key.Matches(msg, m.keys.CycleTheme):
		return m.changeSetting(m.settings.CycleTheme())
	case key.Matches(msg, m.keys.NewChat):
		return m.newChat()
	case key.Matches(msg, m.keys.Prompts):
		m.openPrompts()
		return nil
	case key.Matches(msg, m.keys.CodeBlocks):
		m.openCodeBlocks()
		return nil
	case key.Matches(msg, m.keys.Expand):
		m.expandLast()
		return nil
	case key.Matches(msg, m.keys.ExpandInput):
		m.inputExpanded = !m.inputExpanded
		m.layout()
		m.refresh(true)
		return nil
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return nil
	case key.Matches(msg, m.keys.FocusSwitch):
		if m.focus == focusInput && m.theme.SidebarWidth() > 0 {
			return m.setFocus(focusSidebar)
		}
		return m.setFocus(focusInput)
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.send()
	case key.Matches(msg, m.keys.Back):
		m.toasts.Dismiss()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) send() tea.Cmd {
	p, err := m.mgr.BeginSend(m.input.Value())
	if err != nil {
		// Empty input is ignored without feedback.
		return nil
	}
	m.input.Reset()
	m.refresh(true)
	return tea.Batch(m.mgr.SendCmd(m.ctx, p), m.spinner.Tick)
}

func (m *Model) newChat() tea.Cmd {
	if err := m.mgr.StartNewChat(); err != nil {
		m.log.WithError(err).Warn("Failed to persist new chat")
	}
	m.syncList()
	m.refresh(true)
	return m.setFocus(focusInput)
}

func (m *Model) expandLast() {
	hist := m.mgr.State().History
	for i := len(hist) - 1; i >= 0; i-- {
		if hist[i].Speaker.IsUser() && hist[i].IsMultiLine() {
			m.mgr.ToggleExpanded(i)
			m.refresh(false)
			return
		}
	}
}

// =============================================================================
// SIDEBAR KEYS
// =============================================================================

func (m *Model) handleSidebarKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.list.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.list.MoveDown()
	case key.Matches(msg, m.keys.Filter):
		return m.list.StartFilter()
	case key.Matches(msg, m.keys.Back):
		return m.setFocus(focusInput)
	case key.Matches(msg, m.keys.Load):
		return m.loadSelected()
	case key.Matches(msg, m.keys.Rename):
		if title, ok := m.list.Selected(); ok {
			m.renameFrom = title
			m.renameInput.SetValue(title)
			m.renameInput.CursorEnd()
			m.overlay = overlayRename
			return m.renameInput.Focus()
		}
	case key.Matches(msg, m.keys.Delete):
		if title, ok := m.list.Selected(); ok {
			mgr := m.mgr
			m.confirm(fmt.Sprintf("Delete chat %q?", title), func() error {
				return mgr.DeleteChat(title)
			})
		}
	case key.Matches(msg, m.keys.Clear):
		if len(m.mgr.State().Chats) > 0 {
			m.confirm("Delete all saved chats?", m.mgr.ClearChats)
		}
	case msg.String() == "n":
		return m.newChat()
	}
	return nil
}

func (m *Model) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.list.StopFilter(true)
		return nil
	case tea.KeyEnter:
		m.list.StopFilter(false)
		return nil
	case tea.KeyUp:
		m.list.MoveUp()
		return nil
	case tea.KeyDown:
		m.list.MoveDown()
		return nil
	}
	return m.list.UpdateFilter(msg)
}

func (m *Model) loadSelected() tea.Cmd {
	title, ok := m.list.Selected()
	if !ok {
		return nil
	}
	found, err := m.mgr.LoadChat(title)
	m.syncList()
	m.refresh(true)
	if err != nil {
		return m.showError(err)
	}
	if !found {
		return m.showError(session.ErrChatNotFound)
	}
	return m.setFocus(focusInput)
}

func (m *Model) confirm(text string, action func() error) {
	m.confirmText = text
	m.confirmAction = action
	m.overlay = overlayConfirm
}

// =============================================================================
// ERROR TEXT
// =============================================================================

// errorText turns an error into a one-line message for a toast.
func errorText(err error) string {
	var gwErr *gateway.GatewayError
	var verr *model.ValidationError
	switch {
	case errors.Is(err, gateway.ErrRateLimited):
		return "Too many suggestions. Try again in a minute."
	case errors.As(err, &gwErr) && gwErr.Status != 0:
		return fmt.Sprintf("The service answered with HTTP %d. Please try again.", gwErr.Status)
	case errors.As(err, &gwErr):
		return "Couldn't reach the service. Check your connection and try again."
	case errors.As(err, &verr):
		return verr.Error()
	}
	return err.Error()
}
