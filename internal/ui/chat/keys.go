// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
type KeyMap struct {
	// Global
	Quit        key.Binding
	Help        key.Binding
	Submit      key.Binding
	NewLine     key.Binding
	FocusSwitch key.Binding
	NewChat     key.Binding
	Prompts     key.Binding
	CodeBlocks  key.Binding
	Expand      key.Binding
	ExpandInput key.Binding
	Settings    key.Binding
	Suggest     key.Binding
	CycleTheme  key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Back        key.Binding

	// Saved chats sidebar
	Up     key.Binding
	Down   key.Binding
	Load   key.Binding
	Delete key.Binding
	Rename key.Binding
	Clear  key.Binding
	Filter key.Binding

	// Overlays
	Left  key.Binding
	Right key.Binding
	Copy  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		NewLine: key.NewBinding(
			key.WithKeys("alt+enter", "ctrl+j"),
			key.WithHelp("M-Enter/C-j", "new line"),
		),
		FocusSwitch: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "input / saved chats"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new chat"),
		),
		Prompts: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "chat history"),
		),
		CodeBlocks: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "code blocks"),
		),
		Expand: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "expand last message"),
		),
		ExpandInput: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "taller input"),
		),
		Settings: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "settings"),
		),
		Suggest: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "suggestion"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "next theme"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp/C-u", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn/C-d", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "close / back"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Load: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "open chat"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete chat"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename chat"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "delete all chats"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),

		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "decrease"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "increase"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c", "y"),
			key.WithHelp("c/y", "copy"),
		),
	}
}

// =============================================================================
// HELP TEXT
// =============================================================================

// HelpSections groups bindings for the help overlay.
func (k KeyMap) HelpSections() []HelpSection {
	return []HelpSection{
		{Title: "Chat", Bindings: []key.Binding{
			k.Submit, k.NewLine, k.NewChat, k.Prompts, k.CodeBlocks, k.Expand,
			k.ExpandInput, k.PageUp, k.PageDown,
		}},
		{Title: "Saved chats (Tab)", Bindings: []key.Binding{
			k.Up, k.Down, k.Load, k.Rename, k.Delete, k.Clear, k.Filter,
		}},
		{Title: "General", Bindings: []key.Binding{
			k.Settings, k.Suggest, k.CycleTheme, k.FocusSwitch, k.Back, k.Help, k.Quit,
		}},
	}
}

// HelpSection is a titled group of bindings.
type HelpSection struct {
	Title    string
	Bindings []key.Binding
}
