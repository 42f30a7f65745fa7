// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the full-screen chat view of the kronos TUI.

The Model renders the active conversation from a session.Manager, the saved
chats sidebar, and overlays for settings, suggestions, the prompt history
jump list, code blocks and renames. Network calls never run on the update
loop: sending a message calls Manager.BeginSend, then Manager.SendCmd, and
the resulting session.ReplyMsg is applied with Manager.Handle.

# Key Types

  - Model: the Bubble Tea model
  - Options: dependencies for New
  - KeyMap: keyboard bindings
  - StoreChangedMsg: posted when another process changes the store

# Usage

	err := chat.Run(ctx, chat.Options{
		Manager:     mgr,
		Settings:    settingsStore,
		Suggestions: suggestionClient,
	}, chat.RunOptions{AltScreen: true})
*/
package chat
