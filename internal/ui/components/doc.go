// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable widgets of the kronos TUI.

# Key Types

  - ChatList: saved chats sidebar with a fuzzy filter
  - Picker: single-choice overlay list
  - ToastManager: auto-dismissing notifications

All widgets are plain values driven by the chat model's Update method and
rendered with a styles.Theme.
*/
package components
