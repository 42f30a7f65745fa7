// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across kronos.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth, PadRight: terminal-cell aware truncation and padding
//   - FirstLine: first non-blank line of a block of text
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync and rename
//   - MoveAside: keep an unreadable file under a new name
//
// # Usage
//
//	label := util.TruncateWidth(chat.Title, 24)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
