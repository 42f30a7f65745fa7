// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and messages.
//
// # Key Types
//
//   - Message: one chat log entry with speaker, content and expand state
//   - Chat: a saved conversation keyed by its unique title
//   - Speaker: "You" or "Assistant", persisted verbatim
//   - ValidationError: input rejected before any side effect
//
// # Content Encoding
//
// User input is stored sanitized: & < > " ' are replaced with HTML entities
// and newlines with "<br>". Assistant replies are stored raw. Use
// Message.PlainText to recover displayable text.
//
// # Usage
//
//	msg := model.NewUserMessage("a < b\nok")
//	// msg.Content == "a &lt; b<br>ok"
//	if msg.IsMultiLine() { ... }
package model
