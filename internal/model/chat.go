// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "github.com/jeranaias/kronos-tui/internal/util"

// DefaultTitle is the title of a chat that has not been named yet.
const DefaultTitle = "New Chat"

// Position is where an options menu was last opened.
type Position struct {
	Top  int `json:"top"`
	Left int `json:"left"`
}

// Chat is a saved conversation, identified by its title.
//
// ShowOptions and OptionsPosition are view state. They are tolerated when
// loading old data and dropped by Clean before saving.
type Chat struct {
	Title           string    `json:"title"`
	History         []Message `json:"history"`
	ShowOptions     bool      `json:"showOptions,omitempty"`
	OptionsPosition *Position `json:"optionsPosition,omitempty"`
}

// Clean returns a copy of the chat without view state and with its own
// history slice.
func (c Chat) Clean() Chat {
	return Chat{Title: c.Title, History: CloneHistory(c.History)}
}

// Preview returns the first user prompt of the chat for list views.
func (c Chat) Preview(maxRunes int) string {
	for _, m := range c.History {
		if m.Speaker.IsUser() {
			return util.TruncateRunes(util.FirstLine(m.PlainText()), maxRunes)
		}
	}
	return ""
}

// CloneHistory copies a history so callers can append without aliasing.
// A nil history becomes an empty, non-nil one so it encodes as [].
func CloneHistory(h []Message) []Message {
	out := make([]Message, len(h))
	copy(out, h)
	return out
}

// CloneChats deep-copies a chat collection, dropping view state.
func CloneChats(chats []Chat) []Chat {
	out := make([]Chat, len(chats))
	for i, c := range chats {
		out[i] = c.Clean()
	}
	return out
}

// FindChat returns the index of the first chat titled title, or -1.
func FindChat(chats []Chat, title string) int {
	for i, c := range chats {
		if c.Title == title {
			return i
		}
	}
	return -1
}

// SummarizeTitle derives a chat title from raw user input: its first line,
// shortened for list views.
func SummarizeTitle(raw string) string {
	title := util.TruncateRunes(util.FirstLine(raw), 40)
	if title == "" {
		return DefaultTitle
	}
	return title
}
