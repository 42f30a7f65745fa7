// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"github.com/jeranaias/kronos-tui/internal/model"
)

// Snapshot is the persisted conversation state: the saved collection plus the
// active chat.
type Snapshot struct {
	Chats   []model.Chat
	History []model.Message
	Title   string
}

// ReadSnapshot loads the conversation keys, substituting an empty collection,
// an empty history and the default title for anything missing or corrupt.
func ReadSnapshot(a *Adapter) Snapshot {
	chats := GetJSON(a, KeyChats, []model.Chat{})
	history := GetJSON(a, KeyChatHistory, []model.Message{})
	title, ok := a.Get(KeyChatTitle)
	if !ok || title == "" {
		title = model.DefaultTitle
	}
	return Snapshot{
		Chats:   model.CloneChats(chats),
		History: model.CloneHistory(history),
		Title:   title,
	}
}

// ReadChats loads only the saved collection.
func ReadChats(a *Adapter) []model.Chat {
	return model.CloneChats(GetJSON(a, KeyChats, []model.Chat{}))
}
