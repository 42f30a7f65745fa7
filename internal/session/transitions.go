// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strings"

	"github.com/jeranaias/kronos-tui/internal/gateway"
	"github.com/jeranaias/kronos-tui/internal/model"
	"github.com/jeranaias/kronos-tui/internal/storage"
)

// Every transition takes the current State by value and returns the next
// State together with the store writes that mirror it. The input State is
// never modified.

// =============================================================================
// LOADING
// =============================================================================

// LoadInitialState reads the persisted conversation keys. Missing or corrupt
// values become an empty collection, an empty history and "New Chat".
func LoadInitialState(store *storage.Adapter) State {
	snap := storage.ReadSnapshot(store)
	return State{
		Title:   snap.Title,
		History: snap.History,
		Chats:   snap.Chats,
		Epoch:   newEpoch(),
	}
}

// =============================================================================
// SENDING
// =============================================================================

// Pending describes a message that has been shown optimistically and is
// waiting for the assistant's reply.
type Pending struct {
	// Input is the sanitized text, exactly as appended to the history.
	Input string
	// History is the active history before Input was appended.
	History []model.Message
	// Title is the active title when the message was sent.
	Title string
	// Epoch is the session the message was sent from.
	Epoch string
}

// BeginSend validates and sanitizes text and appends it to the active
// history as a "You" message. Nothing is persisted until the reply arrives.
func BeginSend(s State, text string) (State, Pending, error) {
	if strings.TrimSpace(text) == "" {
		return s, Pending{}, ErrEmptyMessage
	}

	msg := model.NewUserMessage(text)
	pending := Pending{
		Input:   msg.Content,
		History: model.CloneHistory(s.History),
		Title:   s.Title,
		Epoch:   s.Epoch,
	}

	next := s.Clone()
	next.History = append(next.History, msg)
	return next, pending, nil
}

// CompleteSend applies a successful reply.
//
// The reply is appended as an "Assistant" message. An untitled chat takes the
// suggested title, or a title derived from its first prompt when the service
// suggested none. The chat is then saved under its title, replacing the first
// saved chat of that name, and moved to the end of the collection.
//
// A reply whose Pending.Epoch no longer matches s.Epoch is discarded with
// ErrStaleCompletion.
func CompleteSend(s State, p Pending, reply gateway.Reply) (State, []Effect, error) {
	if p.Epoch != s.Epoch {
		return s, nil, ErrStaleCompletion
	}

	next := s.Clone()
	next.History = append(next.History, model.NewAssistantMessage(reply.Text))

	var effects []Effect
	if next.IsUntitled() {
		title := strings.TrimSpace(reply.SuggestedTitle)
		if title == "" || title == model.DefaultTitle {
			title = model.SummarizeTitle(model.Unsanitize(p.Input))
		}
		next.Title = title
		effects = append(effects, setEffect(storage.KeyChatTitle, next.Title))
	}

	next.Chats = upsert(next.Chats, model.Chat{Title: next.Title, History: next.History})

	effects = append(effects,
		setJSONEffect(storage.KeyChatHistory, model.CloneHistory(next.History)),
		setJSONEffect(storage.KeyChats, model.CloneChats(next.Chats)),
	)
	return next, effects, nil
}

// FailSend handles a failed exchange. The optimistic message stays in the
// history and nothing is persisted, so State is returned unchanged.
func FailSend(s State, _ Pending, _ error) State {
	return s
}

// upsert drops the first chat titled c.Title and appends c.
func upsert(chats []model.Chat, c model.Chat) []model.Chat {
	out := make([]model.Chat, 0, len(chats)+1)
	removed := false
	for _, existing := range chats {
		if !removed && existing.Title == c.Title {
			removed = true
			continue
		}
		out = append(out, existing)
	}
	return append(out, c.Clean())
}

// =============================================================================
// SAVED CHATS
// =============================================================================

// DeleteChat removes the first saved chat titled title. Deleting the active
// chat also resets the session to an empty "New Chat", even when the
// collection has no entry for it.
func DeleteChat(s State, title string) (State, []Effect, error) {
	idx := model.FindChat(s.Chats, title)
	active := s.Title == title && !s.IsUntitled()
	if idx < 0 && !active {
		return s, nil, ErrChatNotFound
	}

	next := s.Clone()
	var effects []Effect
	if idx >= 0 {
		next.Chats = append(next.Chats[:idx:idx], next.Chats[idx+1:]...)
		effects = append(effects, setJSONEffect(storage.KeyChats, model.CloneChats(next.Chats)))
	}

	if active {
		next.Title = model.DefaultTitle
		next.History = []model.Message{}
		next.Epoch = newEpoch()
		effects = append(effects,
			removeEffect(storage.KeyChatHistory),
			removeEffect(storage.KeyChatTitle),
		)
	}
	return next, effects, nil
}

// LoadChat makes the first saved chat titled title the active one. An unknown
// title leaves the state untouched and reports found=false.
func LoadChat(s State, title string) (State, []Effect, bool) {
	idx := model.FindChat(s.Chats, title)
	if idx < 0 {
		return s, nil, false
	}

	next := s.Clone()
	next.Title = next.Chats[idx].Title
	next.History = model.CloneHistory(next.Chats[idx].History)
	next.Epoch = newEpoch()

	return next, []Effect{
		setJSONEffect(storage.KeyChatHistory, model.CloneHistory(next.History)),
		setEffect(storage.KeyChatTitle, next.Title),
	}, true
}

// RenameChat retitles the first saved chat named oldTitle. A blank newTitle
// changes nothing. Renaming the active chat updates the active title too.
func RenameChat(s State, oldTitle, newTitle string) (State, []Effect, error) {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return s, nil, ErrEmptyTitle
	}
	if newTitle == model.DefaultTitle {
		return s, nil, ErrReservedTitle
	}

	idx := model.FindChat(s.Chats, oldTitle)
	if idx < 0 {
		return s, nil, ErrChatNotFound
	}
	if newTitle == oldTitle {
		return s, nil, nil
	}
	if model.FindChat(s.Chats, newTitle) >= 0 {
		return s, nil, ErrTitleTaken
	}

	next := s.Clone()
	next.Chats[idx].Title = newTitle
	effects := []Effect{setJSONEffect(storage.KeyChats, model.CloneChats(next.Chats))}

	if s.Title == oldTitle {
		next.Title = newTitle
		effects = append(effects, setEffect(storage.KeyChatTitle, newTitle))
	}
	return next, effects, nil
}

// StartNewChat resets the active chat to an empty "New Chat". Saved chats are
// not touched.
func StartNewChat(s State) (State, []Effect) {
	next := Empty(s.Chats)
	return next, []Effect{
		removeEffect(storage.KeyChatHistory),
		removeEffect(storage.KeyChatTitle),
	}
}

// ClearChats deletes every saved chat and resets the active chat.
func ClearChats(s State) (State, []Effect) {
	next := Empty(nil)
	return next, []Effect{
		setJSONEffect(storage.KeyChats, []model.Chat{}),
		removeEffect(storage.KeyChatHistory),
		removeEffect(storage.KeyChatTitle),
	}
}

// =============================================================================
// VIEW HELPERS
// =============================================================================

// ToggleExpanded flips the expanded flag of the message at index. It is view
// state and is saved with the next completed exchange.
func ToggleExpanded(s State, index int) State {
	if index < 0 || index >= len(s.History) {
		return s
	}
	next := s.Clone()
	next.History[index].IsExpanded = !next.History[index].IsExpanded
	return next
}

// Prompt is one user message of the active chat, for jump lists.
type Prompt struct {
	Index int
	Text  string
}

// UserPrompts lists the "You" messages of history in order with their
// position in the history.
func UserPrompts(history []model.Message) []Prompt {
	var prompts []Prompt
	for i, m := range history {
		if m.Speaker.IsUser() {
			prompts = append(prompts, Prompt{Index: i, Text: m.PlainText()})
		}
	}
	return prompts
}
