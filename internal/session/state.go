// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jeranaias/kronos-tui/internal/model"
	"github.com/jeranaias/kronos-tui/internal/storage"
)

// =============================================================================
// STATE
// =============================================================================

// State is the conversation state the rendering layer draws from: the active
// chat and the saved collection.
//
// Epoch identifies the active session. It changes whenever the active chat is
// replaced (new, loaded, or deleted) so replies to messages sent from an
// earlier session can be recognised and dropped. It is never persisted.
type State struct {
	Title   string
	History []model.Message
	Chats   []model.Chat
	Epoch   string
}

// Clone returns a deep copy.
func (s State) Clone() State {
	return State{
		Title:   s.Title,
		History: model.CloneHistory(s.History),
		Chats:   model.CloneChats(s.Chats),
		Epoch:   s.Epoch,
	}
}

// IsUntitled reports whether the active chat has not been named yet.
func (s State) IsUntitled() bool {
	return s.Title == model.DefaultTitle
}

// ActiveIndex returns the position of the active chat in the saved
// collection, or -1 if it has not been saved.
func (s State) ActiveIndex() int {
	if s.IsUntitled() {
		return -1
	}
	return model.FindChat(s.Chats, s.Title)
}

// Empty returns a fresh "New Chat" state with the given collection.
func Empty(chats []model.Chat) State {
	return State{
		Title:   model.DefaultTitle,
		History: []model.Message{},
		Chats:   model.CloneChats(chats),
		Epoch:   newEpoch(),
	}
}

func newEpoch() string {
	return uuid.NewString()
}

// =============================================================================
// EFFECTS
// =============================================================================

// Op is a kind of store write.
type Op int

const (
	OpSet     Op = iota // store Value (a string) verbatim
	OpSetJSON           // store Value encoded as JSON
	OpRemove            // delete the key
)

// Effect is one store write produced by a transition.
type Effect struct {
	Op    Op
	Key   string
	Value any
}

func setEffect(key, value string) Effect {
	return Effect{Op: OpSet, Key: key, Value: value}
}

func setJSONEffect(key string, value any) Effect {
	return Effect{Op: OpSetJSON, Key: key, Value: value}
}

func removeEffect(key string) Effect {
	return Effect{Op: OpRemove, Key: key}
}

// Apply performs effects in order. Every effect is attempted; the first
// failure is returned.
func Apply(store *storage.Adapter, effects []Effect) error {
	var first error
	for _, e := range effects {
		var err error
		switch e.Op {
		case OpSet:
			s, _ := e.Value.(string)
			err = store.Set(e.Key, s)
		case OpSetJSON:
			err = store.SetJSON(e.Key, e.Value)
		case OpRemove:
			err = store.Remove(e.Key)
		default:
			err = errors.Errorf("unknown store operation %d", e.Op)
		}
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}
