// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/kronos-tui/internal/gateway"
	"github.com/jeranaias/kronos-tui/internal/logging"
	"github.com/jeranaias/kronos-tui/internal/model"
	"github.com/jeranaias/kronos-tui/internal/storage"
)

// Sender delivers one user message to the assistant service.
type Sender interface {
	Send(ctx context.Context, input string, history []model.Message, title string) (gateway.Reply, error)
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the live State, runs transitions against it and writes their
// effects to the store.
//
// State changes even when a store write fails; the error is returned and
// logged so the caller can report it.
type Manager struct {
	mu sync.Mutex

	state    State
	inFlight int
	lastErr  error

	store  *storage.Adapter
	sender Sender
	log    logrus.FieldLogger
}

// NewManager loads the persisted state from store. sender may be nil for
// callers that never send (listing and editing saved chats).
func NewManager(store *storage.Adapter, sender Sender, log logrus.FieldLogger) *Manager {
	return &Manager{
		state:  LoadInitialState(store),
		store:  store,
		sender: sender,
		log:    logging.OrDiscard(log).WithField("component", "session"),
	}
}

// State returns a copy of the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// InFlight returns how many sent messages are still waiting for a reply.
func (m *Manager) InFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight
}

// LastError returns the most recent send failure, cleared by the next
// successful reply or a new session.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// commit installs next and writes effects. Caller holds m.mu.
func (m *Manager) commit(next State, effects []Effect) error {
	m.state = next
	if err := Apply(m.store, effects); err != nil {
		m.log.WithError(err).Error("failed to persist conversation state")
		return err
	}
	return nil
}

// =============================================================================
// SENDING
// =============================================================================

// BeginSend appends text optimistically and returns the pending exchange to
// pass to Send. Empty input returns ErrEmptyMessage and changes nothing.
func (m *Manager) BeginSend(text string) (Pending, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, pending, err := BeginSend(m.state, text)
	if err != nil {
		return Pending{}, err
	}
	m.state = next
	m.inFlight++
	return pending, nil
}

// Send performs the network exchange for p. It does not touch the state and
// may run on any goroutine.
func (m *Manager) Send(ctx context.Context, p Pending) (gateway.Reply, error) {
	if m.sender == nil {
		return gateway.Reply{}, errors.New("no chat gateway configured")
	}
	return m.sender.Send(ctx, p.Input, p.History, p.Title)
}

// CompleteSend applies a reply for p. Stale replies are dropped and reported
// as ErrStaleCompletion.
func (m *Manager) CompleteSend(p Pending, reply gateway.Reply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settleLocked()

	next, effects, err := CompleteSend(m.state, p, reply)
	if errors.Is(err, ErrStaleCompletion) {
		m.log.WithField("title", p.Title).Info("discarding reply for inactive session")
		return err
	}
	m.lastErr = nil
	return m.commit(next, effects)
}

// FailSend records a failed exchange. The optimistic message stays.
func (m *Manager) FailSend(p Pending, cause error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settleLocked()

	m.log.WithError(cause).WithField("title", p.Title).Warn("send failed")
	m.state = FailSend(m.state, p, cause)
	if p.Epoch == m.state.Epoch {
		m.lastErr = cause
	}
}

func (m *Manager) settleLocked() {
	if m.inFlight > 0 {
		m.inFlight--
	}
}

// SendUserMessage runs a whole exchange synchronously: append, send, apply.
func (m *Manager) SendUserMessage(ctx context.Context, text string) error {
	p, err := m.BeginSend(text)
	if err != nil {
		return err
	}
	reply, err := m.Send(ctx, p)
	if err != nil {
		m.FailSend(p, err)
		return err
	}
	return m.CompleteSend(p, reply)
}

// =============================================================================
// SAVED CHATS
// =============================================================================

// DeleteChat removes a saved chat.
func (m *Manager) DeleteChat(title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, effects, err := DeleteChat(m.state, title)
	if err != nil {
		return err
	}
	if next.Epoch != m.state.Epoch {
		m.lastErr = nil
	}
	return m.commit(next, effects)
}

// LoadChat activates a saved chat. An unknown title is a no-op and returns
// false.
func (m *Manager) LoadChat(title string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, effects, found := LoadChat(m.state, title)
	if !found {
		return false, nil
	}
	m.lastErr = nil
	return true, m.commit(next, effects)
}

// RenameChat retitles a saved chat.
func (m *Manager) RenameChat(oldTitle, newTitle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, effects, err := RenameChat(m.state, oldTitle, newTitle)
	if err != nil {
		return err
	}
	return m.commit(next, effects)
}

// StartNewChat resets the active chat.
func (m *Manager) StartNewChat() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, effects := StartNewChat(m.state)
	m.lastErr = nil
	return m.commit(next, effects)
}

// ClearChats deletes all saved chats and resets the active chat.
func (m *Manager) ClearChats() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, effects := ClearChats(m.state)
	m.lastErr = nil
	return m.commit(next, effects)
}

// ToggleExpanded flips the expanded flag of one message.
func (m *Manager) ToggleExpanded(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = ToggleExpanded(m.state, index)
}

// Reload re-reads the store after another process changed it. The epoch is
// kept when the active chat is the same, so pending replies still apply.
func (m *Manager) Reload() {
	m.mu.Lock()
	defer m.mu.Unlock()

	fresh := LoadInitialState(m.store)
	if fresh.Title == m.state.Title {
		fresh.Epoch = m.state.Epoch
		// Keep optimistic messages that are not persisted yet.
		if m.inFlight > 0 && len(m.state.History) > len(fresh.History) {
			fresh.History = model.CloneHistory(m.state.History)
		}
	}
	m.state = fresh
}
