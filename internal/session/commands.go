// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/jeranaias/kronos-tui/internal/gateway"
)

// ReplyMsg carries the outcome of a SendCmd back into the Bubble Tea update
// loop. Exactly one of Reply and Err is meaningful.
type ReplyMsg struct {
	Pending Pending
	Reply   gateway.Reply
	Err     error
}

// SendCmd runs the network exchange for p off the update loop.
func (m *Manager) SendCmd(ctx context.Context, p Pending) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.Send(ctx, p)
		return ReplyMsg{Pending: p, Reply: reply, Err: err}
	}
}

// Handle applies a ReplyMsg to the manager and returns the error, if any,
// that should be shown. Stale replies are not errors for the user.
func (m *Manager) Handle(msg ReplyMsg) error {
	if msg.Err != nil {
		m.FailSend(msg.Pending, msg.Err)
		return msg.Err
	}
	if err := m.CompleteSend(msg.Pending, msg.Reply); err != nil && !errors.Is(err, ErrStaleCompletion) {
		return err
	}
	return nil
}
