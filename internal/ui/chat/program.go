// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

// WatchFunc starts watching the store for outside changes and calls onChange
// after each one until ctx is done.
type WatchFunc func(ctx context.Context, onChange func()) error

// RunOptions controls the Bubble Tea program.
type RunOptions struct {
	AltScreen bool
	Watch     WatchFunc
}

// Run starts the chat screen and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts Options, run RunOptions) error {
	m := New(opts)
	defer m.Close()

	popts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithMouseCellMotion()}
	if run.AltScreen {
		popts = append(popts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, popts...)

	if run.Watch != nil {
		wctx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := run.Watch(wctx, func() { p.Send(StoreChangedMsg{}) }); err != nil {
			m.log.WithError(err).Warn("Store watch unavailable; outside changes will not show until restart")
		}
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "run chat screen")
	}
	return nil
}
