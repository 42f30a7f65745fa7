// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app assembles kronos from its configuration: logger, store,
// conversation manager, settings and the two gateway clients.
//
// The TUI, the chat REPL and the one-shot commands all start from an App so
// they share the same persisted state and behave identically.
//
//	cfg, err := app.LoadConfig(app.Overrides{DataDir: dir})
//	a, err := app.New(cfg)
//	defer a.Close()
package app
