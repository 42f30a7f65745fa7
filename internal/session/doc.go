// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages conversation state: the active chat, its history
// and the collection of saved chats.
//
// Transitions are plain functions over a State value. Each returns the next
// State plus the store writes (Effects) that mirror it, so they can be tested
// without a store. Manager holds the live State, serialises access and applies
// the effects.
//
// # Sending
//
// A send is split in three so the network call can run off the UI loop:
//
//	p, err := mgr.BeginSend(text)       // optimistic "You" message
//	reply, err := mgr.Send(ctx, p)      // network, any goroutine
//	err = mgr.CompleteSend(p, reply)    // or mgr.FailSend(p, err)
//
// Each Pending carries the epoch of the session it was sent from. A reply that
// arrives after the user switched chats is discarded with ErrStaleCompletion.
//
// # Key Types
//
//   - State: active title, history, saved chats, epoch
//   - Effect: one store write (set, set JSON, remove)
//   - Manager: live state plus store and gateway
//   - ReplyMsg: Bubble Tea message produced by SendCmd
package session
