// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists chats and settings as string keys that survive
// restarts.
//
// # Key Types
//
//   - Backend: string key/value store (FileBackend, SQLiteBackend, MemoryBackend)
//   - Adapter: logging, JSON-aware front of a Backend; reads never fail
//   - CorruptionError: a stored value that could not be parsed
//   - Snapshot: the conversation keys read together
//
// # Usage
//
//	store, err := storage.Open(cfg.Storage, logger)
//	chats := storage.GetJSON(store, storage.KeyChats, []model.Chat{})
//	err = store.SetJSON(storage.KeyChats, chats)
//
// # Storage Location
//
// The file backend writes ~/.kronos/store.json. The sqlite backend writes
// ~/.kronos/store.db. Both live under storage.data_dir.
package storage
