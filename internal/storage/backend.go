// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"sort"
	"sync"
)

// =============================================================================
// BACKEND INTERFACE
// =============================================================================

// Backend is a flat string key/value store that survives restarts.
//
// Get reports found=false for a missing key. Implementations must be safe for
// concurrent use.
type Backend interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Keys() ([]string, error)
	Close() error
}

// =============================================================================
// MEMORY BACKEND
// =============================================================================

// MemoryBackend keeps everything in a map. Nothing survives the process.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]string)}
}

// Get implements Backend.
func (m *MemoryBackend) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements Backend.
func (m *MemoryBackend) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Remove implements Backend.
func (m *MemoryBackend) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys implements Backend.
func (m *MemoryBackend) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.data), nil
}

// Close implements Backend.
func (m *MemoryBackend) Close() error { return nil }

func sortedKeys(data map[string]string) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
