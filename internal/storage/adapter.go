// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/kronos-tui/internal/config"
	"github.com/jeranaias/kronos-tui/internal/logging"
)

// =============================================================================
// PERSISTED KEYS
// =============================================================================

const (
	KeyChats       = "chats"       // JSON array of saved chats
	KeyChatHistory = "chatHistory" // JSON array of the active chat's messages
	KeyChatTitle   = "chatTitle"   // raw string
	KeyTheme       = "theme"       // raw string
	KeyLineHeight  = "lineHeight"  // decimal string, e.g. "1.2"
	KeyFontSize    = "fontSize"    // integer string, e.g. "16"
)

// =============================================================================
// ERRORS
// =============================================================================

// CorruptionError reports a stored value that could not be parsed.
type CorruptionError struct {
	Key string
	Err error
}

// Error implements the error interface.
func (e *CorruptionError) Error() string {
	return fmt.Sprintf("stored value %q is corrupt: %v", e.Key, e.Err)
}

// Unwrap returns the parse error.
func (e *CorruptionError) Unwrap() error { return e.Err }

// =============================================================================
// ADAPTER
// =============================================================================

// Adapter is the typed front of a Backend. Reads never fail: a backend error
// is logged and treated as a missing key.
type Adapter struct {
	backend Backend
	log     logrus.FieldLogger
}

// NewAdapter wraps backend. A nil log discards output.
func NewAdapter(backend Backend, log logrus.FieldLogger) *Adapter {
	return &Adapter{backend: backend, log: logging.OrDiscard(log)}
}

// Open builds the backend selected by cfg and wraps it.
func Open(cfg config.StorageConfig, log logrus.FieldLogger) (*Adapter, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.Backend {
	case config.BackendMemory:
		backend = NewMemoryBackend()
	case config.BackendSQLite:
		backend, err = OpenSQLite(filepath.Join(cfg.DataDir, DBFileName))
	case config.BackendFile, "":
		backend, err = OpenFile(filepath.Join(cfg.DataDir, FileName), log)
	default:
		return nil, errors.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return NewAdapter(backend, log), nil
}

// Backend returns the wrapped backend.
func (a *Adapter) Backend() Backend { return a.backend }

// Close closes the backend.
func (a *Adapter) Close() error { return a.backend.Close() }

// Get returns the raw value stored under key.
func (a *Adapter) Get(key string) (string, bool) {
	v, ok, err := a.backend.Get(key)
	if err != nil {
		a.log.WithError(err).WithField("key", key).Warn("store read failed")
		return "", false
	}
	return v, ok
}

// Set stores value under key.
func (a *Adapter) Set(key, value string) error {
	if err := a.backend.Set(key, value); err != nil {
		return errors.Wrapf(err, "store %s", key)
	}
	a.log.WithField("key", key).Debug("store set")
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (a *Adapter) Remove(key string) error {
	if err := a.backend.Remove(key); err != nil {
		return errors.Wrapf(err, "remove %s", key)
	}
	a.log.WithField("key", key).Debug("store remove")
	return nil
}

// Keys lists stored keys, or nil if the backend cannot.
func (a *Adapter) Keys() []string {
	keys, err := a.backend.Keys()
	if err != nil {
		a.log.WithError(err).Warn("store list failed")
		return nil
	}
	return keys
}

// SetJSON stores v encoded as JSON.
func (a *Adapter) SetJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	return a.Set(key, string(raw))
}

// DecodeJSON parses the value under key into dst. It reports found=false for
// a missing key or a stored JSON null, and a *CorruptionError when the value
// does not parse.
func (a *Adapter) DecodeJSON(key string, dst any) (bool, error) {
	raw, ok := a.Get(key)
	if !ok || strings.TrimSpace(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, &CorruptionError{Key: key, Err: err}
	}
	return true, nil
}

// GetJSON returns the value under key decoded as T, or fallback when the key
// is missing, null or corrupt. Corruption is logged.
func GetJSON[T any](a *Adapter, key string, fallback T) T {
	var v T
	found, err := a.DecodeJSON(key, &v)
	if err != nil {
		a.log.WithError(err).WithField("key", key).Warn("ignoring corrupt stored value")
		return fallback
	}
	if !found {
		return fallback
	}
	return v
}
