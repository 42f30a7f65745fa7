// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/kronos-tui/internal/logging"
	"github.com/jeranaias/kronos-tui/internal/util"
)

// FileName is the store file created under the data directory.
const FileName = "store.json"

// FileBackend keeps all keys in one JSON object on disk. Every mutation
// rewrites the file atomically.
type FileBackend struct {
	path string
	log  logrus.FieldLogger

	mu          sync.RWMutex
	data        map[string]string
	lastWritten []byte
}

// OpenFile opens or creates the store file at path.
//
// A file that cannot be parsed is renamed to "<path>.corrupt-<timestamp>" and
// the store starts empty. This is logged, never returned as an error.
func OpenFile(path string, log logrus.FieldLogger) (*FileBackend, error) {
	b := &FileBackend{
		path: filepath.Clean(path),
		log:  logging.OrDiscard(log),
		data: make(map[string]string),
	}

	raw, err := os.ReadFile(b.path)
	switch {
	case os.IsNotExist(err):
		return b, nil
	case err != nil:
		return nil, errors.Wrapf(err, "read %s", b.path)
	}

	data, err := decodeStoreFile(raw)
	if err != nil {
		moved, mvErr := util.MoveAside(b.path, ".corrupt-"+time.Now().Format("20060102-150405"))
		b.log.WithError(&CorruptionError{Key: FileName, Err: err}).
			WithField("backup", moved).
			Warn("store file unreadable, starting empty")
		if mvErr != nil {
			return nil, mvErr
		}
		return b, nil
	}

	b.data = data
	b.lastWritten = raw
	return b, nil
}

// Path returns the store file location.
func (b *FileBackend) Path() string { return b.path }

// Get implements Backend.
func (b *FileBackend) Get(key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	return v, ok, nil
}

// Set implements Backend. The in-memory value is rolled back if the file
// cannot be written.
func (b *FileBackend) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, had := b.data[key]
	b.data[key] = value
	if err := b.flushLocked(); err != nil {
		if had {
			b.data[key] = prev
		} else {
			delete(b.data, key)
		}
		return err
	}
	return nil
}

// Remove implements Backend.
func (b *FileBackend) Remove(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, had := b.data[key]
	if !had {
		return nil
	}
	delete(b.data, key)
	if err := b.flushLocked(); err != nil {
		b.data[key] = prev
		return err
	}
	return nil
}

// Keys implements Backend.
func (b *FileBackend) Keys() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return sortedKeys(b.data), nil
}

// Close implements Backend.
func (b *FileBackend) Close() error { return nil }

// Reload re-reads the file and reports whether its contents differ from what
// this process last wrote or read. An unreadable file leaves the in-memory
// data untouched.
//
// The file is read under the write lock so a Set from this process cannot
// land between the read and the swap.
func (b *FileBackend) Reload() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	raw, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		raw = nil
	} else if err != nil {
		return false, errors.Wrapf(err, "read %s", b.path)
	}

	if bytes.Equal(raw, b.lastWritten) {
		return false, nil
	}

	data := make(map[string]string)
	if len(raw) > 0 {
		data, err = decodeStoreFile(raw)
		if err != nil {
			return false, &CorruptionError{Key: FileName, Err: err}
		}
	}
	b.data = data
	b.lastWritten = raw
	return true, nil
}

func (b *FileBackend) flushLocked() error {
	raw, err := json.MarshalIndent(b.data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode store")
	}
	if err := util.AtomicWriteFile(b.path, raw, 0600); err != nil {
		return errors.Wrapf(err, "write %s", b.path)
	}
	b.lastWritten = raw
	return nil
}

func decodeStoreFile(raw []byte) (map[string]string, error) {
	data := make(map[string]string)
	if len(bytes.TrimSpace(raw)) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	if data == nil {
		data = make(map[string]string)
	}
	return data, nil
}
