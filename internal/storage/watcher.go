// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// DefaultDebounce groups the burst of events an atomic rename produces.
const DefaultDebounce = 200 * time.Millisecond

// Watch reports changes made to the store file by other processes. After
// each quiet period of debounce following a change, the file is reloaded and
// onChange is called if the contents differ from what this backend last saw.
// Writes made through this backend are not reported.
//
// Watch returns once the watcher is running; it stops when ctx is done.
func (b *FileBackend) Watch(ctx context.Context, debounce time.Duration, onChange func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create file watcher")
	}
	// The file is replaced by rename, so watch the directory.
	if err := w.Add(filepath.Dir(b.path)); err != nil {
		w.Close()
		return errors.Wrapf(err, "watch %s", filepath.Dir(b.path))
	}

	go b.watchLoop(ctx, w, debounce, onChange)
	return nil
}

func (b *FileBackend) watchLoop(ctx context.Context, w *fsnotify.Watcher, debounce time.Duration, onChange func()) {
	defer w.Close()

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != b.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			timer.Reset(debounce)

		case <-timer.C:
			changed, err := b.Reload()
			if err != nil {
				b.log.WithError(err).Warn("store reload failed")
				continue
			}
			if changed {
				b.log.Debug("store changed on disk")
				onChange()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			b.log.WithError(err).Warn("file watcher error")
		}
	}
}
