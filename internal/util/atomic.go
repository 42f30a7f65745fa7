// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// AtomicWriteFile writes data to path so that readers observe either the
// previous contents or the new contents, never a partial file.
//
// The data goes to a temp file in the target directory, is fsynced, given
// perm, and renamed over path. Missing parent directories are created 0700.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "resolve path")
	}

	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(err, "create parent directory")
	}

	// Same directory as the target so the rename stays on one filesystem.
	f, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(absPath)+"-")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tempPath := f.Name()

	success := false
	defer func() {
		if !success {
			f.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return errors.Wrap(err, "write temp file")
	}
	if err := f.Sync(); err != nil {
		return errors.Wrap(err, "sync temp file")
	}
	// Windows refuses to rename an open file.
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		return errors.Wrap(err, "chmod temp file")
	}
	if err := os.Rename(tempPath, absPath); err != nil {
		return errors.Wrap(err, "rename temp file")
	}

	success = true
	return nil
}

// MoveAside renames path to path+suffix, used to keep a copy of a file that
// could not be parsed before it is replaced. A missing file is not an error.
func MoveAside(path, suffix string) (string, error) {
	target := path + suffix
	if err := os.Rename(path, target); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, "move %s aside", filepath.Base(path))
	}
	return target, nil
}
