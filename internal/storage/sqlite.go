// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DBFileName is the database created under the data directory.
const DBFileName = "store.db"

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteBackend stores keys in a single SQLite table.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(err, "create data directory")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "failed to set %s", pragma)
		}
	}

	if _, err := db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create schema")
	}

	return &SQLiteBackend{db: db}, nil
}

// Get implements Backend.
func (s *SQLiteBackend) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "get %s", key)
	}
	return value, true, nil
}

// Set implements Backend.
func (s *SQLiteBackend) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix())
	return errors.Wrapf(err, "set %s", key)
}

// Remove implements Backend.
func (s *SQLiteBackend) Remove(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return errors.Wrapf(err, "remove %s", key)
}

// Keys implements Backend.
func (s *SQLiteBackend) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, errors.Wrap(err, "list keys")
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, errors.Wrap(err, "scan key")
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close implements Backend.
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}
