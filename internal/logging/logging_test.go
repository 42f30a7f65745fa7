// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/kronos-tui/internal/config"
)

func TestNew_FileOutputJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "kronos.log")
	logger, closer, err := New(config.LoggingConfig{
		Level:     "debug",
		Format:    "json",
		Output:    "file",
		File:      path,
		MaxSizeMB: 1,
	})
	require.NoError(t, err)

	logger.WithField("key", "chats").Debug("store write")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "store write", entry["message"])
	assert.Equal(t, "chats", entry["key"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(config.LoggingConfig{Level: "loud", Output: "discard"})
	assert.Error(t, err)
}

func TestNew_Discard(t *testing.T) {
	logger, closer, err := New(config.LoggingConfig{Level: "warn", Output: "discard"})
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.NoError(t, closer.Close())
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))
	l := Discard()
	assert.Same(t, l, OrDiscard(l))
}
