// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/kronos-tui/internal/config"
	"github.com/jeranaias/kronos-tui/internal/gateway"
	"github.com/jeranaias/kronos-tui/internal/logging"
	"github.com/jeranaias/kronos-tui/internal/session"
	"github.com/jeranaias/kronos-tui/internal/settings"
	"github.com/jeranaias/kronos-tui/internal/storage"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Overrides are the command line values that win over the config file and
// the environment. Empty fields leave the loaded value alone.
type Overrides struct {
	ConfigPath string
	DataDir    string
	Backend    string
	LogLevel   string
}

// LoadConfig reads the config file named by o.ConfigPath (or the default
// path), applies the overrides and validates the result.
func LoadConfig(o Overrides) (*config.Config, error) {
	path := o.ConfigPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}

	changed := false
	if o.DataDir != "" {
		// The log file follows the data directory unless it was set explicitly.
		if cfg.Logging.File == config.Default().Logging.File {
			cfg.Logging.File = filepath.Join(o.DataDir, "logs", "kronos.log")
		}
		cfg.Storage.DataDir = o.DataDir
		changed = true
	}
	if o.Backend != "" {
		cfg.Storage.Backend = strings.ToLower(o.Backend)
		changed = true
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
		changed = true
	}
	if changed {
		if err := cfg.Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid command line override")
		}
	}

	config.SetGlobal(cfg)
	return cfg, nil
}

// =============================================================================
// APP
// =============================================================================

// App holds the components every front end shares: the store, the
// conversation manager, settings and both gateway clients.
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	Store       *storage.Adapter
	Manager     *session.Manager
	Settings    *settings.Store
	Chat        *gateway.ChatClient
	Suggestions *gateway.SuggestionClient

	logCloser io.Closer
}

// New wires the components for cfg. Close releases the store and the log
// file.
func New(cfg *config.Config) (*App, error) {
	log, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Storage, log)
	if err != nil {
		closer.Close()
		return nil, errors.Wrap(err, "open store")
	}

	timeout := cfg.Gateway.Timeout.Duration
	chatClient := gateway.NewChatClient(cfg.Gateway.ChatURL).
		WithTimeout(timeout).
		WithLogger(log)
	suggestions := gateway.NewSuggestionClient(cfg.Gateway.SuggestionsURL).
		WithTimeout(timeout).
		WithLogger(log).
		WithRateLimit(cfg.Suggestions.PerMinute).
		WithCacheTTL(cfg.Suggestions.CacheTTL.Duration)

	a := &App{
		Config:      cfg,
		Log:         log,
		Store:       store,
		Manager:     session.NewManager(store, chatClient, log),
		Settings:    settings.Load(store, cfg.UI.DefaultTheme, log),
		Chat:        chatClient,
		Suggestions: suggestions,
		logCloser:   closer,
	}

	log.WithFields(logrus.Fields{
		"backend":  cfg.Storage.Backend,
		"data_dir": cfg.Storage.DataDir,
		"chats":    len(a.Manager.State().Chats),
	}).Debug("Started")
	return a, nil
}

// Watch returns a function that reports outside changes to the store, or
// nil when the backend cannot be watched or watching is disabled.
func (a *App) Watch() func(ctx context.Context, onChange func()) error {
	if !a.Config.Storage.Watch {
		return nil
	}
	fb, ok := a.Store.Backend().(*storage.FileBackend)
	if !ok {
		return nil
	}
	return func(ctx context.Context, onChange func()) error {
		return fb.Watch(ctx, storage.DefaultDebounce, onChange)
	}
}

// Close releases the store and the log output.
func (a *App) Close() error {
	storeErr := a.Store.Close()
	logErr := a.logCloser.Close()
	if storeErr != nil {
		return errors.Wrap(storeErr, "close store")
	}
	return logErr
}
