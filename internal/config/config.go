// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/jeranaias/kronos-tui/internal/util"
)

// Default endpoints. Overridable at build time with
// -ldflags "-X github.com/jeranaias/kronos-tui/internal/config.DefaultChatURL=..."
var (
	DefaultChatURL        = "https://kronosai-59ad0fce9738.herokuapp.com"
	DefaultSuggestionsURL = "https://kronosai-suggestions-d03c952fecd6.herokuapp.com"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete kronos configuration.
type Config struct {
	Gateway     GatewayConfig     `toml:"gateway"`
	Storage     StorageConfig     `toml:"storage"`
	UI          UIConfig          `toml:"ui"`
	Logging     LoggingConfig     `toml:"logging"`
	Suggestions SuggestionsConfig `toml:"suggestions"`
}

// GatewayConfig holds the remote service endpoints.
type GatewayConfig struct {
	ChatURL        string   `toml:"chat_url"`
	SuggestionsURL string   `toml:"suggestions_url"`
	Timeout        Duration `toml:"timeout"`
}

// StorageConfig selects where chats and settings are kept.
type StorageConfig struct {
	Backend string `toml:"backend"` // file, sqlite or memory
	DataDir string `toml:"data_dir"`
	Watch   bool   `toml:"watch"` // reload when another process changes the file store
}

// UIConfig contains user interface defaults. The values stored by the
// settings commands take precedence once they exist.
type UIConfig struct {
	DefaultTheme string `toml:"default_theme"`
	UserName     string `toml:"user_name"` // prefilled in the suggestion form
	AltScreen    bool   `toml:"alt_screen"`
}

// LoggingConfig controls the logrus logger.
type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"` // text or json
	Output     string `toml:"output"` // file, stderr or discard
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// SuggestionsConfig tunes the suggestion box client.
type SuggestionsConfig struct {
	PerMinute int      `toml:"per_minute"`
	CacheTTL  Duration `toml:"cache_ttl"`
}

// Duration is a time.Duration that reads and writes as "30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a configuration populated with built-in defaults.
func Default() *Config {
	dir, err := ConfigDir()
	if err != nil {
		dir = ".kronos"
	}
	return &Config{
		Gateway: GatewayConfig{
			ChatURL:        DefaultChatURL,
			SuggestionsURL: DefaultSuggestionsURL,
			Timeout:        Duration{60 * time.Second},
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			DataDir: dir,
			Watch:   true,
		},
		UI: UIConfig{
			DefaultTheme: "dark",
			AltScreen:    true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "file",
			File:       filepath.Join(dir, "logs", "kronos.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Suggestions: SuggestionsConfig{
			PerMinute: 5,
			CacheTTL:  Duration{time.Minute},
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the kronos configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "could not determine home directory")
	}
	return filepath.Join(home, ".kronos"), nil
}

// ConfigPath returns the path to the default TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the default config file if it exists. See LoadFromPath.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath builds a Config from defaults, the TOML file at path (a missing
// file is fine), .env and the environment, then validates it.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, errors.Wrapf(err, "failed to load config %s", path)
			}
		}
	}

	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// SetDefaults fills zero values left by a partial config file.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Gateway.ChatURL == "" {
		c.Gateway.ChatURL = d.Gateway.ChatURL
	}
	if c.Gateway.SuggestionsURL == "" {
		c.Gateway.SuggestionsURL = d.Gateway.SuggestionsURL
	}
	if c.Gateway.Timeout.Duration == 0 {
		c.Gateway.Timeout = d.Gateway.Timeout
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = d.Storage.DataDir
	}
	if c.UI.DefaultTheme == "" {
		c.UI.DefaultTheme = d.UI.DefaultTheme
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	if c.Logging.Output == "" {
		c.Logging.Output = d.Logging.Output
	}
	if c.Logging.File == "" {
		c.Logging.File = filepath.Join(c.Storage.DataDir, "logs", "kronos.log")
	}
	if c.Suggestions.CacheTTL.Duration == 0 {
		c.Suggestions.CacheTTL = d.Suggestions.CacheTTL
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to path as TOML with owner-only permissions.
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# kronos configuration file\n")
	buf.WriteString("# Values here are overridden by KRONOS_* environment variables.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// String renders the effective configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns ValidateErrors listing every
// problem found, or nil.
func (c *Config) Validate() error {
	var errs ValidateErrors

	for field, raw := range map[string]string{
		"gateway.chat_url":        c.Gateway.ChatURL,
		"gateway.suggestions_url": c.Gateway.SuggestionsURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("invalid URL '%s'", raw)})
		}
	}
	if c.Gateway.Timeout.Duration < 0 {
		errs = append(errs, ValidationError{Field: "gateway.timeout", Message: "cannot be negative"})
	}

	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: file, sqlite, memory", c.Storage.Backend),
		})
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: text, json", c.Logging.Format),
		})
	}
	switch strings.ToLower(c.Logging.Output) {
	case "file", "stderr", "discard":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("invalid output '%s', must be one of: file, stderr, discard", c.Logging.Output),
		})
	}

	if c.Suggestions.PerMinute < 0 {
		errs = append(errs, ValidationError{Field: "suggestions.per_minute", Message: "cannot be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - KRONOS_CHAT_URL: overrides gateway.chat_url
//   - KRONOS_SUGGESTIONS_URL: overrides gateway.suggestions_url
//   - KRONOS_TIMEOUT: overrides gateway.timeout ("30s")
//   - KRONOS_BACKEND: overrides storage.backend
//   - KRONOS_DATA_DIR: overrides storage.data_dir
//   - KRONOS_THEME: overrides ui.default_theme
//   - KRONOS_USER_NAME: overrides ui.user_name
//   - KRONOS_LOG_LEVEL: overrides logging.level
//   - KRONOS_LOG_OUTPUT: overrides logging.output
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("KRONOS_CHAT_URL"); v != "" {
		c.Gateway.ChatURL = v
	}
	if v := os.Getenv("KRONOS_SUGGESTIONS_URL"); v != "" {
		c.Gateway.SuggestionsURL = v
	}
	if v := os.Getenv("KRONOS_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Gateway.Timeout = Duration{d}
		} else if secs, err := strconv.Atoi(v); err == nil {
			c.Gateway.Timeout = Duration{time.Duration(secs) * time.Second}
		}
	}
	if v := os.Getenv("KRONOS_BACKEND"); v != "" {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("KRONOS_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("KRONOS_THEME"); v != "" {
		c.UI.DefaultTheme = v
	}
	if v := os.Getenv("KRONOS_USER_NAME"); v != "" {
		c.UI.UserName = v
	}
	if v := os.Getenv("KRONOS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("KRONOS_LOG_OUTPUT"); v != "" {
		c.Logging.Output = v
	}
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the process-wide configuration, loading it on first use.
// Load errors fall back to defaults with a warning on stderr.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
