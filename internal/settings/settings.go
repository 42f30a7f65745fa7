// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package settings holds the display preferences: theme, line height and
// font size. Values are validated on change and persisted immediately.
package settings

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeranaias/kronos-tui/internal/logging"
	"github.com/jeranaias/kronos-tui/internal/model"
	"github.com/jeranaias/kronos-tui/internal/storage"
)

// =============================================================================
// RANGES AND DEFAULTS
// =============================================================================

const (
	DefaultTheme      = "dark"
	DefaultLineHeight = 1.2
	DefaultFontSize   = 16

	MinLineHeight  = 1.0
	MaxLineHeight  = 2.0
	LineHeightStep = 0.1

	MinFontSize = 12
	MaxFontSize = 24
)

// themes in menu order.
var themes = []string{"dark", "light", "blue", "purple", "black"}

// Themes returns the valid theme names.
func Themes() []string {
	return append([]string(nil), themes...)
}

// ThemeDisplayName returns a capitalised label for a theme name.
func ThemeDisplayName(name string) string {
	return cases.Title(language.English).String(name)
}

// NormalizeTheme maps stored spellings such as "Dark" or "dark-theme" to the
// theme name and reports whether the result is a known theme.
func NormalizeTheme(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, "-theme")
	for _, t := range themes {
		if t == name {
			return t, true
		}
	}
	return name, false
}

// =============================================================================
// SETTINGS
// =============================================================================

// Settings is a snapshot of the display preferences.
type Settings struct {
	Theme      string
	LineHeight float64
	FontSize   int
}

// Defaults returns the built-in settings with the given default theme. An
// unknown theme falls back to "dark".
func Defaults(theme string) Settings {
	t, ok := NormalizeTheme(theme)
	if !ok {
		t = DefaultTheme
	}
	return Settings{Theme: t, LineHeight: DefaultLineHeight, FontSize: DefaultFontSize}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidateTheme returns the normalised theme or a *model.ValidationError.
func ValidateTheme(name string) (string, error) {
	t, ok := NormalizeTheme(name)
	if !ok {
		return "", model.Invalid("theme", "unknown theme %q, must be one of: %s", name, strings.Join(themes, ", "))
	}
	return t, nil
}

// ValidateLineHeight rejects values outside [1, 2].
func ValidateLineHeight(v float64) error {
	if math.IsNaN(v) || v < MinLineHeight || v > MaxLineHeight {
		return model.Invalid("lineHeight", "%v is out of range %.0f-%.0f", v, MinLineHeight, MaxLineHeight)
	}
	return nil
}

// ValidateFontSize rejects values outside [12, 24].
func ValidateFontSize(v int) error {
	if v < MinFontSize || v > MaxFontSize {
		return model.Invalid("fontSize", "%d is out of range %d-%d", v, MinFontSize, MaxFontSize)
	}
	return nil
}

// =============================================================================
// STORE
// =============================================================================

// Store reads and writes settings through the storage adapter.
type Store struct {
	mu      sync.Mutex
	store   *storage.Adapter
	current Settings
	log     logrus.FieldLogger
}

// Load reads the three settings keys. Missing, unparseable or out-of-range
// values are replaced by defaults; anything other than a missing key is
// logged.
func Load(store *storage.Adapter, defaultTheme string, log logrus.FieldLogger) *Store {
	s := &Store{store: store, log: logging.OrDiscard(log).WithField("component", "settings")}
	s.current = s.read(defaultTheme)
	return s
}

func (s *Store) read(defaultTheme string) Settings {
	out := Defaults(defaultTheme)

	if raw, ok := s.store.Get(storage.KeyTheme); ok {
		if t, err := ValidateTheme(raw); err == nil {
			out.Theme = t
		} else {
			s.log.WithField("value", raw).Warn("ignoring stored theme")
		}
	}

	if raw, ok := s.store.Get(storage.KeyLineHeight); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err == nil {
			err = ValidateLineHeight(v)
		}
		if err == nil {
			out.LineHeight = v
		} else {
			s.log.WithError(err).WithField("value", raw).Warn("ignoring stored line height")
		}
	}

	if raw, ok := s.store.Get(storage.KeyFontSize); ok {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err == nil {
			err = ValidateFontSize(v)
		}
		if err == nil {
			out.FontSize = v
		} else {
			s.log.WithError(err).WithField("value", raw).Warn("ignoring stored font size")
		}
	}

	return out
}

// Current returns the settings in effect.
func (s *Store) Current() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetTheme validates and persists a theme.
func (s *Store) SetTheme(name string) error {
	t, err := ValidateTheme(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(storage.KeyTheme, t); err != nil {
		return err
	}
	s.current.Theme = t
	return nil
}

// SetLineHeight validates and persists a line height. Values are kept to one
// decimal place, the granularity of the control.
func (s *Store) SetLineHeight(v float64) error {
	if err := ValidateLineHeight(v); err != nil {
		return err
	}
	v = math.Round(v*10) / 10
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(storage.KeyLineHeight, strconv.FormatFloat(v, 'f', -1, 64)); err != nil {
		return err
	}
	s.current.LineHeight = v
	return nil
}

// SetFontSize validates and persists a font size.
func (s *Store) SetFontSize(v int) error {
	if err := ValidateFontSize(v); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(storage.KeyFontSize, strconv.Itoa(v)); err != nil {
		return err
	}
	s.current.FontSize = v
	return nil
}

// StepLineHeight moves the line height by delta steps, clamped to range.
func (s *Store) StepLineHeight(delta int) error {
	v := s.Current().LineHeight + float64(delta)*LineHeightStep
	v = math.Max(MinLineHeight, math.Min(MaxLineHeight, math.Round(v*10)/10))
	return s.SetLineHeight(v)
}

// StepFontSize moves the font size by delta, clamped to range.
func (s *Store) StepFontSize(delta int) error {
	v := s.Current().FontSize + delta
	v = max(MinFontSize, min(MaxFontSize, v))
	return s.SetFontSize(v)
}

// CycleTheme switches to the next theme in menu order.
func (s *Store) CycleTheme() error {
	cur := s.Current().Theme
	for i, t := range themes {
		if t == cur {
			return s.SetTheme(themes[(i+1)%len(themes)])
		}
	}
	return s.SetTheme(themes[0])
}

// =============================================================================
// TERMINAL MAPPING
// =============================================================================

// MessageSpacing is the number of blank lines between messages for a line
// height: 1.0 gives none, 2.0 gives two.
func (st Settings) MessageSpacing() int {
	return int(math.Round((st.LineHeight - 1) * 2))
}

// WrapWidth scales a terminal width by font size relative to the 16px
// default: larger fonts wrap earlier. The result is at least 20 columns and
// never wider than width.
func (st Settings) WrapWidth(width int) int {
	if st.FontSize <= 0 {
		return width
	}
	w := width * DefaultFontSize / st.FontSize
	w = min(w, width)
	return max(w, min(20, width))
}
