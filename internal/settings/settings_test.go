// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/kronos-tui/internal/model"
	"github.com/jeranaias/kronos-tui/internal/storage"
)

func newStore() *storage.Adapter {
	return storage.NewAdapter(storage.NewMemoryBackend(), nil)
}

func TestLoad_Defaults(t *testing.T) {
	s := Load(newStore(), "", nil).Current()
	assert.Equal(t, Settings{Theme: "dark", LineHeight: 1.2, FontSize: 16}, s)

	s = Load(newStore(), "purple", nil).Current()
	assert.Equal(t, "purple", s.Theme)
}

func TestRoundTrip(t *testing.T) {
	store := newStore()
	st := Load(store, "dark", nil)

	require.NoError(t, st.SetTheme("light"))
	require.NoError(t, st.SetLineHeight(1.5))
	require.NoError(t, st.SetFontSize(20))

	raw, _ := store.Get(storage.KeyLineHeight)
	assert.Equal(t, "1.5", raw)
	raw, _ = store.Get(storage.KeyFontSize)
	assert.Equal(t, "20", raw)

	reloaded := Load(store, "dark", nil).Current()
	assert.Equal(t, st.Current(), reloaded)
	assert.Equal(t, Settings{Theme: "light", LineHeight: 1.5, FontSize: 20}, reloaded)
}

func TestSetters_RejectOutOfRange(t *testing.T) {
	store := newStore()
	st := Load(store, "dark", nil)

	var verr *model.ValidationError
	assert.True(t, errors.As(st.SetTheme("neon"), &verr))
	assert.True(t, errors.As(st.SetLineHeight(2.5), &verr))
	assert.True(t, errors.As(st.SetLineHeight(0.9), &verr))
	assert.True(t, errors.As(st.SetFontSize(11), &verr))
	assert.True(t, errors.As(st.SetFontSize(25), &verr))

	assert.Empty(t, store.Keys(), "invalid values are not persisted")
	assert.Equal(t, Defaults("dark"), st.Current())
}

func TestSetters_Bounds(t *testing.T) {
	st := Load(newStore(), "dark", nil)
	assert.NoError(t, st.SetLineHeight(1))
	assert.NoError(t, st.SetLineHeight(2))
	assert.NoError(t, st.SetFontSize(12))
	assert.NoError(t, st.SetFontSize(24))
}

func TestLoad_BadStoredValuesFallBack(t *testing.T) {
	store := newStore()
	require.NoError(t, store.Set(storage.KeyTheme, "rainbow"))
	require.NoError(t, store.Set(storage.KeyLineHeight, "tall"))
	require.NoError(t, store.Set(storage.KeyFontSize, "99"))

	assert.Equal(t, Defaults("dark"), Load(store, "dark", nil).Current())
}

func TestLoad_LegacyThemeValues(t *testing.T) {
	store := newStore()
	require.NoError(t, store.Set(storage.KeyTheme, "purple-theme"))
	assert.Equal(t, "purple", Load(store, "dark", nil).Current().Theme)
}

func TestSteppers(t *testing.T) {
	st := Load(newStore(), "dark", nil)

	require.NoError(t, st.StepLineHeight(3))
	assert.InDelta(t, 1.5, st.Current().LineHeight, 1e-9)
	require.NoError(t, st.StepLineHeight(20))
	assert.Equal(t, 2.0, st.Current().LineHeight)

	require.NoError(t, st.StepFontSize(-10))
	assert.Equal(t, 12, st.Current().FontSize)

	require.NoError(t, st.CycleTheme())
	assert.Equal(t, "light", st.Current().Theme)
	for range Themes() {
		require.NoError(t, st.CycleTheme())
	}
	assert.Equal(t, "light", st.Current().Theme)
}

func TestThemeDisplayName(t *testing.T) {
	assert.Equal(t, "Purple", ThemeDisplayName("purple"))
}

func TestTerminalMapping(t *testing.T) {
	assert.Equal(t, 0, Settings{LineHeight: 1.2}.MessageSpacing())
	assert.Equal(t, 1, Settings{LineHeight: 1.5}.MessageSpacing())
	assert.Equal(t, 2, Settings{LineHeight: 2}.MessageSpacing())

	assert.Equal(t, 100, Settings{FontSize: 16}.WrapWidth(100))
	assert.Equal(t, 66, Settings{FontSize: 24}.WrapWidth(100))
	assert.Equal(t, 100, Settings{FontSize: 12}.WrapWidth(100), "never wider than the terminal")
	assert.Equal(t, 20, Settings{FontSize: 24}.WrapWidth(25))
}
