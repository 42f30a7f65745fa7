// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/kronos-tui/internal/model"
)

// glamourStyles maps a kronos theme to a glamour standard style.
var glamourStyles = map[string]string{
	"dark":   "dark",
	"light":  "light",
	"blue":   "tokyo-night",
	"purple": "dracula",
	"black":  "dark",
}

// GlamourStyle returns the glamour style used for theme.
func GlamourStyle(theme string) string {
	if s, ok := glamourStyles[theme]; ok {
		return s
	}
	return "dark"
}

// Markdown renders assistant replies for the terminal. Renderers are built
// lazily per theme and width and reused.
type Markdown struct {
	mu        sync.Mutex
	renderers map[string]*glamour.TermRenderer
}

// NewMarkdown creates an empty renderer cache.
func NewMarkdown() *Markdown {
	return &Markdown{renderers: make(map[string]*glamour.TermRenderer)}
}

// Render formats content as markdown wrapped at width. The input is returned
// unchanged if rendering fails.
func (m *Markdown) Render(content, theme string, width int) string {
	r, err := m.renderer(theme, width)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

func (m *Markdown) renderer(theme string, width int) (*glamour.TermRenderer, error) {
	if width < 20 {
		width = 20
	}
	key := fmt.Sprintf("%s/%d", theme, width)

	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.renderers[key]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(GlamourStyle(theme)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	m.renderers[key] = r
	return r, nil
}

// MessageText returns what should be shown for a message before styling:
// user text with markers decoded, assistant text with HTML line breaks turned
// into newlines so markdown can lay it out.
func MessageText(msg model.Message) string {
	if msg.Speaker.IsUser() {
		return msg.PlainText()
	}
	return brReplacer.Replace(msg.Content)
}

var brReplacer = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n")

// Collapse shortens text to its first lines when a message is not expanded.
// It reports whether anything was hidden.
func Collapse(text string, lines int) (string, bool) {
	parts := strings.Split(text, "\n")
	if len(parts) <= lines {
		return text, false
	}
	return strings.Join(parts[:lines], "\n"), true
}
