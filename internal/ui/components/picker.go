// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/kronos-tui/internal/ui/styles"
	"github.com/jeranaias/kronos-tui/internal/util"
)

// =============================================================================
// PICKER OVERLAY
// =============================================================================

// Picker is a titled single-choice list drawn as an overlay. It backs the
// prompt history jump list, the code block list and the theme menu.
type Picker struct {
	Title  string
	Hint   string
	Items  []string
	cursor int
}

// NewPicker creates a picker with the cursor on the first item.
func NewPicker(title, hint string, items []string) Picker {
	return Picker{Title: title, Hint: hint, Items: items}
}

// Cursor is the selected index, or -1 when the picker is empty.
func (p Picker) Cursor() int {
	if len(p.Items) == 0 {
		return -1
	}
	return p.cursor
}

// SetCursor moves the cursor, clamped to the items.
func (p *Picker) SetCursor(i int) {
	p.cursor = max(0, min(i, len(p.Items)-1))
}

// MoveUp moves the cursor up, wrapping.
func (p *Picker) MoveUp() {
	if n := len(p.Items); n > 0 {
		p.cursor = (p.cursor - 1 + n) % n
	}
}

// MoveDown moves the cursor down, wrapping.
func (p *Picker) MoveDown() {
	if n := len(p.Items); n > 0 {
		p.cursor = (p.cursor + 1) % n
	}
}

// View renders the overlay box for a screen of the given size.
func (p Picker) View(theme *styles.Theme, width, height int) string {
	inner := max(min(width-10, 72), 20)
	rows := max(height-10, 3)

	var b strings.Builder
	b.WriteString(theme.OverlayTitle.Render(p.Title))
	b.WriteString("\n")
	if len(p.Items) == 0 {
		b.WriteString(theme.Muted.Render("Nothing here yet"))
	}
	start := 0
	if p.cursor >= rows {
		start = p.cursor - rows + 1
	}
	for i := start; i < len(p.Items) && i < start+rows; i++ {
		line := util.TruncateWidth(p.Items[i], inner-2)
		if i == p.cursor {
			b.WriteString(theme.OverlayItemSelected.Render("› " + line))
		} else {
			b.WriteString(theme.OverlayItem.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if p.Hint != "" {
		b.WriteString(theme.OverlayHint.Render(p.Hint))
	}
	return theme.Overlay.Width(inner + 4).Render(strings.TrimRight(b.String(), "\n"))
}
