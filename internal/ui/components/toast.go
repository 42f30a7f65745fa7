// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/kronos-tui/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	ToastKindStatus ToastKind = iota
	ToastKindError
	ToastKindSuccess
)

// DefaultToastDuration is how long status and success toasts stay up.
const DefaultToastDuration = 4 * time.Second

// ErrorToastDuration is longer so failures can be read.
const ErrorToastDuration = 8 * time.Second

// maxToasts caps the visible stack.
const maxToasts = 3

// Toast is a non-blocking notification that dismisses itself.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the toast should be removed at now.
func (t Toast) IsExpired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager holds the active toasts, newest first. It is owned by the
// Bubble Tea update loop and is not safe for concurrent use.
type ToastManager struct {
	toasts []Toast
	nextID int
	now    func() time.Time
}

// NewToastManager creates an empty toast manager.
func NewToastManager() *ToastManager {
	return &ToastManager{nextID: 1, now: time.Now}
}

func (m *ToastManager) add(kind ToastKind, message string, d time.Duration) int {
	t := Toast{ID: m.nextID, Message: message, Kind: kind, CreatedAt: m.now(), Duration: d}
	m.nextID++
	m.toasts = append([]Toast{t}, m.toasts...)
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[:maxToasts]
	}
	return t.ID
}

// AddError adds an error toast.
func (m *ToastManager) AddError(message string) int {
	return m.add(ToastKindError, message, ErrorToastDuration)
}

// AddStatus adds an informational toast.
func (m *ToastManager) AddStatus(message string) int {
	return m.add(ToastKindStatus, message, DefaultToastDuration)
}

// AddSuccess adds a success toast.
func (m *ToastManager) AddSuccess(message string) int {
	return m.add(ToastKindSuccess, message, DefaultToastDuration)
}

// Tick drops expired toasts and reports whether any remain.
func (m *ToastManager) Tick() bool {
	now := m.now()
	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpired(now) {
			active = append(active, t)
		}
	}
	m.toasts = active
	return len(m.toasts) > 0
}

// Toasts returns a copy of the active toasts.
func (m *ToastManager) Toasts() []Toast {
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// Dismiss removes the newest toast.
func (m *ToastManager) Dismiss() {
	if len(m.toasts) > 0 {
		m.toasts = m.toasts[1:]
	}
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg is sent periodically while toasts are visible.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd ticks toasts every 250ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderToast renders a single toast no wider than width.
func RenderToast(theme *styles.Theme, t Toast, width int) string {
	maxWidth := 60
	if width > 0 && width-4 < maxWidth {
		maxWidth = max(width-4, 20)
	}

	style, icon := theme.ToastInfo, styles.StatusIndicators.Info
	switch t.Kind {
	case ToastKindError:
		style, icon = theme.ToastError, styles.StatusIndicators.Error
	case ToastKindSuccess:
		icon = styles.StatusIndicators.Success
	}
	return style.Width(maxWidth - 4).Render(icon + " " + t.Message)
}

// RenderToastStack renders toasts stacked vertically, right aligned.
func RenderToastStack(theme *styles.Theme, toasts []Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, RenderToast(theme, t, width))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)
	if width <= 0 {
		return stack
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
}
