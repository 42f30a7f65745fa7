// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/kronos-tui/internal/gateway"
	"github.com/jeranaias/kronos-tui/internal/logging"
	"github.com/jeranaias/kronos-tui/internal/render"
	"github.com/jeranaias/kronos-tui/internal/session"
	"github.com/jeranaias/kronos-tui/internal/settings"
	"github.com/jeranaias/kronos-tui/internal/ui/components"
	"github.com/jeranaias/kronos-tui/internal/ui/styles"
)

// =============================================================================
// FOCUS AND OVERLAYS
// =============================================================================

type focus int

const (
	focusInput focus = iota
	focusSidebar
)

type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlaySettings
	overlaySuggest
	overlaySuggestions
	overlayPrompts
	overlayCode
	overlayRename
	overlayConfirm
)

type settingsRow int

const (
	rowLineHeight settingsRow = iota
	rowFontSize
	rowTheme
	rowSuggest
	rowViewSuggestions
	rowClose
	settingsRowCount
)

// collapsedLines is how many lines of a long user message stay visible
// until it is expanded.
const collapsedLines = 3

const (
	inputHeight         = 3
	expandedInputHeight = 10
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Options configures a chat Model.
type Options struct {
	Manager     *session.Manager
	Settings    *settings.Store
	Suggestions SuggestionService
	Markdown    *render.Markdown
	Logger      logrus.FieldLogger
	// UserName pre-fills the suggestion form.
	UserName string
	Version  string
}

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	mgr         *session.Manager
	settings    *settings.Store
	suggestions SuggestionService
	md          *render.Markdown
	log         logrus.FieldLogger
	version     string

	theme  *styles.Theme
	keys   KeyMap
	width  int
	height int
	ready  bool

	viewport      viewport.Model
	input         textarea.Model
	inputExpanded bool
	spinner       spinner.Model
	list          components.ChatList
	toasts        *components.ToastManager
	toastTicking  bool
	focus         focus

	// Line offset of each message in the rendered viewport content.
	offsets []int

	overlay     overlay
	picker      components.Picker
	prompts     []session.Prompt
	codeBlocks  []render.CodeBlock
	settingsRow settingsRow

	renameFrom  string
	renameInput textinput.Model

	confirmText   string
	confirmAction func() error

	sugName     textinput.Model
	sugText     textinput.Model
	sugField    int
	sugErr      string
	sugLoading  bool
	suggestList []gateway.Suggestion
}

// New creates the chat model.
func New(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.ShowLineNumbers = false
	ta.Prompt = "┃ "
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	keys := DefaultKeyMap()
	ta.KeyMap.InsertNewline = keys.NewLine
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	rename := textinput.New()
	rename.Placeholder = "new title"
	rename.CharLimit = 120

	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 80
	name.SetValue(opts.UserName)
	text := textinput.New()
	text.Placeholder = "Your suggestion"
	text.CharLimit = 1000

	md := opts.Markdown
	if md == nil {
		md = render.NewMarkdown()
	}

	m := Model{
		ctx:         ctx,
		cancel:      cancel,
		mgr:         opts.Manager,
		settings:    opts.Settings,
		suggestions: opts.Suggestions,
		md:          md,
		log:         logging.OrDiscard(opts.Logger),
		version:     opts.Version,
		theme:       styles.NewTheme(opts.Settings.Current().Theme),
		keys:        keys,
		viewport:    viewport.New(0, 0),
		input:       ta,
		spinner:     sp,
		list:        components.NewChatList(),
		toasts:      components.NewToastManager(),
		renameInput: rename,
		sugName:     name,
		sugText:     text,
	}
	m.syncList()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Close cancels requests still in flight.
func (m Model) Close() {
	m.cancel()
}

// =============================================================================
// STATE HELPERS
// =============================================================================

func (m *Model) loading() bool {
	return m.mgr.InFlight() > 0
}

func (m *Model) syncList() {
	st := m.mgr.State()
	m.list.SetChats(st.Chats, st.Title)
}

func (m *Model) applyTheme() {
	w, h := m.theme.Width, m.theme.Height
	m.theme = styles.NewTheme(m.settings.Current().Theme)
	m.theme.SetSize(w, h)
}

func (m *Model) toastCmd() tea.Cmd {
	if m.toastTicking {
		return nil
	}
	m.toastTicking = true
	return components.ToastTickCmd()
}

func (m *Model) showError(err error) tea.Cmd {
	m.toasts.AddError(errorText(err))
	return m.toastCmd()
}

func (m *Model) showStatus(msg string) tea.Cmd {
	m.toasts.AddSuccess(msg)
	return m.toastCmd()
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	if f == focusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}
