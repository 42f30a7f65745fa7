// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/kronos-tui/internal/gateway"
	"github.com/jeranaias/kronos-tui/internal/model"
	"github.com/jeranaias/kronos-tui/internal/session"
	"github.com/jeranaias/kronos-tui/internal/settings"
	"github.com/jeranaias/kronos-tui/internal/storage"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type stubSender struct {
	reply gateway.Reply
	err   error
}

func (s *stubSender) Send(context.Context, string, []model.Message, string) (gateway.Reply, error) {
	return s.reply, s.err
}

type stubSuggestions struct {
	mu        sync.Mutex
	submitted []gateway.Suggestion
	items     []gateway.Suggestion
	err       error
}

func (s *stubSuggestions) Submit(_ context.Context, name, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.submitted = append(s.submitted, gateway.Suggestion{UserName: name, Suggestion: text})
	return nil
}

func (s *stubSuggestions) FetchAll(context.Context) ([]gateway.Suggestion, error) {
	return s.items, s.err
}

type fixture struct {
	store  *storage.Adapter
	sender *stubSender
	sugg   *stubSuggestions
}

func newFixture(t *testing.T, chats ...model.Chat) (*fixture, Model) {
	t.Helper()
	store := storage.NewAdapter(storage.NewMemoryBackend(), nil)
	if len(chats) > 0 {
		require.NoError(t, store.SetJSON(storage.KeyChats, chats))
	}
	f := &fixture{
		store:  store,
		sender: &stubSender{reply: gateway.Reply{Text: "Hi there", SuggestedTitle: "Greetings"}},
		sugg:   &stubSuggestions{},
	}
	m := New(Options{
		Manager:     session.NewManager(store, f.sender, nil),
		Settings:    settings.Load(store, settings.DefaultTheme, nil),
		Suggestions: f.sugg,
		UserName:    "Ada",
		Version:     "test",
	})
	t.Cleanup(m.Close)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return f, m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and any batched commands, returning the messages that
// match T.
func collect[T any](cmd tea.Cmd) []T {
	if cmd == nil {
		return nil
	}
	var out []T
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, collect[T](c)...)
		}
	case T:
		out = append(out, msg)
	}
	return out
}

func chat(title string, contents ...string) model.Chat {
	c := model.Chat{Title: title}
	for i, content := range contents {
		speaker := model.SpeakerYou
		if i%2 == 1 {
			speaker = model.SpeakerAssistant
		}
		c.History = append(c.History, model.Message{Speaker: speaker, Content: content})
	}
	return c
}

// =============================================================================
// SEND FLOW
// =============================================================================

func TestSend_RoundTrip(t *testing.T) {
	_, m := newFixture(t)
	m.input.SetValue("Hello <b>")

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Empty(t, m.input.Value(), "input cleared on send")
	assert.Equal(t, 1, m.mgr.InFlight())
	require.Len(t, m.mgr.State().History, 1)
	assert.Equal(t, "Hello &lt;b&gt;", m.mgr.State().History[0].Content)

	replies := collect[session.ReplyMsg](cmd)
	require.Len(t, replies, 1)
	m = update(t, m, replies[0])

	st := m.mgr.State()
	assert.Equal(t, "Greetings", st.Title)
	require.Len(t, st.History, 2)
	assert.Equal(t, "Hi there", st.History[1].Content)
	assert.Equal(t, 1, m.list.Len(), "sidebar lists the new chat")
	assert.Equal(t, 0, m.mgr.InFlight())
}

func TestSend_EmptyInputIgnored(t *testing.T) {
	_, m := newFixture(t)
	m.input.SetValue("   ")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, m.mgr.State().History)
	assert.Empty(t, m.toasts.Toasts())
}

func TestSend_GatewayFailureShowsToast(t *testing.T) {
	f, m := newFixture(t)
	f.sender.err = &gateway.GatewayError{Op: "send message", URL: "http://x", Status: 502, Err: errors.New("bad gateway")}
	m.input.SetValue("Hello")

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	replies := collect[session.ReplyMsg](cmd)
	require.Len(t, replies, 1)
	m = update(t, m, replies[0])

	toasts := m.toasts.Toasts()
	require.Len(t, toasts, 1)
	assert.Contains(t, toasts[0].Message, "502")
	assert.Len(t, m.mgr.State().History, 1, "optimistic message kept")
	assert.Equal(t, model.DefaultTitle, m.mgr.State().Title)
}

func TestSend_StaleReplyAfterNewChat(t *testing.T) {
	_, m := newFixture(t)
	m.input.SetValue("Hello")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})

	replies := collect[session.ReplyMsg](cmd)
	require.Len(t, replies, 1)
	m = update(t, m, replies[0])

	assert.Empty(t, m.mgr.State().History)
	assert.Empty(t, m.mgr.State().Chats)
	assert.Empty(t, m.toasts.Toasts(), "stale replies are not errors")
}

// =============================================================================
// SAVED CHATS SIDEBAR
// =============================================================================

func TestSidebar_LoadChat(t *testing.T) {
	_, m := newFixture(t, chat("First", "a", "b"), chat("Second", "c", "d"))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusSidebar, m.focus)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	st := m.mgr.State()
	assert.Equal(t, "Second", st.Title)
	assert.Len(t, st.History, 2)
	assert.Equal(t, focusInput, m.focus)
}

func TestSidebar_DeleteWithConfirm(t *testing.T) {
	_, m := newFixture(t, chat("First", "a", "b"), chat("Second", "c", "d"))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, keyRunes("d"))
	require.Equal(t, overlayConfirm, m.overlay)
	m = update(t, m, keyRunes("n"))
	assert.Len(t, m.mgr.State().Chats, 2, "cancelled")

	m = update(t, m, keyRunes("d"))
	m = update(t, m, keyRunes("y"))
	chats := m.mgr.State().Chats
	require.Len(t, chats, 1)
	assert.Equal(t, "Second", chats[0].Title)
	assert.Equal(t, 1, m.list.Len())
}

func TestSidebar_ClearAll(t *testing.T) {
	_, m := newFixture(t, chat("First", "a", "b"), chat("Second", "c", "d"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, keyRunes("C"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.mgr.State().Chats)
}

func TestSidebar_Rename(t *testing.T) {
	_, m := newFixture(t, chat("First", "a", "b"), chat("Second", "c", "d"))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, keyRunes("r"))
	require.Equal(t, overlayRename, m.overlay)
	assert.Equal(t, "First", m.renameInput.Value())

	m.renameInput.SetValue("Second")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, overlayRename, m.overlay, "taken title keeps the dialog open")
	require.Len(t, m.toasts.Toasts(), 1)

	m.renameInput.SetValue("Renamed")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, overlayNone, m.overlay)
	assert.Equal(t, "Renamed", m.mgr.State().Chats[0].Title)
}

func TestSidebar_Filter(t *testing.T) {
	_, m := newFixture(t, chat("Recipes", "a", "b"), chat("Go tips", "c", "d"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, keyRunes("/"))
	require.True(t, m.list.Filtering())
	m = update(t, m, keyRunes("go"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.list.Filtering())
	assert.Equal(t, 1, m.list.Len())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Go tips", m.mgr.State().Title)
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestSettings_Adjust(t *testing.T) {
	f, m := newFixture(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Equal(t, overlaySettings, m.overlay)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.InDelta(t, 1.3, m.settings.Current().LineHeight, 1e-9)
	v, _ := f.store.Get(storage.KeyLineHeight)
	assert.Equal(t, "1.3", v)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 15, m.settings.Current().FontSize)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "black", m.settings.Current().Theme)
	assert.Equal(t, "black", m.theme.Name)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, overlayNone, m.overlay)
}

func TestCycleTheme(t *testing.T) {
	f, m := newFixture(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, "light", m.theme.Name)
	v, _ := f.store.Get(storage.KeyTheme)
	assert.Equal(t, "light", v)
}

func TestStepTheme(t *testing.T) {
	assert.Equal(t, "light", stepTheme("dark", 1))
	assert.Equal(t, "black", stepTheme("dark", -1))
	assert.Equal(t, "dark", stepTheme("unknown", 1))
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

func TestSuggest_Submit(t *testing.T) {
	f, m := newFixture(t)
	m, _ = updateCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	require.Equal(t, overlaySuggest, m.overlay)
	assert.Equal(t, 1, m.sugField, "name pre-filled, focus on text")

	m.sugText.SetValue("Dark mode please")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	msgs := collect[SuggestionSubmittedMsg](cmd)
	require.Len(t, msgs, 1)
	m = update(t, m, msgs[0])

	assert.Equal(t, overlayNone, m.overlay)
	require.Len(t, f.sugg.submitted, 1)
	assert.Equal(t, gateway.Suggestion{UserName: "Ada", Suggestion: "Dark mode please"}, f.sugg.submitted[0])
	assert.Contains(t, m.toasts.Toasts()[0].Message, "submitted")
}

func TestSuggest_ValidationIgnored(t *testing.T) {
	_, m := newFixture(t)
	m, _ = updateCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	m = update(t, m, SuggestionSubmittedMsg{Err: gateway.ErrEmptySuggestion})
	assert.Equal(t, overlaySuggest, m.overlay)
	assert.Empty(t, m.sugErr)
	assert.Empty(t, m.toasts.Toasts())
}

func TestSuggest_FailureShowsAlert(t *testing.T) {
	_, m := newFixture(t)
	m, _ = updateCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	m = update(t, m, SuggestionSubmittedMsg{Err: &gateway.GatewayError{Op: "submit suggestion", Err: errors.New("refused")}})
	assert.Equal(t, overlaySuggest, m.overlay)
	assert.Contains(t, m.sugErr, "Couldn't reach")
}

func TestSuggestions_List(t *testing.T) {
	f, m := newFixture(t)
	f.sugg.items = []gateway.Suggestion{{UserName: "Bo", Suggestion: "Export"}}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	for i := 0; i < int(rowViewSuggestions); i++ {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, overlaySuggestions, m.overlay)
	msgs := collect[SuggestionsLoadedMsg](cmd)
	require.Len(t, msgs, 1)
	m = update(t, m, msgs[0])
	assert.Equal(t, []string{"Bo: Export"}, m.picker.Items)
	assert.Contains(t, m.View(), "Bo: Export")
}

// =============================================================================
// HISTORY, EXPANSION AND RELOAD
// =============================================================================

func TestPrompts_JumpAndExpand(t *testing.T) {
	long := "one<br>two<br>three<br>four"
	f, _ := newFixture(t)
	require.NoError(t, f.store.SetJSON(storage.KeyChatHistory, []model.Message{
		{Speaker: model.SpeakerYou, Content: "short"},
		{Speaker: model.SpeakerAssistant, Content: "ok"},
		{Speaker: model.SpeakerYou, Content: long},
	}))
	_, m := newFixtureFromStore(t, f)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	require.Equal(t, overlayPrompts, m.overlay)
	require.Len(t, m.prompts, 2)
	assert.Equal(t, 1, m.picker.Cursor(), "newest prompt selected")

	m = update(t, m, keyRunes(" "))
	assert.True(t, m.mgr.State().History[2].IsExpanded)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, overlayNone, m.overlay)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.False(t, m.mgr.State().History[2].IsExpanded)
}

func newFixtureFromStore(t *testing.T, f *fixture) (*fixture, Model) {
	t.Helper()
	m := New(Options{
		Manager:     session.NewManager(f.store, f.sender, nil),
		Settings:    settings.Load(f.store, settings.DefaultTheme, nil),
		Suggestions: f.sugg,
	})
	t.Cleanup(m.Close)
	return f, update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func TestStoreChanged_Reloads(t *testing.T) {
	f, m := newFixture(t)
	require.NoError(t, f.store.SetJSON(storage.KeyChats, []model.Chat{chat("Elsewhere", "a", "b")}))
	m = update(t, m, StoreChangedMsg{})
	assert.Len(t, m.mgr.State().Chats, 1)
	assert.Equal(t, 1, m.list.Len())
}

func TestView_RendersLayout(t *testing.T) {
	_, m := newFixture(t, chat("Weekend plans", "hi", "hello"))
	out := m.View()
	assert.Contains(t, out, "Kronos")
	assert.Contains(t, out, "Weekend plans")
	assert.Contains(t, out, "Start a conversation")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyF1})
	assert.Contains(t, m.View(), "new chat")
	m = update(t, m, keyRunes("x"))
	assert.Equal(t, overlayNone, m.overlay)
}

func TestQuit(t *testing.T) {
	_, m := newFixture(t)
	_, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestErrorText(t *testing.T) {
	assert.Contains(t, errorText(gateway.ErrRateLimited), "Too many")
	assert.Contains(t, errorText(&gateway.GatewayError{Status: 500, Err: errors.New("x")}), "500")
	assert.Contains(t, errorText(&gateway.GatewayError{Err: errors.New("dial")}), "Couldn't reach")
	assert.Equal(t, "boom", errorText(errors.New("boom")))
}
