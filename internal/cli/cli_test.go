// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/kronos-tui/internal/app"
	"github.com/jeranaias/kronos-tui/internal/config"
	"github.com/jeranaias/kronos-tui/internal/gateway"
	"github.com/jeranaias/kronos-tui/internal/model"
	"github.com/jeranaias/kronos-tui/internal/session"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

// fakeServices answers both gateways. Replies echo the input and name the
// chat after it.
type fakeServices struct {
	mu          sync.Mutex
	suggestions []gateway.Suggestion
	sent        []string
}

func (f *fakeServices) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case gateway.SendMessagePath:
		var body struct {
			UserInput string `json:"user_input"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.sent = append(f.sent, body.UserInput)
		json.NewEncoder(w).Encode(map[string]string{
			"response":  "Echo: " + body.UserInput,
			"chat_name": "Chat " + body.UserInput,
		})
	case gateway.SubmitSuggestionPath:
		var s gateway.Suggestion
		json.NewDecoder(r.Body).Decode(&s)
		f.suggestions = append(f.suggestions, s)
		w.Write([]byte(`{"message":"ok"}`))
	case gateway.SuggestionsPath:
		json.NewEncoder(w).Encode(f.suggestions)
	default:
		http.NotFound(w, r)
	}
}

type harness struct {
	t           *testing.T
	dir         string
	services    *fakeServices
	stdin       string
	interactive bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	services := &fakeServices{}
	server := httptest.NewServer(services)
	t.Cleanup(server.Close)

	t.Setenv("KRONOS_LOG_OUTPUT", "discard")
	t.Setenv("KRONOS_CHAT_URL", server.URL)
	t.Setenv("KRONOS_SUGGESTIONS_URL", server.URL)
	return &harness{t: t, dir: t.TempDir(), services: services}
}

func (h *harness) configPath() string {
	return filepath.Join(h.dir, "config.toml")
}

// run executes one command line and returns everything it printed.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	root, _ := newRoot(strings.NewReader(h.stdin), func() bool { return h.interactive })
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", h.configPath(), "--data-dir", filepath.Join(h.dir, "data")}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

// seed creates one saved chat per prompt.
func (h *harness) seed(prompts ...string) {
	h.t.Helper()
	for _, p := range prompts {
		h.mustRun("chats", "new")
		h.mustRun("chat", p)
	}
}

func (h *harness) app() *app.App {
	h.t.Helper()
	cfg, err := app.LoadConfig(app.Overrides{ConfigPath: h.configPath(), DataDir: filepath.Join(h.dir, "data")})
	require.NoError(h.t, err)
	a, err := app.New(cfg)
	require.NoError(h.t, err)
	h.t.Cleanup(func() { a.Close() })
	return a
}

func decodeEnvelope(t *testing.T, out string) JSONResponse {
	t.Helper()
	var resp JSONResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}

// =============================================================================
// CHAT
// =============================================================================

func TestChat_OneShotSavesChat(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("chat", "hello", "there")
	assert.Contains(t, out, "Echo: hello there")
	assert.Contains(t, out, `Saved as "Chat hello there"`)
	assert.Equal(t, []string{"hello there"}, h.services.sent)

	list := h.mustRun("chats", "list")
	assert.Contains(t, list, "Saved chats (1)")
	assert.Contains(t, list, "Chat hello there")
	assert.Contains(t, list, "2 msgs")
	assert.Contains(t, list, "*")
}

func TestChat_GatewayFailure(t *testing.T) {
	h := newHarness(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()
	t.Setenv("KRONOS_CHAT_URL", server.URL)

	_, err := h.run("chat", "hello")
	require.Error(t, err)
	var gwErr *gateway.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusInternalServerError, gwErr.Status)
	assert.Equal(t, ExitNetworkError, GetExitCode(err))
	assert.Equal(t, "The service answered with HTTP 500 ("+gwErr.URL+").", userMessage(err))
}

// =============================================================================
// CHATS
// =============================================================================

func TestChatsList_Empty(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.mustRun("chats"), "No saved chats yet")
}

func TestChatsList_JSON(t *testing.T) {
	h := newHarness(t)
	h.seed("first", "second")

	resp := decodeEnvelope(t, h.mustRun("--json", "chats", "list"))
	assert.True(t, resp.Success)
	assert.Equal(t, "chats list", resp.Command)
	items, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "Chat first", first["title"])
	assert.Equal(t, false, first["active"])
	assert.Equal(t, true, items[1].(map[string]interface{})["active"])
}

func TestChatsShow(t *testing.T) {
	h := newHarness(t)
	h.seed("first")

	byNumber := h.mustRun("chats", "show", "1")
	byTitle := h.mustRun("chats", "show", "Chat first")
	assert.Equal(t, byNumber, byTitle)
	assert.Contains(t, byNumber, "You")
	assert.Contains(t, byNumber, "first")
	assert.Contains(t, byNumber, "Echo: first")

	_, err := h.run("chats", "show", "7")
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrChatNotFound)
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
}

func TestChatsLoadRenameNew(t *testing.T) {
	h := newHarness(t)
	h.seed("first", "second")

	assert.Contains(t, h.mustRun("chats", "load", "1"), `Loaded "Chat first"`)
	assert.Equal(t, "Chat first", h.app().Manager.State().Title)

	assert.Contains(t, h.mustRun("chats", "rename", "Chat first", "Renamed"), `Renamed "Chat first" to "Renamed"`)

	_, err := h.run("chats", "rename", "Renamed", "Chat second")
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrTitleTaken)
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	h.mustRun("chats", "new")
	assert.True(t, h.app().Manager.State().IsUntitled())

	_, err = h.run("chats", "rename", "only-one-arg")
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestChatsDelete_Confirmation(t *testing.T) {
	h := newHarness(t)
	h.seed("first", "second", "third")

	_, err := h.run("chats", "delete", "1")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	h.interactive = true
	h.stdin = "n\n"
	assert.Contains(t, h.mustRun("chats", "delete", "1"), "Cancelled.")
	assert.Len(t, h.app().Manager.State().Chats, 3)

	h.stdin = "y\n"
	out := h.mustRun("chats", "delete", "1")
	assert.Contains(t, out, `Are you sure you want to delete "Chat first"?`)
	assert.Contains(t, out, `Deleted "Chat first"`)

	h.interactive = false
	h.mustRun("chats", "delete", "Chat second", "--yes")
	chats := h.app().Manager.State().Chats
	require.Len(t, chats, 1)
	assert.Equal(t, "Chat third", chats[0].Title)

	_, err = h.run("--json", "chats", "clear")
	require.Error(t, err)
	resp := decodeEnvelope(t, h.mustRun("--json", "chats", "clear", "-y"))
	assert.Equal(t, map[string]interface{}{"deleted": float64(1)}, resp.Data)
	assert.Empty(t, h.app().Manager.State().Chats)
}

func TestChatsExport(t *testing.T) {
	h := newHarness(t)
	h.seed("first")

	path := filepath.Join(h.dir, "out.html")
	out := h.mustRun("chats", "export", "1", "--format", "html", "--out", path)
	assert.Contains(t, out, "Exported")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<html")
	assert.Contains(t, string(data), "Echo: first")

	md := h.mustRun("chats", "export", "Chat first", "--out", "-")
	assert.Contains(t, md, "# Chat first")

	_, err = h.run("chats", "export", "1", "--format", "pdf", "--out", "-")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestChatsExportAll(t *testing.T) {
	h := newHarness(t)
	h.seed("first", "second")

	dir := filepath.Join(h.dir, "exports")
	resp := decodeEnvelope(t, h.mustRun("--json", "chats", "export", "--all", "--format", "json", "--out", dir))
	data := resp.Data.(map[string]interface{})
	assert.Len(t, data["paths"], 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = h.run("chats", "export", "--all", "--out", "-")
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	_, err = h.run("chats", "export", "--all", "1")
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestSettings(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("settings")
	assert.Contains(t, out, "Dark (dark)")
	assert.Contains(t, out, "1.2")
	assert.Contains(t, out, "16")

	assert.Contains(t, h.mustRun("settings", "theme", "Light"), "Light (light)")
	assert.Contains(t, h.mustRun("settings", "theme"), "* light")
	h.mustRun("settings", "line-height", "1.5")
	h.mustRun("settings", "font-size", "20")

	resp := decodeEnvelope(t, h.mustRun("--json", "settings", "show"))
	assert.Equal(t, map[string]interface{}{"theme": "light", "lineHeight": 1.5, "fontSize": float64(20)}, resp.Data)

	for _, args := range [][]string{
		{"settings", "theme", "neon"},
		{"settings", "line-height", "3"},
		{"settings", "line-height", "tall"},
		{"settings", "font-size", "11"},
		{"settings", "font-size", "big"},
	} {
		_, err := h.run(args...)
		require.Error(t, err, args)
		assert.Equal(t, ExitUsageError, GetExitCode(err), args)
	}
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

func TestSuggest(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("suggest", "submit", "--name", "Ada", "more", "themes")
	assert.Contains(t, out, "Suggestion submitted successfully!")
	assert.Equal(t, []gateway.Suggestion{{UserName: "Ada", Suggestion: "more themes"}}, h.services.suggestions)

	assert.Contains(t, h.mustRun("suggest", "list"), "Ada: more themes")

	_, err := h.run("suggest", "submit", "--name", "Ada")
	require.Error(t, err)
	assert.ErrorIs(t, err, gateway.ErrEmptySuggestion)
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	_, err = h.run("suggest", "submit", "no name")
	assert.ErrorIs(t, err, gateway.ErrEmptyUserName)
	assert.Len(t, h.services.suggestions, 1)
}

// =============================================================================
// CONFIG AND VERSION
// =============================================================================

func TestConfigInitAndPath(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("config", "path")
	assert.Contains(t, out, h.configPath())
	assert.Contains(t, out, "not created yet")

	h.mustRun("config", "init")
	_, err := os.Stat(h.configPath())
	require.NoError(t, err)

	_, err = h.run("config", "init")
	require.Error(t, err)
	h.mustRun("config", "init", "--force")

	show := h.mustRun("config", "show")
	assert.Contains(t, show, "[gateway]")
	assert.Contains(t, show, filepath.Join(h.dir, "data"))
}

func TestVersion_JSON(t *testing.T) {
	h := newHarness(t)
	resp := decodeEnvelope(t, h.mustRun("--json", "version"))
	assert.Equal(t, map[string]interface{}{
		"version":   Version,
		"gitCommit": GitCommit,
		"buildDate": BuildDate,
	}, resp.Data)
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("chats", "list", "--bogus")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

// =============================================================================
// REPL
// =============================================================================

func TestREPL_Commands(t *testing.T) {
	h := newHarness(t)
	h.seed("first")
	a := h.app()

	var out bytes.Buffer
	r := newREPL(a, &out, false)
	ctx := context.Background()

	cont, err := r.handle(ctx, "/help")
	require.NoError(t, err)
	assert.True(t, cont)
	assert.Contains(t, out.String(), "/rename <old> => <new>")

	out.Reset()
	_, err = r.handle(ctx, "/chats")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Chat first")

	_, err = r.handle(ctx, "/new")
	require.NoError(t, err)
	assert.True(t, a.Manager.State().IsUntitled())

	out.Reset()
	_, err = r.handle(ctx, "what now")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Echo: what now")
	assert.Equal(t, "Chat what now", a.Manager.State().Title)

	_, err = r.handle(ctx, "/rename Short")
	require.NoError(t, err)
	assert.Equal(t, "Short", a.Manager.State().Title)

	_, err = r.handle(ctx, "/rename Chat first => Older")
	require.NoError(t, err)
	assert.Equal(t, 0, model.FindChat(a.Manager.State().Chats, "Older"))

	_, err = r.handle(ctx, "/load 1")
	require.NoError(t, err)
	assert.Equal(t, "Older", a.Manager.State().Title)

	_, err = r.handle(ctx, "/theme purple")
	require.NoError(t, err)
	assert.Equal(t, "purple", a.Settings.Current().Theme)

	_, err = r.handle(ctx, "/delete Short")
	require.NoError(t, err)
	assert.Len(t, a.Manager.State().Chats, 1)

	_, err = r.handle(ctx, "/lod 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean /load?")

	_, err = r.handle(ctx, "/load")
	require.Error(t, err)

	cont, err = r.handle(ctx, "/quit")
	require.NoError(t, err)
	assert.False(t, cont)
	cont, _ = r.handle(ctx, "EXIT")
	assert.False(t, cont)
}

func TestREPL_RenameUntitledNeedsOldTitle(t *testing.T) {
	h := newHarness(t)
	r := newREPL(h.app(), &bytes.Buffer{}, false)

	_, err := r.handle(context.Background(), "/rename Something")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "chat", verr.Field)
}

func TestCompleteSlash(t *testing.T) {
	assert.Equal(t, []string{"/delete"}, completeSlash("/de"))
	assert.Equal(t, []string{"/help", "/history"}, completeSlash("/h"))
	assert.Nil(t, completeSlash("hello"))
	assert.Nil(t, completeSlash("/load 2"))
}

// =============================================================================
// HELPERS
// =============================================================================

func TestSuggestCommand(t *testing.T) {
	names := slashCommandNames()
	tests := []struct {
		input string
		want  string
	}{
		{"/lod", "/load"},
		{"/hlep", "/help"},
		{"/chast", "/chats"},
		{"/load", ""},
		{"/xyzzy", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestCommand(tt.input, names))
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("chat", "chat"))
	assert.Equal(t, 3, levenshteinDistance("", "abc"))
	assert.Equal(t, 1, levenshteinDistance("thème", "theme"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

func TestWrapText(t *testing.T) {
	got := WrapText("one two three four five", 16)
	assert.Equal(t, "one two three\nfour five", got)
	assert.Equal(t, "a\n\nb", WrapText("a\n\nb", 40))
}

func TestResolveChat(t *testing.T) {
	chats := []model.Chat{{Title: "2"}, {Title: "Other"}}

	c, err := resolveChat(chats, "2")
	require.NoError(t, err)
	assert.Equal(t, "2", c.Title, "exact titles win over numbers")

	c, err = resolveChat(chats, "1")
	require.NoError(t, err)
	assert.Equal(t, "2", c.Title)

	_, err = resolveChat(chats, "0")
	assert.ErrorIs(t, err, session.ErrChatNotFound)
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"cli validation", &ValidationError{Field: "x"}, ExitUsageError},
		{"model validation", session.ErrEmptyMessage, ExitUsageError},
		{"tty", &TTYRequiredError{}, ExitUsageError},
		{"config", config.ValidateErrors{{Field: "storage.backend"}}, ExitConfigError},
		{"not found", &NotFoundError{Resource: "chat", ID: "x"}, ExitNotFoundError},
		{"gateway", &gateway.GatewayError{Op: "send", URL: "http://x"}, ExitNetworkError},
		{"timeout", &gateway.GatewayError{Op: "send", Err: context.DeadlineExceeded}, ExitTimeoutError},
		{"other", assert.AnError, ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, &NotFoundError{Resource: "chat", ID: "7"}, true)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "not_found_error", got["error_type"])
	assert.Equal(t, "7", got["id"])
	assert.Equal(t, false, got["success"])

	buf.Reset()
	DisplayError(&buf, gateway.ErrRateLimited, false)
	assert.Contains(t, buf.String(), "Too many suggestions")
}
