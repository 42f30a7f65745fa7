// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/kronos-tui/internal/model"
)

// =============================================================================
// CHAT GATEWAY TESTS
// =============================================================================

func TestChatClient_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, SendMessagePath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, `"a &lt; b"`, string(body["user_input"]))
		assert.JSONEq(t, `[{"speaker":"You","content":"earlier"}]`, string(body["chat_history"]))
		assert.JSONEq(t, `"New Chat"`, string(body["chat_title"]))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"Hi!","chat_name":"Greeting"}`))
	}))
	defer server.Close()

	client := NewChatClient(server.URL + "/")
	reply, err := client.Send(context.Background(), "a &lt; b",
		[]model.Message{model.NewUserMessage("earlier")}, model.DefaultTitle)
	require.NoError(t, err)
	assert.Equal(t, Reply{Text: "Hi!", SuggestedTitle: "Greeting"}, reply)
}

func TestChatClient_SendNilHistoryEncodesEmptyArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "[]", string(body["chat_history"]))
		w.Write([]byte(`{"response":"ok","chat_name":"x"}`))
	}))
	defer server.Close()

	_, err := NewChatClient(server.URL).Send(context.Background(), "hi", nil, "t")
	require.NoError(t, err)
}

func TestChatClient_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, 500},
		{"bad request", http.StatusBadRequest, `{"error":"No input provided"}`, 400},
		{"not json", http.StatusOK, `<html>oops</html>`, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewChatClient(server.URL).Send(context.Background(), "hi", nil, "t")
			require.Error(t, err)

			var gerr *GatewayError
			require.True(t, errors.As(err, &gerr))
			assert.Equal(t, tt.wantStatus, gerr.Status)
			assert.Equal(t, "send message", gerr.Op)
		})
	}
}

func TestChatClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewChatClient(url).Send(context.Background(), "hi", nil, "t")
	var gerr *GatewayError
	require.True(t, errors.As(err, &gerr))
	assert.Zero(t, gerr.Status)
}

func TestChatClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"response":"late","chat_name":"x"}`))
	}))
	defer server.Close()

	client := NewChatClient(server.URL).WithTimeout(20 * time.Millisecond)
	_, err := client.Send(context.Background(), "hi", nil, "t")
	var gerr *GatewayError
	assert.True(t, errors.As(err, &gerr))
}

func TestChatClient_NoRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewChatClient(server.URL).Send(context.Background(), "hi", nil, "t")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestReadResponse_SizeLimit(t *testing.T) {
	resp := &http.Response{Body: http.NoBody}
	body, err := readResponse(resp)
	require.NoError(t, err)
	assert.Empty(t, body)

	big := strings.NewReader(strings.Repeat("x", MaxResponseSize+1))
	resp = &http.Response{Body: readCloser{big}}
	_, err = readResponse(resp)
	assert.Error(t, err)
}

type readCloser struct{ *strings.Reader }

func (readCloser) Close() error { return nil }

// =============================================================================
// SUGGESTION GATEWAY TESTS
// =============================================================================

func TestSuggestionClient_SubmitValidation(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := NewSuggestionClient(server.URL)
	assert.ErrorIs(t, client.Submit(context.Background(), "  ", "idea"), ErrEmptyUserName)
	assert.ErrorIs(t, client.Submit(context.Background(), "ada", "\n\t"), ErrEmptySuggestion)

	var verr *model.ValidationError
	assert.True(t, errors.As(client.Submit(context.Background(), "", ""), &verr))
	assert.Zero(t, atomic.LoadInt32(&calls), "validation failures must not hit the network")
}

func TestSuggestionClient_SubmitAndFetch(t *testing.T) {
	var (
		stored  []Suggestion
		fetches int32
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SubmitSuggestionPath:
			assert.Equal(t, http.MethodPost, r.Method)
			var s Suggestion
			require.NoError(t, json.NewDecoder(r.Body).Decode(&s))
			stored = append(stored, s)
			w.Write([]byte("Suggestion submitted"))
		case SuggestionsPath:
			assert.Equal(t, http.MethodGet, r.Method)
			atomic.AddInt32(&fetches, 1)
			json.NewEncoder(w).Encode(stored)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewSuggestionClient(server.URL).WithCacheTTL(time.Hour)
	ctx := context.Background()

	list, err := client.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Served from cache.
	_, err = client.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))

	require.NoError(t, client.Submit(ctx, "ada", "dark mode"))

	// Submit invalidates the cache.
	list, err = client.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Suggestion{{UserName: "ada", Suggestion: "dark mode"}}, list)
	assert.Equal(t, int32(2), atomic.LoadInt32(&fetches))
}

func TestSuggestionClient_FetchMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"}`))
	}))
	defer server.Close()

	_, err := NewSuggestionClient(server.URL).FetchAll(context.Background())
	var gerr *GatewayError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, "fetch suggestions", gerr.Op)
}

func TestSuggestionClient_SubmitFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewSuggestionClient(server.URL).Submit(context.Background(), "ada", "idea")
	var gerr *GatewayError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, http.StatusBadGateway, gerr.Status)
}

func TestSuggestionClient_RateLimit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := NewSuggestionClient(server.URL).WithRateLimit(2)
	ctx := context.Background()
	require.NoError(t, client.Submit(ctx, "ada", "one"))
	require.NoError(t, client.Submit(ctx, "ada", "two"))
	assert.ErrorIs(t, client.Submit(ctx, "ada", "three"), ErrRateLimited)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
