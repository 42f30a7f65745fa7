// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/kronos-tui/internal/gateway"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// StoreChangedMsg reports that the backing store was changed by another
// process; the model reloads conversation state.
type StoreChangedMsg struct{}

// SuggestionsLoadedMsg carries the result of fetching all suggestions.
type SuggestionsLoadedMsg struct {
	Items []gateway.Suggestion
	Err   error
}

// SuggestionSubmittedMsg carries the result of submitting a suggestion.
type SuggestionSubmittedMsg struct {
	Err error
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// SuggestionService is the suggestion gateway as seen by the TUI.
type SuggestionService interface {
	Submit(ctx context.Context, userName, suggestion string) error
	FetchAll(ctx context.Context) ([]gateway.Suggestion, error)
}

func fetchSuggestionsCmd(ctx context.Context, svc SuggestionService) tea.Cmd {
	return func() tea.Msg {
		items, err := svc.FetchAll(ctx)
		return SuggestionsLoadedMsg{Items: items, Err: err}
	}
}

func submitSuggestionCmd(ctx context.Context, svc SuggestionService, name, text string) tea.Cmd {
	return func() tea.Msg {
		return SuggestionSubmittedMsg{Err: svc.Submit(ctx, name, text)}
	}
}
