// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides the clients for the two remote services kronos
// talks to: the assistant chat service and the suggestion box.
//
// Every call is a single request/response exchange. Nothing is retried;
// failures come back as *GatewayError and the caller decides what to do.
//
// # Key Types
//
//   - ChatClient: POST /send_message, returns the reply and a suggested title
//   - SuggestionClient: POST /submit_suggestion and GET /suggestions
//   - GatewayError: transport failure, non-2xx status or malformed body
//
// # Usage
//
//	chat := gateway.NewChatClient(cfg.Gateway.ChatURL).WithTimeout(30 * time.Second)
//	reply, err := chat.Send(ctx, model.Sanitize(text), history, title)
//
//	box := gateway.NewSuggestionClient(cfg.Gateway.SuggestionsURL).WithRateLimit(5)
//	err = box.Submit(ctx, "ada", "dark mode for the sidebar")
package gateway
