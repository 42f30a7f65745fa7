// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jeranaias/kronos-tui/internal/model"
)

// SendMessagePath is the chat endpoint, relative to the base URL.
const SendMessagePath = "/send_message"

// Reply is what the assistant service returns for one message.
type Reply struct {
	Text           string
	SuggestedTitle string
}

type sendMessageRequest struct {
	UserInput   string          `json:"user_input"`
	ChatHistory []model.Message `json:"chat_history"`
	ChatTitle   string          `json:"chat_title"`
}

type sendMessageResponse struct {
	Response string `json:"response"`
	ChatName string `json:"chat_name"`
}

// ChatClient talks to the assistant service.
type ChatClient struct {
	base
}

// NewChatClient creates a client for the service at baseURL.
func NewChatClient(baseURL string) *ChatClient {
	return &ChatClient{base: newBase(baseURL)}
}

// WithTimeout sets the request timeout. Zero keeps the default.
func (c *ChatClient) WithTimeout(timeout time.Duration) *ChatClient {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// WithHTTPClient replaces the underlying http.Client.
func (c *ChatClient) WithHTTPClient(hc *http.Client) *ChatClient {
	c.httpClient = hc
	return c
}

// WithLogger sets the request logger.
func (c *ChatClient) WithLogger(log logrus.FieldLogger) *ChatClient {
	if log != nil {
		c.log = log.WithField("component", "chat-gateway")
	}
	return c
}

// BaseURL returns the service base URL.
func (c *ChatClient) BaseURL() string { return c.baseURL }

// Send posts one user message with the history that preceded it and the
// current chat title. input is sent as given; callers pass sanitized text.
func (c *ChatClient) Send(ctx context.Context, input string, history []model.Message, title string) (Reply, error) {
	if history == nil {
		history = []model.Message{}
	}
	var resp sendMessageResponse
	_, err := c.do(ctx, "send message", http.MethodPost, SendMessagePath, sendMessageRequest{
		UserInput:   input,
		ChatHistory: history,
		ChatTitle:   title,
	}, &resp)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: resp.Response, SuggestedTitle: resp.ChatName}, nil
}
