// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
)

// =============================================================================
// SPEAKER TYPE
// =============================================================================

// Speaker identifies who authored a message. The values are the display
// labels and are persisted verbatim.
type Speaker string

const (
	SpeakerYou       Speaker = "You"
	SpeakerAssistant Speaker = "Assistant"
)

// String returns the persisted label.
func (s Speaker) String() string {
	return string(s)
}

// IsUser reports whether the message was typed locally.
func (s Speaker) IsUser() bool {
	return s == SpeakerYou
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// LineBreak is the marker stored in place of a newline in sanitized content.
const LineBreak = "<br>"

// Message is one entry of a chat log.
//
// User content is stored sanitized (see Sanitize). Assistant content is stored
// exactly as the gateway returned it.
type Message struct {
	Speaker    Speaker `json:"speaker"`
	Content    string  `json:"content"`
	IsExpanded bool    `json:"isExpanded,omitempty"`
}

// NewUserMessage builds the optimistic message for raw user input.
func NewUserMessage(raw string) Message {
	return Message{Speaker: SpeakerYou, Content: Sanitize(raw)}
}

// NewAssistantMessage wraps a gateway reply.
func NewAssistantMessage(reply string) Message {
	return Message{Speaker: SpeakerAssistant, Content: reply}
}

// LineBreaks counts the line break markers in the message content.
func (m Message) LineBreaks() int {
	return LineBreaks(m.Content)
}

// IsMultiLine reports whether the message is long enough to get an
// expand/collapse control.
func (m Message) IsMultiLine() bool {
	return m.LineBreaks() > 1
}

// PlainText returns the content as it should be shown to a person: markers
// turned back into newlines and entities decoded.
func (m Message) PlainText() string {
	return Unsanitize(m.Content)
}

// =============================================================================
// SANITIZING
// =============================================================================

var (
	sanitizer = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#039;",
		"\r\n", LineBreak,
		"\n", LineBreak,
	)
	unsanitizer = strings.NewReplacer(
		LineBreak, "\n",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#039;", "'",
		"&amp;", "&",
	)
)

// Sanitize escapes the five HTML-significant characters and replaces every
// newline with LineBreak. The replacement is a single pass, so an input that
// already contains "&amp;" is escaped again rather than left alone.
func Sanitize(raw string) string {
	return sanitizer.Replace(raw)
}

// Unsanitize reverses Sanitize.
func Unsanitize(content string) string {
	return unsanitizer.Replace(content)
}

// LineBreaks counts LineBreak markers in content.
func LineBreaks(content string) int {
	return strings.Count(content, LineBreak)
}
