// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - Machine-readable output for --json.

package cli

import (
	"encoding/json"
	"io"
	"time"
)

// JSONResponse is the envelope every command prints in JSON mode.
type JSONResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Error     *string     `json:"error"`
	Timestamp string      `json:"timestamp"`
	Command   string      `json:"command,omitempty"`
}

// NewJSONResponse creates a successful response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a failed response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	msg := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the response as indented JSON.
func (r *JSONResponse) Print(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// OutputJSON runs handler and, in JSON mode, prints its result in the
// envelope. In text mode the handler does its own printing and the data is
// discarded.
func OutputJSON(w io.Writer, jsonMode bool, command string, handler func() (interface{}, error)) error {
	data, err := handler()
	if !jsonMode {
		return err
	}
	if err != nil {
		// Execute prints the error envelope.
		return err
	}
	return NewJSONResponse(command, data).Print(w)
}

// =============================================================================
// COMMAND DATA
// =============================================================================

// ChatSummary is one saved chat in "chats list".
type ChatSummary struct {
	Index    int    `json:"index"`
	Title    string `json:"title"`
	Messages int    `json:"messages"`
	Preview  string `json:"preview"`
	Active   bool   `json:"active"`
}

// SettingsData is the output of "settings show".
type SettingsData struct {
	Theme      string  `json:"theme"`
	LineHeight float64 `json:"lineHeight"`
	FontSize   int     `json:"fontSize"`
}

// VersionData is the output of "version".
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
}
