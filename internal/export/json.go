// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"

	"github.com/jeranaias/kronos-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports a chat as JSON. The chat is written in its stored
// shape so it can be re-imported; only transient UI flags are dropped.
type JSONExporter struct {
	options *Options
}

type jsonDocument struct {
	Generator  string     `json:"generator"`
	ExportedAt string     `json:"exportedAt"`
	Chat       model.Chat `json:"chat"`
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts a chat to indented JSON.
func (e *JSONExporter) Export(chat model.Chat) ([]byte, error) {
	if err := validate(chat); err != nil {
		return nil, err
	}
	doc := jsonDocument{
		Generator:  Generator,
		ExportedAt: formatTimestamp(e.options.now()),
		Chat:       chat.Clean(),
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string { return ".json" }

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string { return "application/json" }
