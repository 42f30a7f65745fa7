// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package export writes saved chats to shareable documents.

# Formats

  - md: Markdown with YAML front matter; user input is block quoted
  - json: the chat in its stored shape, wrapped with export metadata
  - html: a standalone page using the palette of a kronos theme, with
    code blocks highlighted by chroma

# Usage

	exp, err := export.ForFormat("md", export.DefaultOptions())
	path, err := export.ExportToFile(chat, exp, ".")
*/
package export
