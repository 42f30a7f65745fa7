// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns stored message content into terminal text: glamour
// markdown for assistant replies, chroma highlighting and clipboard copy for
// the code blocks they contain.
package render
