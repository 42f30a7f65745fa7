// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the kronos command line on cobra.
//
// Every command builds an app.App from the global flags, so the chat screen,
// the line-by-line chat and the one-shot commands read and write the same
// saved chats and settings.
//
// # Commands
//
//   - kronos: full-screen chat (needs a terminal)
//   - chat [message...]: line-by-line chat with liner, or one message
//   - chats list|show|load|delete|rename|new|clear|export
//   - settings show|theme|line-height|font-size
//   - suggest submit|list
//   - config show|path|init
//   - version
//
// Global flags: --config, --data-dir, --backend, --log-level, --json.
//
// # Usage
//
//	func main() {
//	    os.Exit(cli.Execute())
//	}
//
// Errors are returned from commands and printed once by Execute, which maps
// them to exit codes with GetExitCode.
package cli
