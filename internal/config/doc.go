// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for kronos.
//
// # Key Types
//
//   - Config: main configuration structure
//   - GatewayConfig: chat and suggestion endpoints, request timeout
//   - StorageConfig: backend selection (file, sqlite, memory) and data directory
//   - LoggingConfig: logrus level, format and rotated file output
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (KRONOS_*), including those set by a .env file
//   - ~/.kronos/config.toml or the path given with --config
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.LoadFromPath(path)
//	if err != nil {
//	    return err
//	}
//	client := gateway.NewChatClient(cfg.Gateway.ChatURL, gateway.WithTimeout(cfg.Gateway.Timeout.Duration))
package config
