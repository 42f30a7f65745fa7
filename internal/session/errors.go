// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"github.com/pkg/errors"

	"github.com/jeranaias/kronos-tui/internal/model"
)

var (
	// ErrEmptyMessage rejects empty or whitespace-only input.
	ErrEmptyMessage = &model.ValidationError{Field: "message", Message: "must not be empty"}

	// ErrEmptyTitle rejects a rename to a blank title.
	ErrEmptyTitle = &model.ValidationError{Field: "title", Message: "must not be empty"}

	// ErrReservedTitle rejects naming a saved chat after the placeholder title.
	ErrReservedTitle = &model.ValidationError{Field: "title", Message: "\"" + model.DefaultTitle + "\" is reserved"}

	// ErrTitleTaken rejects a rename onto a title another saved chat uses.
	ErrTitleTaken = &model.ValidationError{Field: "title", Message: "already used by another chat"}

	// ErrChatNotFound is returned when no saved chat has the given title.
	ErrChatNotFound = errors.New("chat not found")

	// ErrStaleCompletion is returned when a reply arrives for a session that
	// is no longer active. The reply has been discarded.
	ErrStaleCompletion = errors.New("reply belongs to a session that is no longer active")
)
