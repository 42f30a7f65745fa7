// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types, display and exit codes for kronos commands.
//
// Commands always return errors; Execute displays them once and picks the
// exit code.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/jeranaias/kronos-tui/internal/config"
	"github.com/jeranaias/kronos-tui/internal/gateway"
	"github.com/jeranaias/kronos-tui/internal/model"
	"github.com/jeranaias/kronos-tui/internal/session"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitUsageError    = 2
	ExitConfigError   = 3
	ExitNetworkError  = 5
	ExitNotFoundError = 7
	ExitTimeoutError  = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError is a failed command with context.
type CommandError struct {
	Command string // e.g. "chats"
	Action  string // e.g. "export"
	Reason  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError is bad command line input.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Example string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// NotFoundError reports a missing resource, usually a saved chat.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// Is lets errors.Is(err, session.ErrChatNotFound) match a missing chat.
func (e *NotFoundError) Is(target error) bool {
	return e.Resource == "chat" && target == session.ErrChatNotFound
}

// =============================================================================
// DISPLAY
// =============================================================================

// DisplayError writes err to w, as a JSON object in JSON mode.
func DisplayError(w io.Writer, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		displayErrorJSON(w, err)
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), userMessage(err))
}

func displayErrorJSON(w io.Writer, err error) {
	output := map[string]interface{}{
		"error":   err.Error(),
		"success": false,
	}

	var (
		cmdErr   *CommandError
		valErr   *ValidationError
		modelErr *model.ValidationError
		nfErr    *NotFoundError
		gwErr    *gateway.GatewayError
	)
	switch {
	case errors.As(err, &valErr):
		output["error_type"] = "validation_error"
		output["field"] = valErr.Field
		output["reason"] = valErr.Reason
	case errors.As(err, &modelErr):
		output["error_type"] = "validation_error"
		output["field"] = modelErr.Field
		output["reason"] = modelErr.Message
	case errors.As(err, &nfErr):
		output["error_type"] = "not_found_error"
		output["resource"] = nfErr.Resource
		output["id"] = nfErr.ID
	case errors.As(err, &gwErr):
		output["error_type"] = "gateway_error"
		output["url"] = gwErr.URL
		if gwErr.Status != 0 {
			output["status"] = gwErr.Status
		}
	case errors.As(err, &cmdErr):
		output["error_type"] = "command_error"
		output["command"] = cmdErr.Command
		output["action"] = cmdErr.Action
	default:
		output["error_type"] = "generic_error"
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

// userMessage phrases gateway failures the way the chat screen does.
func userMessage(err error) string {
	var gwErr *gateway.GatewayError
	switch {
	case errors.Is(err, gateway.ErrRateLimited):
		return "Too many suggestions. Try again in a minute."
	case errors.As(err, &gwErr) && gwErr.Status != 0:
		return fmt.Sprintf("The service answered with HTTP %d (%s).", gwErr.Status, gwErr.URL)
	case errors.As(err, &gwErr):
		return fmt.Sprintf("Couldn't reach %s: %v", gwErr.URL, gwErr.Err)
	}
	return err.Error()
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// GetExitCode picks the process exit code for err.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		valErr   *ValidationError
		modelErr *model.ValidationError
		ttyErr   *TTYRequiredError
		cfgErrs  config.ValidateErrors
		gwErr    *gateway.GatewayError
	)
	switch {
	case errors.As(err, &valErr), errors.As(err, &modelErr), errors.As(err, &ttyErr):
		return ExitUsageError
	case errors.As(err, &cfgErrs):
		return ExitConfigError
	case errors.Is(err, session.ErrChatNotFound):
		return ExitNotFoundError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case errors.As(err, &gwErr):
		return ExitNetworkError
	}
	return ExitGeneralError
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// ErrMissingArgument reports a missing positional argument.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{
		Field:   argName,
		Reason:  "argument is required",
		Example: usage,
	}
}

// ErrUnsupportedFormat reports an unknown export format.
func ErrUnsupportedFormat(format string, supported []string) error {
	return &ValidationError{
		Field:  "format",
		Value:  format,
		Reason: fmt.Sprintf("must be one of: %v", supported),
	}
}
