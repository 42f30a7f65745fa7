// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation for destructive commands.
//
//  1. --yes proceeds without prompting
//  2. --json requires --yes
//  3. a non-terminal stdin requires --yes
//  4. otherwise the user is asked [y/N]

package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ConfirmationOptions describes how a confirmation may be obtained.
type ConfirmationOptions struct {
	// ConfirmFlag is set by --yes.
	ConfirmFlag bool
	JSONMode    bool
	// Interactive reports whether In is a terminal the user can answer on.
	Interactive bool
	In          io.Reader
	Out         io.Writer
}

// RequireConfirmation asks the user to confirm action. It returns false
// without error when the user declines.
func RequireConfirmation(action string, opts ConfirmationOptions) (bool, error) {
	if opts.ConfirmFlag {
		return true, nil
	}
	if opts.JSONMode {
		return false, &ValidationError{
			Field:  "yes",
			Reason: "confirmation required: use --yes for destructive actions in JSON mode",
		}
	}
	if !opts.Interactive {
		return false, &ValidationError{
			Field:  "yes",
			Reason: "confirmation required but stdin is not a terminal; use --yes",
		}
	}

	fmt.Fprintf(opts.Out, "Are you sure you want to %s? [y/N]: ", action)
	input, err := bufio.NewReader(opts.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, errors.Wrap(err, "failed to read confirmation")
	}
	response := strings.ToLower(strings.TrimSpace(input))
	return response == "y" || response == "yes", nil
}
