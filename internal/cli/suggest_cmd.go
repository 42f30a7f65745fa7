// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// suggest_cmd.go - The public suggestion box.

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/kronos-tui/internal/app"
	"github.com/jeranaias/kronos-tui/internal/gateway"
)

func newSuggestCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "suggest",
		Aliases: []string{"suggestions"},
		Short:   "Send a suggestion or read everyone's suggestions",
	}

	var name string
	submit := &cobra.Command{
		Use:   "submit <text...>",
		Short: "Submit a suggestion",
		Long: `Submit a suggestion to the public suggestion box.

The name defaults to ui.user_name from the config file.`,
		Example: `  kronos suggest submit --name Ada "Add a dark mode for code blocks"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(func(a *app.App) error {
				userName := name
				if userName == "" {
					userName = a.Config.UI.UserName
				}
				text := strings.Join(args, " ")
				if err := a.Suggestions.Submit(cmd.Context(), userName, text); err != nil {
					return err
				}
				return printDone(cmd, g, "suggest submit", "Suggestion submitted successfully!",
					gateway.Suggestion{UserName: strings.TrimSpace(userName), Suggestion: strings.TrimSpace(text)})
			})
		},
	}
	submit.Flags().StringVarP(&name, "name", "n", "", "your name")

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all suggestions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return g.withApp(func(a *app.App) error {
				return OutputJSON(out, g.jsonMode, "suggest list", func() (interface{}, error) {
					items, err := a.Suggestions.FetchAll(cmd.Context())
					if err != nil {
						return nil, err
					}
					if !g.jsonMode {
						if len(items) == 0 {
							fmt.Fprintln(out, DimStyle.Render("No suggestions yet."))
						}
						for _, s := range items {
							fmt.Fprintf(out, "%s %s\n", SectionStyle.Render(s.UserName+":"), s.Suggestion)
						}
					}
					return items, nil
				})
			})
		},
	}

	cmd.AddCommand(submit, list)
	return cmd
}
