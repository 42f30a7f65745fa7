// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// settings_cmd.go - Show and change display settings.

package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeranaias/kronos-tui/internal/app"
	"github.com/jeranaias/kronos-tui/internal/settings"
)

func newSettingsCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change theme, line height and font size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettingsShow(cmd, g)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the current settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSettingsShow(cmd, g)
			},
		},
		&cobra.Command{
			Use:   "theme [name]",
			Short: "List themes or switch to one",
			Long:  "Without a name, list the available themes. Themes: dark, light, blue, purple, black.",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return g.withApp(func(a *app.App) error {
					if len(args) == 0 {
						return OutputJSON(cmd.OutOrStdout(), g.jsonMode, "settings theme", func() (interface{}, error) {
							current := a.Settings.Current().Theme
							if !g.jsonMode {
								printThemes(cmd.OutOrStdout(), current)
							}
							return map[string]interface{}{"current": current, "themes": settings.Themes()}, nil
						})
					}
					if err := a.Settings.SetTheme(args[0]); err != nil {
						return err
					}
					return printSettingsChange(cmd, g, a)
				})
			},
		},
		&cobra.Command{
			Use:   "line-height <value>",
			Short: "Set the spacing between messages (1 to 2)",
			Args:  exactArgs(1, "kronos settings line-height 1.5"),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					return &ValidationError{Field: "line-height", Value: args[0], Reason: "must be a number", Example: "1.5"}
				}
				return g.withApp(func(a *app.App) error {
					if err := a.Settings.SetLineHeight(v); err != nil {
						return err
					}
					return printSettingsChange(cmd, g, a)
				})
			},
		},
		&cobra.Command{
			Use:   "font-size <value>",
			Short: "Set the message width scale (12 to 24)",
			Args:  exactArgs(1, "kronos settings font-size 16"),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return &ValidationError{Field: "font-size", Value: args[0], Reason: "must be a whole number", Example: "16"}
				}
				return g.withApp(func(a *app.App) error {
					if err := a.Settings.SetFontSize(v); err != nil {
						return err
					}
					return printSettingsChange(cmd, g, a)
				})
			},
		},
	)
	return cmd
}

func runSettingsShow(cmd *cobra.Command, g *globalOptions) error {
	out := cmd.OutOrStdout()
	return g.withApp(func(a *app.App) error {
		return OutputJSON(out, g.jsonMode, "settings show", func() (interface{}, error) {
			data := settingsData(a.Settings.Current())
			if !g.jsonMode {
				printSettings(out, data)
			}
			return data, nil
		})
	})
}

func printSettingsChange(cmd *cobra.Command, g *globalOptions, a *app.App) error {
	data := settingsData(a.Settings.Current())
	if g.jsonMode {
		return NewJSONResponse("settings", data).Print(cmd.OutOrStdout())
	}
	fmt.Fprintln(cmd.OutOrStdout(), RenderSuccess("Settings saved"))
	printSettings(cmd.OutOrStdout(), data)
	return nil
}

func settingsData(s settings.Settings) SettingsData {
	return SettingsData{Theme: s.Theme, LineHeight: s.LineHeight, FontSize: s.FontSize}
}

func printSettings(out io.Writer, s SettingsData) {
	fmt.Fprintln(out, RenderField("Theme", fmt.Sprintf("%s (%s)", settings.ThemeDisplayName(s.Theme), s.Theme)))
	fmt.Fprintln(out, RenderField("Line height", strconv.FormatFloat(s.LineHeight, 'f', -1, 64)))
	fmt.Fprintln(out, RenderField("Font size", strconv.Itoa(s.FontSize)))
}

func printThemes(out io.Writer, current string) {
	for _, t := range settings.Themes() {
		marker := "  "
		if t == current {
			marker = "* "
		}
		fmt.Fprintf(out, "%s%-8s %s\n", marker, t, DimStyle.Render(settings.ThemeDisplayName(t)))
	}
}
