// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chats_cmd.go - Manage saved chats without opening the chat screen.

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeranaias/kronos-tui/internal/app"
	"github.com/jeranaias/kronos-tui/internal/export"
	"github.com/jeranaias/kronos-tui/internal/model"
	"github.com/jeranaias/kronos-tui/internal/render"
	"github.com/jeranaias/kronos-tui/internal/session"
	"github.com/jeranaias/kronos-tui/internal/util"
)

const previewRunes = 48

func newChatsCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chats",
		Aliases: []string{"chat-list"},
		Short:   "List, show, rename, delete and export saved chats",
		Long: `Manage saved chats.

A chat is named by its title or by its number in 'kronos chats list'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChatsList(cmd, g)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved chats",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runChatsList(cmd, g)
			},
		},
		&cobra.Command{
			Use:   "show <chat>",
			Short: "Print a saved chat",
			Args:  exactArgs(1, "kronos chats show 2"),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runChatsShow(cmd, g, args[0])
			},
		},
		&cobra.Command{
			Use:   "load <chat>",
			Short: "Make a saved chat the active one",
			Args:  exactArgs(1, "kronos chats load \"Trip ideas\""),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runChatsLoad(cmd, g, args[0])
			},
		},
		newChatsDeleteCommand(g),
		&cobra.Command{
			Use:   "rename <chat> <new title>",
			Short: "Rename a saved chat",
			Args:  exactArgs(2, "kronos chats rename 1 \"Trip ideas\""),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runChatsRename(cmd, g, args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "new",
			Short: "Start a new, empty active chat",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return g.withApp(func(a *app.App) error {
					if err := a.Manager.StartNewChat(); err != nil {
						return err
					}
					return printDone(cmd, g, "chats new", "Started a new chat", nil)
				})
			},
		},
		newChatsClearCommand(g),
		newChatsExportCommand(g),
	)
	return cmd
}

// =============================================================================
// LIST AND SHOW
// =============================================================================

func runChatsList(cmd *cobra.Command, g *globalOptions) error {
	out := cmd.OutOrStdout()
	return g.withApp(func(a *app.App) error {
		return OutputJSON(out, g.jsonMode, "chats list", func() (interface{}, error) {
			summaries := summarizeChats(a.Manager.State())
			if !g.jsonMode {
				printChatList(out, summaries)
			}
			return summaries, nil
		})
	})
}

func summarizeChats(state session.State) []ChatSummary {
	active := state.ActiveIndex()
	out := make([]ChatSummary, len(state.Chats))
	for i, c := range state.Chats {
		out[i] = ChatSummary{
			Index:    i + 1,
			Title:    c.Title,
			Messages: len(c.History),
			Preview:  c.Preview(previewRunes),
			Active:   i == active,
		}
	}
	return out
}

func printChatList(out io.Writer, chats []ChatSummary) {
	if len(chats) == 0 {
		fmt.Fprintln(out, DimStyle.Render("No saved chats yet. Start one with 'kronos chat'."))
		return
	}
	fmt.Fprintln(out, SectionStyle.Render(fmt.Sprintf("Saved chats (%d)", len(chats))))
	for _, c := range chats {
		marker := " "
		if c.Active {
			marker = "*"
		}
		line := fmt.Sprintf("%s %3d  %s", marker, c.Index, util.PadRight(util.TruncateWidth(c.Title, 32), 32))
		fmt.Fprintf(out, "%s  %s\n", line, DimStyle.Render(fmt.Sprintf("%d msgs  %s", c.Messages, c.Preview)))
	}
}

func runChatsShow(cmd *cobra.Command, g *globalOptions, ref string) error {
	out := cmd.OutOrStdout()
	return g.withApp(func(a *app.App) error {
		return OutputJSON(out, g.jsonMode, "chats show", func() (interface{}, error) {
			c, err := resolveChat(a.Manager.State().Chats, ref)
			if err != nil {
				return nil, err
			}
			if !g.jsonMode {
				fmt.Fprintln(out, TitleStyle.Render(c.Title))
				printTranscript(out, c.History)
			}
			return c.Clean(), nil
		})
	})
}

// printTranscript writes one block per message with a speaker label.
func printTranscript(out io.Writer, history []model.Message) {
	if len(history) == 0 {
		fmt.Fprintln(out, DimStyle.Render("(no messages)"))
		return
	}
	for _, msg := range history {
		label := SpeakerAssistantStyle.Render(msg.Speaker.String())
		if msg.Speaker.IsUser() {
			label = SpeakerUserStyle.Render(msg.Speaker.String())
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, label)
		fmt.Fprintln(out, WrapText(render.MessageText(msg), 0))
	}
}

// resolveChat finds a chat by exact title, then by its 1-based number.
func resolveChat(chats []model.Chat, ref string) (model.Chat, error) {
	if i := model.FindChat(chats, ref); i >= 0 {
		return chats[i], nil
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(chats) {
		return chats[n-1], nil
	}
	return model.Chat{}, &NotFoundError{Resource: "chat", ID: ref}
}

// =============================================================================
// EDITING
// =============================================================================

func runChatsLoad(cmd *cobra.Command, g *globalOptions, ref string) error {
	return g.withApp(func(a *app.App) error {
		c, err := resolveChat(a.Manager.State().Chats, ref)
		if err != nil {
			return err
		}
		if _, err := a.Manager.LoadChat(c.Title); err != nil {
			return err
		}
		return printDone(cmd, g, "chats load", fmt.Sprintf("Loaded %q", c.Title), map[string]string{"title": c.Title})
	})
}

func runChatsRename(cmd *cobra.Command, g *globalOptions, ref, newTitle string) error {
	return g.withApp(func(a *app.App) error {
		c, err := resolveChat(a.Manager.State().Chats, ref)
		if err != nil {
			return err
		}
		if err := a.Manager.RenameChat(c.Title, newTitle); err != nil {
			return err
		}
		return printDone(cmd, g, "chats rename", fmt.Sprintf("Renamed %q to %q", c.Title, newTitle),
			map[string]string{"from": c.Title, "to": newTitle})
	})
}

func newChatsDeleteCommand(g *globalOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <chat>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved chat",
		Args:    exactArgs(1, "kronos chats delete 3 --yes"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(func(a *app.App) error {
				c, err := resolveChat(a.Manager.State().Chats, args[0])
				if err != nil {
					return err
				}
				ok, err := g.confirm(cmd, yes, fmt.Sprintf("delete %q", c.Title))
				if err != nil || !ok {
					if err == nil {
						fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					}
					return err
				}
				if err := a.Manager.DeleteChat(c.Title); err != nil {
					return err
				}
				return printDone(cmd, g, "chats delete", fmt.Sprintf("Deleted %q", c.Title), map[string]string{"title": c.Title})
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newChatsClearCommand(g *globalOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(func(a *app.App) error {
				n := len(a.Manager.State().Chats)
				ok, err := g.confirm(cmd, yes, fmt.Sprintf("delete all %d saved chats", n))
				if err != nil || !ok {
					if err == nil {
						fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					}
					return err
				}
				if err := a.Manager.ClearChats(); err != nil {
					return err
				}
				return printDone(cmd, g, "chats clear", fmt.Sprintf("Deleted %d chats", n), map[string]int{"deleted": n})
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// =============================================================================
// EXPORT
// =============================================================================

func newChatsExportCommand(g *globalOptions) *cobra.Command {
	var (
		format   string
		outPath  string
		theme    string
		metadata bool
		all      bool
	)
	cmd := &cobra.Command{
		Use:   "export <chat> | --all",
		Short: "Export a saved chat as Markdown, JSON or HTML",
		Long: `Export a saved chat.

Without --out the file is written to the current directory as
chat_<title>.<ext>. Use --out - to write to stdout.

With --all every saved chat is exported and --out names the directory.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return exactArgs(0, "kronos chats export --all --out ./exports")(cmd, args)
			}
			return exactArgs(1, "kronos chats export 1 --format html --out trip.html")(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(func(a *app.App) error {
				opts := export.DefaultOptions()
				opts.IncludeMetadata = metadata
				opts.Theme = theme
				if opts.Theme == "" {
					opts.Theme = a.Settings.Current().Theme
				}
				exp, err := export.ForFormat(format, opts)
				if err != nil {
					return ErrUnsupportedFormat(format, export.Formats())
				}
				if all {
					return exportAll(cmd, g, a, exp, outPath, format)
				}

				c, err := resolveChat(a.Manager.State().Chats, args[0])
				if err != nil {
					return err
				}
				var path string
				switch outPath {
				case "-":
					data, err := exp.Export(c)
					if err != nil {
						return err
					}
					_, err = cmd.OutOrStdout().Write(data)
					return err
				case "":
					cwd, err := os.Getwd()
					if err != nil {
						return err
					}
					if path, err = export.ExportToFile(c, exp, cwd); err != nil {
						return &CommandError{Command: "chats", Action: "export", Reason: "write file", Err: err}
					}
				default:
					path = filepath.Clean(outPath)
					if err := export.WriteTo(c, exp, path); err != nil {
						return &CommandError{Command: "chats", Action: "export", Reason: "write file", Err: err}
					}
				}
				return printDone(cmd, g, "chats export", fmt.Sprintf("Exported %q to %s", c.Title, path),
					map[string]string{"title": c.Title, "path": path, "format": format})
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "md", "export format: md, json or html")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, or - for stdout")
	cmd.Flags().StringVar(&theme, "theme", "", "color theme for html (default: current theme)")
	cmd.Flags().BoolVar(&metadata, "metadata", true, "include export metadata")
	cmd.Flags().BoolVar(&all, "all", false, "export every saved chat")
	return cmd
}

func exportAll(cmd *cobra.Command, g *globalOptions, a *app.App, exp export.Exporter, dir, format string) error {
	if dir == "-" {
		return &ValidationError{
			Field:   "out",
			Value:   dir,
			Reason:  "--all writes one file per chat and needs a directory",
			Example: "kronos chats export --all --out ./exports",
		}
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &CommandError{Command: "chats", Action: "export", Reason: "create directory", Err: err}
	}
	paths, err := export.ExportAll(cmd.Context(), a.Manager.State().Chats, exp, dir)
	if err != nil {
		return &CommandError{Command: "chats", Action: "export", Reason: "write file", Err: err}
	}
	return printDone(cmd, g, "chats export", fmt.Sprintf("Exported %d chats to %s", len(paths), dir),
		map[string]interface{}{"dir": dir, "paths": paths, "format": format})
}

// =============================================================================
// HELPERS
// =============================================================================

// printDone reports a completed change as a success line or a JSON envelope.
func printDone(cmd *cobra.Command, g *globalOptions, command, message string, data interface{}) error {
	out := cmd.OutOrStdout()
	if g.jsonMode {
		return NewJSONResponse(command, data).Print(out)
	}
	fmt.Fprintln(out, RenderSuccess(message))
	return nil
}

// exactArgs is cobra.ExactArgs with a usage example in the error.
func exactArgs(n int, example string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &ValidationError{
				Field:   "arguments",
				Reason:  fmt.Sprintf("%s expects %d argument(s), got %d", cmd.CommandPath(), n, len(args)),
				Example: example,
			}
		}
		return nil
	}
}
