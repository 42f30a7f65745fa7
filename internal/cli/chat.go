// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-by-line chat for terminals where the full screen is not
// wanted, and one-shot messages from scripts.
//
// Command: chat [message...]
//
// Without arguments kronos reads messages with line editing and history
// (arrow keys, Ctrl+R). Lines starting with / are commands; see /help.
// With arguments the message is sent, the reply printed, and kronos exits.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jeranaias/kronos-tui/internal/app"
	"github.com/jeranaias/kronos-tui/internal/model"
	"github.com/jeranaias/kronos-tui/internal/render"
	"github.com/jeranaias/kronos-tui/internal/session"
	"github.com/jeranaias/kronos-tui/internal/settings"
)

// historyFileName holds REPL input history in the data directory.
const historyFileName = "repl_history"

// slashCommands in help order.
var slashCommands = []struct {
	name  string
	args  string
	alias []string
	desc  string
}{
	{"/new", "", []string{"/n"}, "Start a new chat"},
	{"/chats", "", []string{"/ls"}, "List saved chats"},
	{"/load", "<chat>", nil, "Switch to a saved chat (title or number)"},
	{"/delete", "<chat>", nil, "Delete a saved chat"},
	{"/rename", "<old> => <new>", nil, "Rename a chat; with one title, renames the active chat"},
	{"/history", "", nil, "Show the active conversation"},
	{"/theme", "[name]", nil, "Show or change the theme"},
	{"/help", "", []string{"/h", "/?"}, "Show this help"},
	{"/quit", "", []string{"/q", "/exit"}, "Leave the chat"},
}

func slashCommandNames() []string {
	names := make([]string, 0, len(slashCommands))
	for _, c := range slashCommands {
		names = append(names, c.name)
	}
	return names
}

func newChatCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message...]",
		Short: "Chat line by line, or send one message and print the reply",
		Example: `  kronos chat
  kronos chat "What is the capital of Peru?"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(func(a *app.App) error {
				r := newREPL(a, cmd.OutOrStdout(), ColorsEnabled())
				if len(args) > 0 {
					return r.send(cmd.Context(), strings.Join(args, " "))
				}
				if err := RequiresTTY("start the chat prompt"); err != nil {
					return err
				}
				return r.run(cmd.Context(), filepath.Join(a.Config.Storage.DataDir, historyFileName))
			})
		},
	}
}

// =============================================================================
// REPL
// =============================================================================

type repl struct {
	mgr      *session.Manager
	settings *settings.Store
	md       *render.Markdown
	log      logrus.FieldLogger
	out      io.Writer
	color    bool
	width    int
}

func newREPL(a *app.App, out io.Writer, color bool) *repl {
	return &repl{
		mgr:      a.Manager,
		settings: a.Settings,
		md:       render.NewMarkdown(),
		log:      a.Log.WithField("component", "repl"),
		out:      out,
		color:    color,
		width:    GetTerminalWidth(),
	}
}

// run reads lines until /quit, Ctrl+C at the prompt or Ctrl+D.
func (r *repl) run(ctx context.Context, historyFile string) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(completeSlash)

	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		f, err := os.OpenFile(historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			r.log.WithError(err).Warn("Could not save input history")
			return
		}
		defer f.Close()
		line.WriteHistory(f)
	}()

	r.printWelcome()
	for {
		input, err := line.Prompt("kronos> ")
		if err != nil {
			// Ctrl+C, Ctrl+D and closed input all end the session.
			fmt.Fprintln(r.out)
			r.printExit()
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		cont, err := r.handle(ctx, input)
		if err != nil {
			fmt.Fprintf(r.out, "%s %s\n", ErrorStyle.Render("[Error]"), userMessage(err))
		}
		if !cont {
			r.printExit()
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// handle processes one line of input and reports whether to keep going.
func (r *repl) handle(ctx context.Context, input string) (bool, error) {
	if strings.HasPrefix(input, "/") {
		return r.command(input)
	}
	if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
		return false, nil
	}
	return true, r.send(ctx, input)
}

// send delivers one message and prints the reply. Ctrl+C while waiting
// cancels the request and keeps the message in the chat.
func (r *repl) send(ctx context.Context, text string) error {
	wasUntitled := r.mgr.State().IsUntitled()

	sendCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if r.color {
		fmt.Fprint(r.out, DimStyle.Render("Assistant is typing..."))
	}
	err := r.mgr.SendUserMessage(sendCtx, text)
	if r.color {
		fmt.Fprint(r.out, "\r\033[K")
	}
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			fmt.Fprintln(r.out, WarningStyle.Render("[Cancelled]"))
			return nil
		}
		return err
	}

	state := r.mgr.State()
	if n := len(state.History); n > 0 {
		r.printReply(state.History[n-1])
	}
	if wasUntitled && !state.IsUntitled() {
		fmt.Fprintln(r.out, DimStyle.Render(fmt.Sprintf("Saved as %q", state.Title)))
	}
	return nil
}

func (r *repl) printReply(msg model.Message) {
	text := render.MessageText(msg)
	if r.color {
		fmt.Fprintln(r.out, r.md.Render(text, r.settings.Current().Theme, r.width-2))
		return
	}
	fmt.Fprintln(r.out, WrapText(text, r.width))
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// command runs a slash command. It returns false to leave the REPL.
func (r *repl) command(input string) (bool, error) {
	name, rest, _ := strings.Cut(input, " ")
	name = strings.ToLower(name)
	rest = strings.TrimSpace(rest)

	switch name {
	case "/help", "/h", "/?", "/":
		r.printHelp()
	case "/quit", "/q", "/exit":
		return false, nil
	case "/new", "/n":
		if err := r.mgr.StartNewChat(); err != nil {
			return true, err
		}
		fmt.Fprintln(r.out, RenderSuccess("New chat"))
	case "/chats", "/ls":
		printChatList(r.out, summarizeChats(r.mgr.State()))
	case "/load":
		return true, r.load(rest)
	case "/delete":
		return true, r.delete(rest)
	case "/rename":
		return true, r.rename(rest)
	case "/history":
		state := r.mgr.State()
		fmt.Fprintln(r.out, TitleStyle.Render(state.Title))
		printTranscript(r.out, state.History)
	case "/theme":
		return true, r.theme(rest)
	default:
		msg := fmt.Sprintf("unknown command: %s", name)
		if s := SuggestCommand(name, slashCommandNames()); s != "" {
			msg += fmt.Sprintf(" (did you mean %s?)", s)
		} else {
			msg += " (type /help for commands)"
		}
		return true, errors.New(msg)
	}
	return true, nil
}

func (r *repl) load(ref string) error {
	if ref == "" {
		return ErrMissingArgument("chat", "/load 2")
	}
	c, err := resolveChat(r.mgr.State().Chats, ref)
	if err != nil {
		return err
	}
	if _, err := r.mgr.LoadChat(c.Title); err != nil {
		return err
	}
	fmt.Fprintln(r.out, RenderSuccess(fmt.Sprintf("Loaded %q (%d messages)", c.Title, len(c.History))))
	return nil
}

func (r *repl) delete(ref string) error {
	if ref == "" {
		return ErrMissingArgument("chat", "/delete 2")
	}
	c, err := resolveChat(r.mgr.State().Chats, ref)
	if err != nil {
		return err
	}
	if err := r.mgr.DeleteChat(c.Title); err != nil {
		return err
	}
	fmt.Fprintln(r.out, RenderSuccess(fmt.Sprintf("Deleted %q", c.Title)))
	return nil
}

func (r *repl) rename(args string) error {
	state := r.mgr.State()
	oldRef, newTitle, found := strings.Cut(args, "=>")
	if !found {
		// One title renames the active chat.
		if state.IsUntitled() {
			return &ValidationError{
				Field:   "chat",
				Reason:  "the active chat is not saved yet",
				Example: "/rename Old title => New title",
			}
		}
		oldRef, newTitle = state.Title, args
	}
	oldRef, newTitle = strings.TrimSpace(oldRef), strings.TrimSpace(newTitle)

	c, err := resolveChat(state.Chats, oldRef)
	if err != nil {
		return err
	}
	if err := r.mgr.RenameChat(c.Title, newTitle); err != nil {
		return err
	}
	fmt.Fprintln(r.out, RenderSuccess(fmt.Sprintf("Renamed %q to %q", c.Title, newTitle)))
	return nil
}

func (r *repl) theme(name string) error {
	if name == "" {
		printThemes(r.out, r.settings.Current().Theme)
		return nil
	}
	if err := r.settings.SetTheme(name); err != nil {
		return err
	}
	current := r.settings.Current().Theme
	fmt.Fprintln(r.out, RenderSuccess("Theme set to "+settings.ThemeDisplayName(current)))
	return nil
}

// completeSlash offers slash commands for tab completion.
func completeSlash(line string) []string {
	if !strings.HasPrefix(line, "/") || strings.Contains(line, " ") {
		return nil
	}
	var out []string
	for _, name := range slashCommandNames() {
		if strings.HasPrefix(name, strings.ToLower(line)) {
			out = append(out, name)
		}
	}
	return out
}

// =============================================================================
// OUTPUT
// =============================================================================

func (r *repl) printWelcome() {
	state := r.mgr.State()
	fmt.Fprintln(r.out, TitleStyle.Render("kronos "+Version))
	if state.IsUntitled() {
		fmt.Fprintln(r.out, DimStyle.Render(fmt.Sprintf("New chat. %d saved chats.", len(state.Chats))))
	} else {
		fmt.Fprintln(r.out, DimStyle.Render(fmt.Sprintf("Continuing %q (%d messages).", state.Title, len(state.History))))
	}
	fmt.Fprintln(r.out, DimStyle.Render("Type your message and press Enter. Commands: /help, /quit"))
	fmt.Fprintln(r.out)
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.out, SectionStyle.Render("Commands"))
	fmt.Fprintln(r.out, RenderSeparator(20))
	for _, c := range slashCommands {
		usage := c.name
		if c.args != "" {
			usage += " " + c.args
		}
		fmt.Fprintf(r.out, "  %s  %s\n", CommandStyle.Render(fmt.Sprintf("%-24s", usage)), DimStyle.Render(c.desc))
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, DimStyle.Render("Ctrl+C cancels a pending reply; Ctrl+D exits."))
}

func (r *repl) printExit() {
	state := r.mgr.State()
	fmt.Fprintln(r.out, DimStyle.Render(fmt.Sprintf("Bye. %d saved chats.", len(state.Chats))))
}
