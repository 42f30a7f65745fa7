// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeranaias/kronos-tui/internal/app"
	"github.com/jeranaias/kronos-tui/internal/render"
	"github.com/jeranaias/kronos-tui/internal/ui/chat"
)

// Version information, set at build time with -ldflags -X.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// GLOBAL OPTIONS
// =============================================================================

// globalOptions holds the persistent flags and the streams commands use.
type globalOptions struct {
	configPath string
	dataDir    string
	backend    string
	logLevel   string
	jsonMode   bool

	in          io.Reader
	interactive func() bool
}

func (g *globalOptions) overrides() app.Overrides {
	return app.Overrides{
		ConfigPath: g.configPath,
		DataDir:    g.dataDir,
		Backend:    g.backend,
		LogLevel:   g.logLevel,
	}
}

// withApp builds an App for one command and closes it afterwards.
func (g *globalOptions) withApp(fn func(a *app.App) error) error {
	cfg, err := app.LoadConfig(g.overrides())
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func (g *globalOptions) confirm(cmd *cobra.Command, yes bool, action string) (bool, error) {
	return RequireConfirmation(action, ConfirmationOptions{
		ConfirmFlag: yes,
		JSONMode:    g.jsonMode,
		Interactive: g.interactive(),
		In:          g.in,
		Out:         cmd.OutOrStdout(),
	})
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the kronos command tree.
func NewRootCommand() *cobra.Command {
	root, _ := newRoot(os.Stdin, IsTTY)
	return root
}

func newRoot(in io.Reader, interactive func() bool) (*cobra.Command, *globalOptions) {
	g := &globalOptions{in: in, interactive: interactive}

	root := &cobra.Command{
		Use:   "kronos",
		Short: "Chat with the Kronos assistant from your terminal",
		Long: `kronos is a terminal client for the Kronos assistant.

Run it without arguments for the full-screen chat. Conversations are saved
automatically and shared with 'kronos chat' and the 'chats' commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), g)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (default ~/.kronos/config.toml)")
	pf.StringVar(&g.dataDir, "data-dir", "", "directory holding chats and settings")
	pf.StringVar(&g.backend, "backend", "", "storage backend: file, sqlite or memory")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVar(&g.jsonMode, "json", false, "print machine-readable JSON")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ValidationError{Field: "flags", Reason: err.Error()}
	})

	root.AddCommand(
		newChatCommand(g),
		newChatsCommand(g),
		newSettingsCommand(g),
		newSuggestCommand(g),
		newConfigCommand(g),
		newVersionCommand(g),
	)
	return root, g
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	root, g := newRoot(os.Stdin, IsTTY)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	DisplayError(root.ErrOrStderr(), err, g.jsonMode)
	if strings.HasPrefix(err.Error(), "unknown command") {
		return ExitUsageError
	}
	return GetExitCode(err)
}

// runTUI opens the full-screen chat.
func runTUI(ctx context.Context, g *globalOptions) error {
	if err := RequiresTTY("open the chat screen"); err != nil {
		return err
	}
	return g.withApp(func(a *app.App) error {
		return chat.Run(ctx, chat.Options{
			Manager:     a.Manager,
			Settings:    a.Settings,
			Suggestions: a.Suggestions,
			Markdown:    render.NewMarkdown(),
			Logger:      a.Log,
			UserName:    a.Config.UI.UserName,
			Version:     Version,
		}, chat.RunOptions{
			AltScreen: a.Config.UI.AltScreen,
			Watch:     a.Watch(),
		})
	})
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return OutputJSON(out, g.jsonMode, "version", func() (interface{}, error) {
				if !g.jsonMode {
					fmt.Fprintf(out, "%s %s\n", TitleStyle.Render("kronos"), Version)
					fmt.Fprintln(out, DimStyle.Render(fmt.Sprintf("commit %s, built %s", GitCommit, BuildDate)))
				}
				return VersionData{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}, nil
			})
		},
	}
}
