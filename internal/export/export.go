// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/kronos-tui/internal/model"
	"github.com/jeranaias/kronos-tui/internal/render"
	"github.com/jeranaias/kronos-tui/internal/util"
)

// Generator is written into exported documents.
const Generator = "kronos"

// ErrEmptyChat is returned when exporting a chat without messages.
var ErrEmptyChat = errors.New("chat has no messages")

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a saved chat to one document format.
type Exporter interface {
	// Export converts a chat to the target format and returns the content.
	Export(chat model.Chat) ([]byte, error)

	// FileExtension returns the file extension, including the dot.
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// IncludeMetadata adds a header with title, message count and export time.
	IncludeMetadata bool

	// Theme selects the HTML palette. Default: "dark".
	Theme string

	// Now stamps the export time. Default: time.Now.
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{IncludeMetadata: true, Theme: "dark", Now: time.Now}
}

func (o *Options) now() time.Time {
	if o == nil || o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// =============================================================================
// FORMATS
// =============================================================================

// Formats lists the accepted format names.
func Formats() []string { return []string{"md", "json", "html"} }

// ForFormat returns the exporter for a format name.
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(format) {
	case "md", "markdown":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	case "html", "htm":
		return NewHTMLExporter(opts), nil
	}
	return nil, errors.Errorf("unsupported export format %q (want one of %s)", format, strings.Join(Formats(), ", "))
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile writes chat to dir using exporter and returns the path. The
// file name is derived from the chat title.
func ExportToFile(chat model.Chat, exporter Exporter, dir string) (string, error) {
	content, err := exporter.Export(chat)
	if err != nil {
		return "", errors.Wrap(err, "export failed")
	}
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, "chat_"+sanitizeFilename(chat.Title)+exporter.FileExtension())
	if err := util.AtomicWriteFile(path, content, 0o644); err != nil {
		return "", errors.Wrap(err, "write export")
	}
	return path, nil
}

// WriteTo writes chat to an explicit path.
func WriteTo(chat model.Chat, exporter Exporter, path string) error {
	content, err := exporter.Export(chat)
	if err != nil {
		return errors.Wrap(err, "export failed")
	}
	return errors.Wrap(util.AtomicWriteFile(path, content, 0o644), "write export")
}

// exportWorkers bounds concurrent writes in ExportAll.
const exportWorkers = 4

// ExportAll writes every chat with messages to dir and returns the paths in
// chat order. A title whose file name is already taken gets the first free
// numeric suffix. The first failure cancels the remaining writes.
func ExportAll(ctx context.Context, chats []model.Chat, exporter Exporter, dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	var (
		pending []model.Chat
		paths   []string
		taken   = make(map[string]bool)
	)
	for _, c := range chats {
		if len(c.History) == 0 {
			continue
		}
		base := "chat_" + sanitizeFilename(c.Title)
		name := base
		for n := 2; taken[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		taken[name] = true
		pending = append(pending, c)
		paths = append(paths, filepath.Join(dir, name+exporter.FileExtension()))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportWorkers)
	for i := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return errors.Wrapf(WriteTo(pending[i], exporter, paths[i]), "export %q", pending[i].Title)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func validate(chat model.Chat) error {
	if len(chat.History) == 0 {
		return ErrEmptyChat
	}
	return nil
}

// messageText is the readable text of a message: user input decoded, HTML
// line breaks as newlines.
func messageText(msg model.Message) string {
	return render.MessageText(msg)
}

var filenameReplacer = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "*", "-", "?", "-", "\"", "-",
	"<", "-", ">", "-", "|", "-", " ", "_", "\t", "_", "\n", "_", "\r", "_",
)

// sanitizeFilename makes a title safe to use in a file name on every
// platform.
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(util.TruncateRunes(strings.TrimSpace(s), 50))
	s = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return '-'
		}
		return r
	}, s)
	if s == "" {
		return "conversation"
	}
	return s
}

func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
