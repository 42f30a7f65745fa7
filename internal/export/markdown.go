// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/kronos-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// frontMatter is the YAML header of a Markdown export.
type frontMatter struct {
	Title     string    `yaml:"title"`
	Messages  int       `yaml:"messages"`
	Exported  time.Time `yaml:"exported"`
	Generator string    `yaml:"generator"`
}

// MarkdownExporter exports a chat as Markdown with optional YAML front
// matter. Assistant replies are already Markdown and are copied verbatim.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a chat to Markdown.
func (e *MarkdownExporter) Export(chat model.Chat) ([]byte, error) {
	if err := validate(chat); err != nil {
		return nil, err
	}

	var sb strings.Builder
	if e.options.IncludeMetadata {
		fm, err := yaml.Marshal(frontMatter{
			Title:     chat.Title,
			Messages:  len(chat.History),
			Exported:  e.options.now().UTC().Truncate(time.Second),
			Generator: Generator,
		})
		if err != nil {
			return nil, errors.Wrap(err, "front matter")
		}
		sb.WriteString("---\n")
		sb.Write(fm)
		sb.WriteString("---\n\n")
	}

	sb.WriteString("# " + escapeMarkdown(chat.Title) + "\n\n")
	for i, msg := range chat.History {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		sb.WriteString("### " + e.formatSpeaker(msg.Speaker) + "\n\n")
		text := strings.TrimSpace(messageText(msg))
		if msg.Speaker.IsUser() {
			text = quoteLines(text)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string { return ".md" }

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string { return "text/markdown" }

func (e *MarkdownExporter) formatSpeaker(s model.Speaker) string {
	if s.IsUser() {
		return "You"
	}
	return "Assistant"
}

// quoteLines renders user input as a block quote so Markdown in it is shown
// as typed.
func quoteLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "> " + escapeMarkdown(l)
	}
	return strings.Join(lines, "\n")
}

var markdownEscaper = strings.NewReplacer(
	"\\", "\\\\", "`", "\\`", "*", "\\*", "_", "\\_", "#", "\\#", "[", "\\[", "]", "\\]",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
