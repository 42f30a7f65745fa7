// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/jeranaias/kronos-tui/internal/model"
	"github.com/jeranaias/kronos-tui/internal/render"
	"github.com/jeranaias/kronos-tui/internal/ui/styles"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports a chat as a standalone HTML page styled with the
// palette of the chosen theme. Code blocks are highlighted inline.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a chat to HTML.
func (e *HTMLExporter) Export(chat model.Chat) ([]byte, error) {
	if err := validate(chat); err != nil {
		return nil, err
	}
	theme := e.options.Theme
	if theme == "" {
		theme = "dark"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"UTF-8\">\n")
	sb.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(chat.Title)))
	sb.WriteString("<meta name=\"generator\" content=\"" + Generator + "\">\n")
	sb.WriteString(e.css(theme))
	sb.WriteString("</head>\n<body>\n<div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString("<header>\n")
		sb.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(chat.Title)))
		sb.WriteString(fmt.Sprintf("<p class=\"meta\">%d messages · exported %s</p>\n",
			len(chat.History), formatTimestamp(e.options.now())))
		sb.WriteString("</header>\n")
	}

	sb.WriteString("<main>\n")
	for _, msg := range chat.History {
		sb.WriteString(e.renderMessage(msg, theme))
	}
	sb.WriteString("</main>\n</div>\n</body>\n</html>\n")
	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string { return ".html" }

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string { return "text/html" }

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderMessage(msg model.Message, theme string) string {
	class, label := "assistant", "Assistant"
	body := formatReply(messageText(msg), theme)
	if msg.Speaker.IsUser() {
		class, label = "user", "You"
		body = "<p>" + strings.ReplaceAll(html.EscapeString(messageText(msg)), "\n", "<br>") + "</p>"
	}
	return fmt.Sprintf("<div class=\"message %s\">\n<div class=\"speaker\">%s</div>\n%s\n</div>\n", class, label, body)
}

var fenced = regexp.MustCompile("(?s)```([\\w+#.-]*)[^\\n]*\\n(.*?)```")

// prose renders the text between code blocks. Raw HTML in replies is
// omitted.
var prose = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

// formatReply turns an assistant reply into HTML with highlighted code
// blocks.
func formatReply(content, theme string) string {
	var sb strings.Builder
	last := 0
	for _, m := range fenced.FindAllStringSubmatchIndex(content, -1) {
		sb.WriteString(paragraphs(content[last:m[0]]))
		lang := content[m[2]:m[3]]
		code := strings.TrimRight(content[m[4]:m[5]], "\n")
		if lang != "" {
			sb.WriteString(fmt.Sprintf("<div class=\"code-lang\">%s</div>\n", html.EscapeString(lang)))
		}
		sb.WriteString(render.HighlightHTML(code, lang, theme))
		sb.WriteString("\n")
		last = m[1]
	}
	sb.WriteString(paragraphs(content[last:]))
	return strings.TrimSpace(sb.String())
}

func paragraphs(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := prose.Convert([]byte(text), &buf); err != nil {
		return "<p>" + strings.ReplaceAll(html.EscapeString(text), "\n", "<br>") + "</p>\n"
	}
	return buf.String()
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

func (e *HTMLExporter) css(theme string) string {
	p := styles.PaletteFor(theme)
	return fmt.Sprintf(`<style>
body { margin: 0; background: %[1]s; color: %[2]s; font-family: system-ui, sans-serif; line-height: 1.5; }
.container { max-width: 860px; margin: 0 auto; padding: 24px; }
header h1 { color: %[3]s; margin-bottom: 4px; }
.meta { color: %[4]s; font-size: 0.9em; }
.message { margin: 16px 0; padding: 12px 16px; border-radius: 8px; }
.message.user { background: %[5]s; color: %[6]s; }
.message.assistant { background: %[7]s; border-left: 3px solid %[8]s; }
.speaker { font-weight: bold; margin-bottom: 6px; color: %[3]s; }
.code-lang { font-size: 0.8em; color: %[4]s; margin-top: 8px; }
pre { padding: 12px; border-radius: 6px; overflow-x: auto; }
code { font-family: ui-monospace, monospace; }
</style>
`, p.Background, p.Text, p.Accent, p.Muted, p.UserBg, p.UserFg, p.AssistantBg, p.Border)
}
