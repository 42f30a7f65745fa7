// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	"github.com/pkg/errors"
)

// =============================================================================
// CODE BLOCK EXTRACTION
// =============================================================================

// CodeBlock is a fenced or <pre><code> block found in an assistant reply.
type CodeBlock struct {
	Language string
	Code     string
}

// Label is the language shown above the block, or "code" when unknown.
func (c CodeBlock) Label() string {
	if c.Language == "" {
		return "code"
	}
	return c.Language
}

var (
	fencedBlock = regexp.MustCompile("(?s)```([\\w+#.-]*)[^\\n]*\\n(.*?)```")
	htmlBlock   = regexp.MustCompile(`(?s)<pre><code(?:\s+class="(?:language-)?([\w+#.-]+)")?>(.*?)</code></pre>`)
)

// ExtractCodeBlocks returns the code blocks of content in order of
// appearance.
func ExtractCodeBlocks(content string) []CodeBlock {
	type located struct {
		at    int
		block CodeBlock
	}
	var found []located

	for _, m := range fencedBlock.FindAllStringSubmatchIndex(content, -1) {
		found = append(found, located{at: m[0], block: CodeBlock{
			Language: strings.ToLower(content[m[2]:m[3]]),
			Code:     strings.TrimRight(content[m[4]:m[5]], "\n"),
		}})
	}
	for _, m := range htmlBlock.FindAllStringSubmatchIndex(content, -1) {
		lang := ""
		if m[2] >= 0 {
			lang = strings.ToLower(content[m[2]:m[3]])
		}
		found = append(found, located{at: m[0], block: CodeBlock{
			Language: lang,
			Code:     strings.TrimRight(html.UnescapeString(content[m[4]:m[5]]), "\n"),
		}})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].at < found[j].at })
	blocks := make([]CodeBlock, len(found))
	for i, f := range found {
		blocks[i] = f.block
	}
	return blocks
}

// =============================================================================
// SYNTAX HIGHLIGHTING
// =============================================================================

var chromaThemes = map[string]string{
	"dark":   "monokai",
	"light":  "github",
	"blue":   "tokyonight-night",
	"purple": "dracula",
	"black":  "monokai",
}

// Highlight returns code with terminal colour escapes for the given language
// and theme. Unknown languages are detected from the code; on any failure the
// code is returned as is.
func Highlight(code, language, theme string) string {
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	out, err := highlight(code, language, theme, formatter)
	if err != nil {
		return code
	}
	return out
}

// HighlightHTML returns code as a <pre> block with inline styles. On failure
// the escaped code is returned in a plain <pre><code> block.
func HighlightHTML(code, language, theme string) string {
	out, err := highlight(code, language, theme, chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4)))
	if err != nil {
		return "<pre><code>" + html.EscapeString(code) + "</code></pre>"
	}
	return out
}

func highlight(code, language, theme string, formatter chroma.Formatter) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(chromaThemes[theme])
	if style == nil {
		style = chromaStyles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// =============================================================================
// CLIPBOARD
// =============================================================================

// Copy puts text on the system clipboard.
func Copy(text string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard is not available on this system")
	}
	return errors.Wrap(clipboard.WriteAll(text), "copy to clipboard")
}
