// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/kronos-tui/internal/model"
)

func TestExtractCodeBlocks(t *testing.T) {
	content := "Try this:\n```go\nfmt.Println(\"hi\")\n```\nor\n" +
		`<pre><code class="language-python">print(&quot;hi&quot;)</code></pre>` +
		"\nand\n```\nplain\n```"

	blocks := ExtractCodeBlocks(content)
	require.Len(t, blocks, 3)
	assert.Equal(t, CodeBlock{Language: "go", Code: `fmt.Println("hi")`}, blocks[0])
	assert.Equal(t, CodeBlock{Language: "python", Code: `print("hi")`}, blocks[1])
	assert.Equal(t, CodeBlock{Code: "plain"}, blocks[2])
	assert.Equal(t, "code", blocks[2].Label())
}

func TestExtractCodeBlocks_None(t *testing.T) {
	assert.Empty(t, ExtractCodeBlocks("no code here"))
}

func TestHighlight_KeepsCode(t *testing.T) {
	out := Highlight("package main", "go", "dark")
	assert.Contains(t, out, "package")
	assert.Contains(t, out, "main")

	out = Highlight("whatever", "no-such-language", "unknown-theme")
	assert.Contains(t, out, "whatever")
}

func TestMarkdown_Render(t *testing.T) {
	md := NewMarkdown()
	out := md.Render("# Title\n\nSome **bold** text", "dark", 60)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
	assert.NotContains(t, out, "**")

	// Cached renderer is reused.
	md.Render("again", "dark", 60)
	assert.Len(t, md.renderers, 1)
}

func TestGlamourStyle(t *testing.T) {
	assert.Equal(t, "dracula", GlamourStyle("purple"))
	assert.Equal(t, "dark", GlamourStyle("mystery"))
}

func TestMessageText(t *testing.T) {
	assert.Equal(t, "a < b\nc", MessageText(model.NewUserMessage("a < b\nc")))
	assert.Equal(t, "line\nnext", MessageText(model.NewAssistantMessage("line<br>next")))
}

func TestCollapse(t *testing.T) {
	text := strings.Join([]string{"1", "2", "3", "4"}, "\n")
	short, hidden := Collapse(text, 2)
	assert.True(t, hidden)
	assert.Equal(t, "1\n2", short)

	same, hidden := Collapse("1\n2", 2)
	assert.False(t, hidden)
	assert.Equal(t, "1\n2", same)
}

func TestHighlightHTML(t *testing.T) {
	out := HighlightHTML("fmt.Println(\"<hi>\")", "go", "light")
	assert.Contains(t, out, "<pre")
	assert.NotContains(t, out, "<hi>", "code is escaped")
}
