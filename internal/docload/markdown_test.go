package docload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMarkdownStripsSyntax(t *testing.T) {
	md := "# Title\n\n" +
		"Some *emphasis* and **bold** and `inline code`.\n\n" +
		"```go\nfunc ignored() {}\n```\n\n" +
		"A [link](https://example.com) and ![image](pic.png).\n\n" +
		"---\n\n" +
		"1. first item\n2. second item\n\n" +
		"> a quoted thought\n"

	text, err := extractMarkdown([]byte(md))
	require.NoError(t, err)

	assert.Contains(t, text, "Title.")
	assert.Contains(t, text, "Some emphasis and bold and .")
	assert.NotContains(t, text, "func ignored")
	assert.Contains(t, text, "A link and .")
	assert.NotContains(t, text, "https://example.com")
	assert.NotContains(t, text, "pic.png")
	assert.NotContains(t, text, "---")
	assert.Contains(t, text, "first item.")
	assert.Contains(t, text, "second item.")
	assert.Contains(t, text, "a quoted thought")
	assert.NotContains(t, text, ">")
}

func TestExtractMarkdownTables(t *testing.T) {
	md := "| Product | Price |\n|---------|-------|\n| Widget  | $5    |\n"

	text, err := extractMarkdown([]byte(md))
	require.NoError(t, err)

	assert.Contains(t, text, "Product Price")
	assert.Contains(t, text, "Widget $5")
	assert.NotContains(t, text, "|")
	assert.NotContains(t, text, "---------")
}

func TestExtractMarkdownHeadingKeepsPunctuation(t *testing.T) {
	text, err := extractMarkdown([]byte("## Why do we exist?\n"))
	require.NoError(t, err)
	assert.Contains(t, text, "Why do we exist?")
	assert.NotContains(t, text, "Why do we exist?.")
}

func TestExtractMarkdownInvalidUTF8(t *testing.T) {
	_, err := extractMarkdown([]byte{0xFF, 0xFE, '#'})
	require.Error(t, err)
}
