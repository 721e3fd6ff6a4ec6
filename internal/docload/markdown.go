package docload

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/brandforge/golden-circle/internal/common"
)

var (
	reCodeBlock  = regexp.MustCompile("(?s)```[^`]*```")
	reInlineCode = regexp.MustCompile("`[^`]+`")
	reImage      = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	reLink       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	reEmphasis   = regexp.MustCompile(`(\*{1,3}|_{1,3})([^*_]+)(\*{1,3}|_{1,3})`)
	reHRule      = regexp.MustCompile(`^\s*([-*_]\s*){3,}$`)
	reListMarker = regexp.MustCompile(`^\s*([-*+]|\d+[.)])\s+`)
)

// extractMarkdown strips Markdown syntax down to plain prose. Headings and
// list items become sentence-terminated lines so downstream sentence-boundary
// logic still works.
func extractMarkdown(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", common.Errorf(common.KindCorruptDocument, "markdown document is not valid UTF-8")
	}

	content := string(raw)
	content = reCodeBlock.ReplaceAllString(content, "")
	content = reInlineCode.ReplaceAllString(content, "")
	content = reImage.ReplaceAllString(content, "")
	content = reLink.ReplaceAllString(content, "$1")
	// Nested emphasis needs repeated passes (***bold italic***).
	for i := 0; i < 3; i++ {
		content = reEmphasis.ReplaceAllString(content, "$2")
	}

	var out []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			out = append(out, "")
		case reHRule.MatchString(trimmed):
			out = append(out, "")
		case strings.HasPrefix(trimmed, "#"):
			heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			heading = strings.TrimSpace(strings.TrimRight(heading, "#"))
			if heading != "" {
				out = append(out, sentenceTerminated(heading))
			}
		case strings.HasPrefix(trimmed, ">"):
			quoted := strings.TrimSpace(strings.TrimLeft(trimmed, "> "))
			if quoted != "" {
				out = append(out, quoted)
			}
		case strings.HasPrefix(trimmed, "|"):
			// Table rows: keep cell text, drop separators.
			cells := splitTableRow(trimmed)
			if len(cells) > 0 {
				out = append(out, strings.Join(cells, " "))
			}
		case reListMarker.MatchString(trimmed):
			item := reListMarker.ReplaceAllString(trimmed, "")
			if item != "" {
				out = append(out, sentenceTerminated(item))
			}
		default:
			out = append(out, trimmed)
		}
	}

	return strings.Join(out, "\n"), nil
}

// sentenceTerminated appends a period unless the line already ends with
// terminal punctuation.
func sentenceTerminated(s string) string {
	switch s[len(s)-1] {
	case '.', '!', '?', ':':
		return s
	}
	return s + "."
}

// splitTableRow extracts non-separator cell text from a markdown table row.
func splitTableRow(row string) []string {
	var cells []string
	for _, cell := range strings.Split(strings.Trim(row, "|"), "|") {
		cell = strings.TrimSpace(cell)
		if cell == "" || strings.Trim(cell, ":- ") == "" {
			continue
		}
		cells = append(cells, cell)
	}
	return cells
}
